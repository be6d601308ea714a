package toylang

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const defaultMaxDepth = 1000

// LineReader is the input capability used by input(). The prompt, if any,
// is shown before blocking for one line.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// ReaderInput adapts an io.Reader (stdin by default) to LineReader and
// echoes prompts to W. At end of input it returns "" rather than io.EOF.
type ReaderInput struct {
	r *bufio.Reader
	W io.Writer
}

func NewReaderInput(r io.Reader, w io.Writer) *ReaderInput {
	return &ReaderInput{r: bufio.NewReader(r), W: w}
}

func (ri *ReaderInput) ReadLine(prompt string) (string, error) {
	if prompt != "" && ri.W != nil {
		if _, err := io.WriteString(ri.W, prompt); err != nil {
			return "", err
		}
	}
	line, err := ri.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Config holds the tunables an Interpreter is built from.
type Config struct {
	Output    io.Writer
	Input     LineReader
	Trace     *slog.Logger
	MaxDepth  int
	Globals   map[string]any
	Functions []*NativeFunctionValue
}

type Option func(*Config)

func WithOutput(w io.Writer) Option {
	return func(c *Config) { c.Output = w }
}

func WithInput(r LineReader) Option {
	return func(c *Config) { c.Input = r }
}

// WithTrace logs every executed statement and function call at Debug level.
func WithTrace(logger *slog.Logger) Option {
	return func(c *Config) { c.Trace = logger }
}

func WithMaxDepth(n int) Option {
	return func(c *Config) { c.MaxDepth = n }
}

// WithGlobals exposes host values to programs as constants.
func WithGlobals(globals map[string]any) Option {
	return func(c *Config) {
		if c.Globals == nil {
			c.Globals = make(map[string]any, len(globals))
		}
		for k, v := range globals {
			c.Globals[k] = v
		}
	}
}

// WithFunction registers an extra builtin. arity -1 skips the argument count check.
func WithFunction(name string, arity int, fn Builtin) Option {
	return func(c *Config) {
		c.Functions = append(c.Functions, &NativeFunctionValue{Name: name, Arity: arity, Fn: fn})
	}
}

// Interpreter owns the capabilities a run needs. It holds no program state
// between runs; each Run starts from a fresh environment.
type Interpreter struct {
	out      io.Writer
	in       LineReader
	trace    *slog.Logger
	maxDepth int
	depth    int
	registry *FunctionRegistry
	globals  map[string]any
}

func New(opts ...Option) *Interpreter {
	cfg := Config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	in := &Interpreter{
		out:      cfg.Output,
		in:       cfg.Input,
		trace:    cfg.Trace,
		maxDepth: cfg.MaxDepth,
		registry: NewFunctionRegistry(),
		globals:  cfg.Globals,
	}
	if in.out == nil {
		in.out = os.Stdout
	}
	if in.in == nil {
		in.in = NewReaderInput(os.Stdin, in.out)
	}
	if in.maxDepth <= 0 {
		in.maxDepth = defaultMaxDepth
	}
	registerDefaults(in.registry)
	for _, fn := range cfg.Functions {
		in.registry.Replace(fn)
	}
	return in
}

// Registry exposes the builtin table so hosts can add functions before running.
func (in *Interpreter) Registry() *FunctionRegistry {
	return in.registry
}

// RunResult is the outcome of one Run. Err is nil on success.
type RunResult struct {
	Err *Error
}

func (r RunResult) OK() bool { return r.Err == nil }

// Run executes src with a fresh interpreter.
func Run(src string, opts ...Option) RunResult {
	return New(opts...).Run(src)
}

func (in *Interpreter) Run(src string) RunResult {
	prog, err := in.Parse(src)
	if err != nil {
		return RunResult{Err: AsError(err)}
	}
	env, err := in.NewGlobalEnv()
	if err != nil {
		return RunResult{Err: AsError(err)}
	}
	if _, err := in.Execute(prog, env); err != nil {
		return RunResult{Err: AsError(err)}
	}
	return RunResult{}
}

// Parse lexes, parses and validates src.
func (in *Interpreter) Parse(src string) (*Program, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	if err := Validate(prog); err != nil {
		return nil, err
	}
	return prog, nil
}

// NewGlobalEnv builds the builtin frame (registry functions and host
// globals) and returns a program frame enclosed by it.
func (in *Interpreter) NewGlobalEnv() (*Environment, error) {
	builtins := NewEnv(nil)
	for _, fn := range in.registry.Functions() {
		if err := builtins.Define(fn.Name, fn, false); err != nil {
			return nil, err
		}
	}
	for name, raw := range in.globals {
		v, err := FromGo(raw)
		if err != nil {
			return nil, fmt.Errorf("global %s: %w", name, err)
		}
		if _, exists := builtins.vars[name]; exists {
			builtins.vars[name] = &slot{value: v}
			continue
		}
		if err := builtins.Define(name, v, false); err != nil {
			return nil, err
		}
	}
	return builtins.Child(), nil
}

// Execute runs prog in env. The returned value is the value of the last
// top-level expression statement, or nil.
func (in *Interpreter) Execute(prog *Program, env *Environment) (Value, error) {
	in.depth = 0
	c, err := in.execStatements(prog.Statements, env)
	if err != nil {
		return nil, err
	}
	return c.Value, nil
}

func (in *Interpreter) execStatements(stmts []Stmt, env *Environment) (Completion, error) {
	last := normalCompletion
	for _, stmt := range stmts {
		if in.trace != nil {
			in.trace.Debug("exec", slog.String("node", nodeName(stmt)), slog.Int("line", stmt.Line()))
		}
		c, err := stmt.Exec(in, env)
		if err != nil {
			return c, err
		}
		if c.returned() {
			return c, nil
		}
		last = c
	}
	return last, nil
}

func nodeName(n Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*toylang.")
}

// Session keeps one environment alive across several Exec calls, which is
// what the REPL needs.
type Session struct {
	interp *Interpreter
	env    *Environment
}

func NewSession(opts ...Option) (*Session, error) {
	in := New(opts...)
	env, err := in.NewGlobalEnv()
	if err != nil {
		return nil, err
	}
	return &Session{interp: in, env: env}, nil
}

// Exec runs src in the session environment and returns the value of its
// last expression statement (nil when there is none).
func (s *Session) Exec(src string) (Value, error) {
	prog, err := s.interp.Parse(src)
	if err != nil {
		return nil, err
	}
	return s.interp.Execute(prog, s.env)
}

func (s *Session) Env() *Environment {
	return s.env
}
