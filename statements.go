package toylang

import (
	"io"
	"math"
	"strings"
)

// VarDecl is `let name = init;` or `const name = init;`. A let without an
// initializer binds null.
type VarDecl struct {
	Pos
	Name    string
	Init    Expr
	Mutable bool
}

func (d *VarDecl) Exec(in *Interpreter, env *Environment) (Completion, error) {
	var v Value = Null
	if d.Init != nil {
		var err error
		if v, err = d.Init.Eval(in, env); err != nil {
			return normalCompletion, err
		}
	}
	if err := env.Define(d.Name, v, d.Mutable); err != nil {
		return normalCompletion, atLine(err, d.Line())
	}
	return normalCompletion, nil
}

func (d *VarDecl) ToSource(indent string) string {
	kw := "const"
	if d.Mutable {
		kw = "let"
	}
	if d.Init == nil {
		return indent + kw + " " + d.Name + ";"
	}
	return indent + kw + " " + d.Name + " = " + d.Init.ToSource(indent) + ";"
}

// BlockStmt runs its statements in a fresh frame enclosed by the current one.
type BlockStmt struct {
	Pos
	Statements []Stmt
}

func (b *BlockStmt) Exec(in *Interpreter, env *Environment) (Completion, error) {
	return in.execStatements(b.Statements, env.Child())
}

func (b *BlockStmt) ToSource(indent string) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Statements {
		sb.WriteString(s.ToSource(indent + "    "))
		sb.WriteByte('\n')
	}
	sb.WriteString(indent)
	sb.WriteByte('}')
	return sb.String()
}

// IfStmt's Else is nil, a *BlockStmt, or another *IfStmt for `else if`.
type IfStmt struct {
	Pos
	Cond Expr
	Then *BlockStmt
	Else Stmt
}

func (s *IfStmt) Exec(in *Interpreter, env *Environment) (Completion, error) {
	cond, err := s.Cond.Eval(in, env)
	if err != nil {
		return normalCompletion, err
	}
	if Truthy(cond) {
		return s.Then.Exec(in, env)
	}
	if s.Else != nil {
		return s.Else.Exec(in, env)
	}
	return normalCompletion, nil
}

func (s *IfStmt) ToSource(indent string) string {
	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString(s.headSource(indent))
	return sb.String()
}

func (s *IfStmt) headSource(indent string) string {
	src := "if (" + s.Cond.ToSource("") + ") " + s.Then.ToSource(indent)
	switch e := s.Else.(type) {
	case nil:
	case *IfStmt:
		src += " else " + e.headSource(indent)
	default:
		src += " else " + e.ToSource(indent)
	}
	return src
}

type WhileStmt struct {
	Pos
	Cond Expr
	Body *BlockStmt
}

func (s *WhileStmt) Exec(in *Interpreter, env *Environment) (Completion, error) {
	for {
		cond, err := s.Cond.Eval(in, env)
		if err != nil {
			return normalCompletion, err
		}
		if !Truthy(cond) {
			return normalCompletion, nil
		}
		c, err := s.Body.Exec(in, env)
		if err != nil || c.returned() {
			return c, err
		}
	}
}

func (s *WhileStmt) ToSource(indent string) string {
	return indent + "while (" + s.Cond.ToSource("") + ") " + s.Body.ToSource(indent)
}

// RepeatStmt is `repeat N times { ... }`. The count is evaluated once and
// truncated toward zero.
type RepeatStmt struct {
	Pos
	Count Expr
	Body  *BlockStmt
}

func (s *RepeatStmt) Exec(in *Interpreter, env *Environment) (Completion, error) {
	v, err := s.Count.Eval(in, env)
	if err != nil {
		return normalCompletion, err
	}
	n, ok := v.(NumberValue)
	if !ok {
		return normalCompletion, newError(TypeError, s.Line(), "repeat count must be a number, got %s", v.Kind())
	}
	f := float64(n)
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return normalCompletion, newError(ValueError, s.Line(), "repeat count must be finite")
	case f < 0:
		return normalCompletion, newError(ValueError, s.Line(), "negative repeat count: %s", formatNumber(f))
	case f >= math.MaxInt64:
		return normalCompletion, newError(ValueError, s.Line(), "repeat count too large: %s", formatNumber(f))
	}
	count := int64(math.Floor(f))
	for i := int64(0); i < count; i++ {
		c, err := s.Body.Exec(in, env)
		if err != nil || c.returned() {
			return c, err
		}
	}
	return normalCompletion, nil
}

func (s *RepeatStmt) ToSource(indent string) string {
	return indent + "repeat " + s.Count.ToSource("") + " times " + s.Body.ToSource(indent)
}

// FunctionDecl binds a named closure over the declaring frame when it
// executes.
type FunctionDecl struct {
	Pos
	Name   string
	Params []string
	Body   *BlockStmt
}

func (d *FunctionDecl) Exec(in *Interpreter, env *Environment) (Completion, error) {
	fn := d.closure(env)
	if err := env.Define(d.Name, fn, true); err != nil {
		return normalCompletion, atLine(err, d.Line())
	}
	return normalCompletion, nil
}

func (d *FunctionDecl) closure(env *Environment) *FunctionValue {
	return &FunctionValue{Name: d.Name, Params: d.Params, Body: d.Body, Env: env, Line: d.Line()}
}

func (d *FunctionDecl) ToSource(indent string) string {
	return indent + "def " + d.Name + "(" + strings.Join(d.Params, ", ") + ") " + d.Body.ToSource(indent)
}

type ReturnStmt struct {
	Pos
	Value Expr
}

func (r *ReturnStmt) Exec(in *Interpreter, env *Environment) (Completion, error) {
	var v Value = Null
	if r.Value != nil {
		var err error
		if v, err = r.Value.Eval(in, env); err != nil {
			return normalCompletion, err
		}
	}
	return Completion{Signal: SignalReturn, Value: v}, nil
}

func (r *ReturnStmt) ToSource(indent string) string {
	if r.Value == nil {
		return indent + "return;"
	}
	return indent + "return " + r.Value.ToSource(indent) + ";"
}

type StructDecl struct {
	Pos
	Name   string
	Fields []string
}

func (d *StructDecl) Exec(in *Interpreter, env *Environment) (Completion, error) {
	def := &StructDefValue{Name: d.Name, Fields: d.Fields}
	if err := env.Define(d.Name, def, false); err != nil {
		return normalCompletion, atLine(err, d.Line())
	}
	return normalCompletion, nil
}

func (d *StructDecl) ToSource(indent string) string {
	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString("struct ")
	sb.WriteString(d.Name)
	sb.WriteString(" {\n")
	for i, f := range d.Fields {
		sb.WriteString(indent + "    " + f)
		if i < len(d.Fields)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(indent)
	sb.WriteByte('}')
	return sb.String()
}

type ClassDecl struct {
	Pos
	Name    string
	Methods []*FunctionDecl
}

func (d *ClassDecl) Exec(in *Interpreter, env *Environment) (Completion, error) {
	class := &ClassDefValue{Name: d.Name, Methods: make(map[string]*FunctionValue, len(d.Methods))}
	for _, m := range d.Methods {
		class.Methods[m.Name] = m.closure(env)
	}
	if err := env.Define(d.Name, class, false); err != nil {
		return normalCompletion, atLine(err, d.Line())
	}
	return normalCompletion, nil
}

func (d *ClassDecl) ToSource(indent string) string {
	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString("class ")
	sb.WriteString(d.Name)
	sb.WriteString(" {\n")
	for _, m := range d.Methods {
		sb.WriteString(m.ToSource(indent + "    "))
		sb.WriteByte('\n')
	}
	sb.WriteString(indent)
	sb.WriteByte('}')
	return sb.String()
}

// PrintStmt writes its arguments separated by spaces and a trailing newline.
type PrintStmt struct {
	Pos
	Args []Expr
}

func (p *PrintStmt) Exec(in *Interpreter, env *Environment) (Completion, error) {
	vals, err := in.evalList(p.Args, env)
	if err != nil {
		return normalCompletion, err
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = Stringify(v)
	}
	if _, err := io.WriteString(in.out, strings.Join(parts, " ")+"\n"); err != nil {
		return normalCompletion, newError(RuntimeError, p.Line(), "print: %v", err)
	}
	return normalCompletion, nil
}

func (p *PrintStmt) ToSource(indent string) string {
	return indent + "print(" + joinSource(p.Args) + ");"
}

// ExprStmt evaluates X for its effects. The value is kept in the completion
// so a REPL can echo it.
type ExprStmt struct {
	Pos
	X Expr
}

func (s *ExprStmt) Exec(in *Interpreter, env *Environment) (Completion, error) {
	v, err := s.X.Eval(in, env)
	if err != nil {
		return normalCompletion, err
	}
	return Completion{Signal: SignalNone, Value: v}, nil
}

func (s *ExprStmt) ToSource(indent string) string {
	return indent + s.X.ToSource(indent) + ";"
}

func (p *Program) ToSource(indent string) string {
	var sb strings.Builder
	for i, s := range p.Statements {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(s.ToSource(indent))
	}
	return sb.String()
}
