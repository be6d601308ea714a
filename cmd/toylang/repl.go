package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/oarkflow/toylang"
)

const (
	promptMain = "toy> "
	promptCont = "...  "
	banner     = "ToyLang REPL. Ctrl+C cancels input, Ctrl+D exits. Type :help for commands."
	helpText   = `
REPL commands:
  :help            Show this help
  :quit / :exit    Exit the REPL
  :env             List bindings made in this session
  :ast <code>      Print the AST of a snippet
`
)

// linerInput lets input() prompt through the REPL's line editor.
type linerInput struct {
	ln *liner.State
}

func (li linerInput) ReadLine(prompt string) (string, error) {
	line, err := li.ln.Prompt(prompt)
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	return line, err
}

func runREPL(opts options, stdout, stderr io.Writer) int {
	fmt.Fprintln(stdout, banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := opts.config.historyPath()
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	sessionOpts := append(interpreterOptions(opts, nil, stdout, stderr), toylang.WithInput(linerInput{ln: ln}))
	session, err := toylang.NewSession(sessionOpts...)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitUsage
	}

	for {
		code, ok := readByParseProbe(ln)
		if !ok {
			fmt.Fprintln(stdout)
			break
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			if done := handleReplCommand(session, trimmed, stdout); done {
				break
			}
			continue
		}

		v, err := session.Exec(code)
		if err != nil {
			printError(stdout, toylang.AsError(err), code, colorEnabled(stdout))
			continue
		}
		if v != nil && v.Kind() != toylang.KindNull {
			fmt.Fprintf(stdout, "=> %s\n", toylang.Repr(v))
		}
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return exitOK
}

func handleReplCommand(session *toylang.Session, line string, stdout io.Writer) (exit bool) {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ":help":
		fmt.Fprint(stdout, helpText)
	case ":quit", ":exit":
		return true
	case ":env":
		env := session.Env()
		for _, name := range env.Names() {
			v, _ := env.Lookup(name)
			fmt.Fprintf(stdout, "%s = %s\n", name, toylang.Repr(v))
		}
	case ":ast":
		src := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))
		prog, err := toylang.Parse(src)
		if err != nil {
			fmt.Fprintln(stdout, err)
			return false
		}
		fmt.Fprintln(stdout, toylang.DumpAST(prog))
	default:
		fmt.Fprintln(stdout, "unknown command. Type :help for help.")
	}
	return false
}

// readByParseProbe keeps reading lines while the buffer parses as an
// unfinished program (an open block, call or string).
func readByParseProbe(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, perr := toylang.Parse(src); perr != nil && looksIncomplete(perr) {
			continue
		}
		return src, true
	}
}

func looksIncomplete(err error) bool {
	e := toylang.AsError(err)
	switch e.Kind {
	case toylang.SyntaxError:
		return strings.HasSuffix(e.Message, "found end of input")
	case toylang.LexicalError:
		return strings.Contains(e.Message, "not terminated") || strings.Contains(e.Message, "unterminated")
	}
	return false
}
