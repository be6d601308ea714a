package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/oarkflow/toylang"
)

const (
	appName     = "toylang"
	historyFile = ".toylang_history"

	exitOK      = 0
	exitProgram = 1
	exitUsage   = 2
)

var sourceExtensions = map[string]bool{".toy": true, ".chan": true}

type options struct {
	debug   bool
	ast     bool
	verbose bool
	tokens  bool
	eval    string
	config  Config
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] file.toy\n       %s check files...\n       %s              (interactive)\n\nflags:\n", appName, appName, appName)
		fs.PrintDefaults()
	}

	var opts options
	var configPath string
	fs.BoolVar(&opts.debug, "debug", false, "print tokens and AST, then trace execution")
	fs.BoolVar(&opts.ast, "ast", false, "print the AST and exit")
	fs.BoolVar(&opts.verbose, "verbose", false, "trace execution")
	fs.BoolVar(&opts.tokens, "tokens", false, "print tokens as JSON and exit")
	fs.StringVar(&opts.eval, "e", "", "run the given source text and exit")
	fs.StringVar(&configPath, "config", "", "YAML config file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitUsage
	}
	opts.config = cfg

	rest := fs.Args()
	switch {
	case len(rest) > 0 && rest[0] == "check":
		return runCheck(rest[1:], stdout, stderr)
	case opts.eval != "":
		return runSource(opts.eval, opts, stdin, stdout, stderr)
	case len(rest) > 0:
		return runFile(rest[0], opts, stdin, stdout, stderr)
	default:
		return runREPL(opts, stdout, stderr)
	}
}

func runFile(path string, opts options, stdin io.Reader, stdout, stderr io.Writer) int {
	if ext := filepath.Ext(path); !sourceExtensions[ext] {
		fmt.Fprintf(stderr, "%s: %s: unsupported file extension %q (want .toy or .chan)\n", appName, path, ext)
		return exitUsage
	}
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return exitUsage
	}
	return runSource(string(src), opts, stdin, stdout, stderr)
}

func runSource(src string, opts options, stdin io.Reader, stdout, stderr io.Writer) int {
	color := colorEnabled(stderr)

	if opts.tokens || opts.debug {
		tokens, err := toylang.Tokenize(src)
		if err != nil {
			printError(stderr, toylang.AsError(err), src, color)
			return exitProgram
		}
		data, err := toylang.MarshalTokens(tokens)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", appName, err)
			return exitProgram
		}
		if opts.tokens {
			fmt.Fprintln(stdout, string(data))
			return exitOK
		}
		fmt.Fprintf(stderr, "tokens: %s\n", data)
	}

	interp := toylang.New(interpreterOptions(opts, stdin, stdout, stderr)...)
	if opts.ast || opts.debug {
		prog, err := interp.Parse(src)
		if err != nil {
			printError(stderr, toylang.AsError(err), src, color)
			return exitProgram
		}
		if opts.ast {
			fmt.Fprintln(stdout, toylang.DumpAST(prog))
			return exitOK
		}
		fmt.Fprintf(stderr, "ast: %s\n", toylang.DumpAST(prog))
	}

	if res := interp.Run(src); !res.OK() {
		printError(stderr, res.Err, src, color)
		return exitProgram
	}
	return exitOK
}

func interpreterOptions(opts options, stdin io.Reader, stdout, stderr io.Writer) []toylang.Option {
	out := []toylang.Option{
		toylang.WithOutput(stdout),
		toylang.WithMaxDepth(opts.config.MaxCallDepth),
		toylang.WithGlobals(opts.config.Globals),
	}
	if stdin != nil {
		out = append(out, toylang.WithInput(toylang.NewReaderInput(stdin, stdout)))
	}
	if opts.debug || opts.verbose || opts.config.Trace {
		logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		out = append(out, toylang.WithTrace(logger))
	}
	return out
}

func runCheck(files []string, stdout, stderr io.Writer) int {
	if len(files) == 0 {
		fmt.Fprintf(stderr, "usage: %s check files...\n", appName)
		return exitUsage
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := toylang.NewConcurrentChecker(0).CheckFiles(ctx, files)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitUsage
	}
	code := exitOK
	for _, r := range results {
		if r.Err == nil {
			fmt.Fprintf(stdout, "ok   %s\n", r.Filename)
			continue
		}
		code = exitProgram
		var multi *toylang.MultiError
		if errors.As(r.Err, &multi) {
			for _, e := range multi.Errors {
				fmt.Fprintf(stdout, "FAIL %s: %v\n", r.Filename, e)
			}
			continue
		}
		fmt.Fprintf(stdout, "FAIL %s: %v\n", r.Filename, r.Err)
	}
	return code
}

// printError writes the error and, when its line is known, the offending
// source line underneath.
func printError(w io.Writer, err *toylang.Error, src string, color bool) {
	msg := err.Error()
	if color {
		msg = "\x1b[31m" + msg + "\x1b[0m"
	}
	fmt.Fprintln(w, msg)
	lines := strings.Split(src, "\n")
	if err.Line >= 1 && err.Line <= len(lines) {
		fmt.Fprintf(w, "  %d | %s\n", err.Line, strings.TrimRight(lines[err.Line-1], "\r"))
	}
}

func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
