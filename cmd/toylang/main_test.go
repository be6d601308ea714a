package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oarkflow/toylang"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunFile(t *testing.T) {
	ok := writeFile(t, "prog.toy", "print(\"hi\");\nrepeat 2 times { print(1); }")
	chan_ := writeFile(t, "prog.chan", `print("chan");`)
	failing := writeFile(t, "fail.toy", "let a = [1];\nprint(a[3]);")
	wrongExt := writeFile(t, "prog.txt", `print(1);`)

	tests := []struct {
		name       string
		args       []string
		code       int
		stdout     string
		stderrHave string
	}{
		{"runs a .toy file", []string{ok}, exitOK, "hi\n1\n1\n", ""},
		{"runs a .chan file", []string{chan_}, exitOK, "chan\n", ""},
		{"runtime error", []string{failing}, exitProgram, "", "Index out of range error at line 2: index 3 out of range for length 1\n  2 | print(a[3]);\n"},
		{"unsupported extension", []string{wrongExt}, exitUsage, "", "unsupported file extension \".txt\""},
		{"missing file", []string{filepath.Join(t.TempDir(), "nope.toy")}, exitUsage, "", "cannot read"},
		{"eval flag", []string{"-e", "print(1 + 1);"}, exitOK, "2\n", ""},
		{"syntax error", []string{"-e", "let = 1;"}, exitProgram, "", "Syntax error at line 1: expected variable name"},
		{"unknown flag", []string{"--nope", ok}, exitUsage, "", "flag provided but not defined"},
		{"help", []string{"-h"}, exitOK, "", "usage:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, "", tt.args...)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr %q)", code, tt.code, stderr)
			}
			if stdout != tt.stdout {
				t.Errorf("stdout = %q, want %q", stdout, tt.stdout)
			}
			if !strings.Contains(stderr, tt.stderrHave) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.stderrHave)
			}
		})
	}
}

func TestInstrumentationFlags(t *testing.T) {
	src := `repeat 1 times { print("x"); }`

	code, stdout, _ := runCLI(t, "", "--tokens", "-e", src)
	if code != exitOK || !strings.Contains(stdout, `"kind":"keyword"`) || !strings.Contains(stdout, `"lexeme":"repeat"`) {
		t.Errorf("--tokens: code %d, stdout %q", code, stdout)
	}

	code, stdout, _ = runCLI(t, "", "--ast", "-e", src)
	if code != exitOK || !strings.Contains(stdout, "RepeatStmt") || strings.HasPrefix(stdout, "x\n") {
		t.Errorf("--ast: code %d, stdout %q", code, stdout)
	}

	code, stdout, stderr := runCLI(t, "", "--debug", "-e", src)
	if code != exitOK || stdout != "x\n" {
		t.Errorf("--debug: code %d, stdout %q", code, stdout)
	}
	for _, want := range []string{"tokens: ", "ast: ", "msg=exec", "node=RepeatStmt"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("--debug stderr is missing %q", want)
		}
	}

	code, stdout, stderr = runCLI(t, "", "--verbose", "-e", src)
	if code != exitOK || stdout != "x\n" || !strings.Contains(stderr, "node=PrintStmt") || strings.Contains(stderr, "tokens: ") {
		t.Errorf("--verbose: code %d, stdout %q, stderr %q", code, stdout, stderr)
	}
}

func TestInputFromStdin(t *testing.T) {
	code, stdout, stderr := runCLI(t, "Ada\n7\n", "-e", `let name = input("name: "); print("hi " + name, parseInt(input()) * 2);`)
	if code != exitOK {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	if stdout != "name: hi Ada 14\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestCheck(t *testing.T) {
	good := writeFile(t, "good.toy", `def f() { return 1; }`)
	bad := writeFile(t, "bad.toy", "return 1;\nreturn 2;")

	code, stdout, _ := runCLI(t, "", "check", good, bad)
	if code != exitProgram {
		t.Errorf("exit code = %d, want %d", code, exitProgram)
	}
	want := "ok   " + good + "\n" +
		"FAIL " + bad + ": Syntax error at line 1: return outside function\n" +
		"FAIL " + bad + ": Syntax error at line 2: return outside function\n"
	if stdout != want {
		t.Errorf("stdout =\n%s\nwant\n%s", stdout, want)
	}

	if code, _, _ := runCLI(t, "", "check", good); code != exitOK {
		t.Errorf("clean check exit code = %d", code)
	}
	if code, _, stderr := runCLI(t, "", "check"); code != exitUsage || !strings.Contains(stderr, "usage") {
		t.Errorf("check without files: %d %q", code, stderr)
	}
}

func TestConfigFile(t *testing.T) {
	cfg := writeFile(t, "toylang.yaml", "max_call_depth: 10\ntrace: false\nglobals:\n  greeting: hello\n  limits: [1, 2]\n")
	code, stdout, stderr := runCLI(t, "", "--config", cfg, "-e", "print(greeting, limits[1]);\ndef r() { return r(); }\nr();")
	if code != exitProgram {
		t.Errorf("exit code = %d, want %d", code, exitProgram)
	}
	if stdout != "hello 2\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "maximum call depth exceeded (10)") {
		t.Errorf("stderr = %q", stderr)
	}

	bad := writeFile(t, "bad.yaml", "max_depth: 3\n")
	if code, _, stderr := runCLI(t, "", "--config", bad, "-e", "print(1);"); code != exitUsage || !strings.Contains(stderr, "field max_depth not found") {
		t.Errorf("unknown config key: %d %q", code, stderr)
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil || cfg.MaxCallDepth != 0 || cfg.Trace {
		t.Errorf("loadConfig(\"\") = %+v, %v", cfg, err)
	}

	empty := writeFile(t, "empty.yaml", "")
	if _, err := loadConfig(empty); err != nil {
		t.Errorf("empty config: %v", err)
	}

	negative := writeFile(t, "neg.yaml", "max_call_depth: -1\n")
	if _, err := loadConfig(negative); err == nil {
		t.Error("negative depth accepted")
	}

	hist := writeFile(t, "hist.yaml", "history_file: /tmp/toy_hist\n")
	cfg, err = loadConfig(hist)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.historyPath() != "/tmp/toy_hist" {
		t.Errorf("historyPath() = %q", cfg.historyPath())
	}
}

func TestLooksIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"def f() {", true},
		{"print(1,", true},
		{`print("abc`, true},
		{"let s = 'abc", true},
		{"let = 1;", false},
		{"print(1);", false},
		{"1 = 2;", false},
	}
	for _, tt := range tests {
		_, err := toylang.Parse(tt.src)
		got := err != nil && looksIncomplete(err)
		if got != tt.want {
			t.Errorf("looksIncomplete(%q) = %v, want %v (err %v)", tt.src, got, tt.want, err)
		}
	}
}

func TestReplCommands(t *testing.T) {
	session, err := toylang.NewSession(toylang.WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := session.Exec(`let b = "two"; let a = [1];`); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if handleReplCommand(session, ":env", &out) {
		t.Error(":env asked to exit")
	}
	if got := out.String(); got != "a = [1]\nb = \"two\"\n" {
		t.Errorf(":env printed %q", got)
	}

	out.Reset()
	handleReplCommand(session, ":ast print(1);", &out)
	if !strings.Contains(out.String(), "PrintStmt") {
		t.Errorf(":ast printed %q", out.String())
	}

	out.Reset()
	handleReplCommand(session, ":help", &out)
	if !strings.Contains(out.String(), ":quit") {
		t.Errorf(":help printed %q", out.String())
	}

	out.Reset()
	handleReplCommand(session, ":what", &out)
	if !strings.Contains(out.String(), "unknown command") {
		t.Errorf(":what printed %q", out.String())
	}

	if !handleReplCommand(session, ":quit", &out) || !handleReplCommand(session, ":EXIT", &out) {
		t.Error(":quit did not ask to exit")
	}
}
