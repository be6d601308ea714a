package toylang

import (
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"precedence", `1 + 2 * 3;`, `(1 + (2 * 3));`},
		{"left associative", `1 - 2 - 3;`, `((1 - 2) - 3);`},
		{"grouping", `(1 + 2) * 3;`, `((1 + 2) * 3);`},
		{"logical precedence", `a or b and c;`, `(a or (b and c));`},
		{"comparison over equality", `a < b == c > d;`, `((a < b) == (c > d));`},
		{"unary", `-x * not y;`, `(-x * not y);`},
		{"right associative assignment", `a = b = 3;`, `a = b = 3;`},
		{"index and member assignment", `a[0] = p.x = 1;`, `a[0] = p.x = 1;`},
		{"postfix chain", `obj.items[2].run(1, 2)(3);`, `obj.items[2].run(1, 2)(3);`},
		{"single param arrow", `let f = x => x + 1;`, `let f = (x) => (x + 1);`},
		{"paren arrow", `let add = (a, b) => a + b;`, `let add = (a, b) => (a + b);`},
		{"empty arrow with block", `let f = () => { return 1; };`, "let f = () => {\n    return 1;\n};"},
		{"new and builtins", `let p = new Person("a", parseInt(input("n? ")));`, `let p = new Person("a", parseInt(input("n? ")));`},
		{"let without init", `let x;`, `let x;`},
		{"array literal", `let a = [1, "two", [3]];`, `let a = [1, "two", [3]];`},
		{"repeat", `repeat n * 2 times { print(n); }`, "repeat (n * 2) times {\n    print(n);\n}"},
		{"while without parens", `while i < 3 { i = i + 1; }`, "while ((i < 3)) {\n    i = (i + 1);\n}"},
		{
			"else if chain",
			`if (a) { print(1); } else if b { print(2); } else { print(3); }`,
			"if (a) {\n    print(1);\n} else if (b) {\n    print(2);\n} else {\n    print(3);\n}",
		},
		{"struct", `struct Point { x, y }`, "struct Point {\n    x,\n    y\n}"},
		{
			"class",
			`class A { init(v) { self.v = v; } def get() { return self.v; } }`,
			"class A {\n    def init(v) {\n        self.v = v;\n    }\n    def get() {\n        return self.v;\n    }\n}",
		},
		{"string escapes", `print('it\'s', "C:\path", "a\"b\\c\nd");`, `print("it's", "C:\\path", "a\"b\\c\nd");`},
		{"decimal numbers", `print(010, 1.50, 2e3);`, `print(10, 1.5, 2000);`},
		{"semicolon optional before brace", `def f() { return 1 }`, "def f() {\n    return 1;\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			got := FormatProgram(prog)
			if got != tt.want {
				t.Errorf("FormatProgram() =\n%s\nwant\n%s", got, tt.want)
			}
			again, err := Parse(got)
			if err != nil {
				t.Fatalf("formatted output does not parse: %v", err)
			}
			if FormatProgram(again) != got {
				t.Errorf("formatting is not stable:\n%s", FormatProgram(again))
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		line     int
		contains string
	}{
		{"missing name", `let = 5;`, 1, "expected variable name, found operator '='"},
		{"missing semicolon", "let a = 1\nlet b = 2;", 2, "expected ';', found keyword 'let'"},
		{"unclosed call", `print(1`, 1, "found end of input"},
		{"unclosed block", "if x {\n  print(1);", 2, "expected '}', found end of input"},
		{"invalid target", `1 = 2;`, 1, "invalid assignment target"},
		{"const needs value", `const c;`, 1, "'=' after const c"},
		{"repeat needs times", `repeat 3 { }`, 1, "expected 'times'"},
		{"bad primary", `let x = );`, 1, "expected expression"},
		{"keyword as name", `def while() {}`, 1, "expected function name"},
		{"struct field list", `struct P { x y }`, 1, "expected '}', found identifier 'y'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatal("expected an error")
			}
			e := AsError(err)
			if e.Kind != SyntaxError {
				t.Errorf("Kind = %v, want %v", e.Kind, SyntaxError)
			}
			if e.Line != tt.line {
				t.Errorf("Line = %d, want %d", e.Line, tt.line)
			}
			if !strings.Contains(e.Message, tt.contains) {
				t.Errorf("Message = %q, want it to contain %q", e.Message, tt.contains)
			}
		})
	}
}

func TestParseLines(t *testing.T) {
	src := "let a = 1;\n\nprint(a);\nrepeat 2 times {\n  a = a + 1;\n}"
	prog, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	wantLines := []int{1, 3, 4}
	for i, stmt := range prog.Statements {
		if stmt.Line() != wantLines[i] {
			t.Errorf("statement %d line = %d, want %d", i, stmt.Line(), wantLines[i])
		}
	}
	body := prog.Statements[2].(*RepeatStmt).Body
	if got := body.Statements[0].Line(); got != 5 {
		t.Errorf("body statement line = %d, want 5", got)
	}
}

func TestArrowVersusGrouping(t *testing.T) {
	prog, err := Parse(`(a);(a) => a;(a, b);`)
	if err == nil {
		t.Fatalf("(a, b) is not an expression, got %s", FormatProgram(prog))
	}

	prog, err = Parse(`(a); (a) => a; () => 1;`)
	if err != nil {
		t.Fatal(err)
	}
	kinds := []string{}
	for _, s := range prog.Statements {
		kinds = append(kinds, nodeName(s.(*ExprStmt).X))
	}
	want := []string{"Identifier", "FunctionLiteral", "FunctionLiteral"}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("statement %d parsed as %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestInspect(t *testing.T) {
	prog, err := Parse(`def f(n) { repeat n times { print(n, [n]); } } f(2);`)
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]int{}
	Inspect(prog, func(n Node) bool {
		counts[nodeName(n)]++
		return true
	})
	want := map[string]int{"Program": 1, "FunctionDecl": 1, "RepeatStmt": 1, "PrintStmt": 1, "Identifier": 4, "ArrayLiteral": 1, "CallExpr": 1, "Literal": 1}
	for name, n := range want {
		if counts[name] != n {
			t.Errorf("%s visited %d times, want %d", name, counts[name], n)
		}
	}
}
