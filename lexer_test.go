package toylang

import (
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "declaration",
			input: `let x = 10;`,
			want: []Token{
				{Kind: KEYWORD, Lexeme: "let", Line: 1},
				{Kind: IDENT, Lexeme: "x", Line: 1},
				{Kind: OPERATOR, Lexeme: "=", Line: 1},
				{Kind: NUMBER, Lexeme: "10", Line: 1},
				{Kind: PUNCT, Lexeme: ";", Line: 1},
				{Kind: EOF, Line: 1},
			},
		},
		{
			name:  "two-character operators",
			input: `a <= b >= c == d != e => f`,
			want: []Token{
				{Kind: IDENT, Lexeme: "a", Line: 1},
				{Kind: OPERATOR, Lexeme: "<=", Line: 1},
				{Kind: IDENT, Lexeme: "b", Line: 1},
				{Kind: OPERATOR, Lexeme: ">=", Line: 1},
				{Kind: IDENT, Lexeme: "c", Line: 1},
				{Kind: OPERATOR, Lexeme: "==", Line: 1},
				{Kind: IDENT, Lexeme: "d", Line: 1},
				{Kind: OPERATOR, Lexeme: "!=", Line: 1},
				{Kind: IDENT, Lexeme: "e", Line: 1},
				{Kind: OPERATOR, Lexeme: "=>", Line: 1},
				{Kind: IDENT, Lexeme: "f", Line: 1},
				{Kind: EOF, Line: 1},
			},
		},
		{
			name:  "strings and numbers",
			input: `"hi there" 'it\'s' 3.25 "tab\t"`,
			want: []Token{
				{Kind: STRING, Lexeme: "hi there", Line: 1},
				{Kind: STRING, Lexeme: "it's", Line: 1},
				{Kind: NUMBER, Lexeme: "3.25", Line: 1},
				{Kind: STRING, Lexeme: "tab\t", Line: 1},
				{Kind: EOF, Line: 1},
			},
		},
		{
			name:  "decimal numbers",
			input: `010 09 1.5e3 2E-2 1.x a[0].y`,
			want: []Token{
				{Kind: NUMBER, Lexeme: "010", Line: 1},
				{Kind: NUMBER, Lexeme: "09", Line: 1},
				{Kind: NUMBER, Lexeme: "1.5e3", Line: 1},
				{Kind: NUMBER, Lexeme: "2E-2", Line: 1},
				{Kind: NUMBER, Lexeme: "1", Line: 1},
				{Kind: PUNCT, Lexeme: ".", Line: 1},
				{Kind: IDENT, Lexeme: "x", Line: 1},
				{Kind: IDENT, Lexeme: "a", Line: 1},
				{Kind: PUNCT, Lexeme: "[", Line: 1},
				{Kind: NUMBER, Lexeme: "0", Line: 1},
				{Kind: PUNCT, Lexeme: "]", Line: 1},
				{Kind: PUNCT, Lexeme: ".", Line: 1},
				{Kind: IDENT, Lexeme: "y", Line: 1},
				{Kind: EOF, Line: 1},
			},
		},
		{
			name:  "no base prefixes",
			input: `0x1F 1e`,
			want: []Token{
				{Kind: NUMBER, Lexeme: "0", Line: 1},
				{Kind: IDENT, Lexeme: "x1F", Line: 1},
				{Kind: NUMBER, Lexeme: "1", Line: 1},
				{Kind: IDENT, Lexeme: "e", Line: 1},
				{Kind: EOF, Line: 1},
			},
		},
		{
			name:  "backslashes",
			input: `"C:\path" "a\d" "say \"hi\"" 'a\\b' "x\ny"`,
			want: []Token{
				{Kind: STRING, Lexeme: `C:\path`, Line: 1},
				{Kind: STRING, Lexeme: `a\d`, Line: 1},
				{Kind: STRING, Lexeme: `say "hi"`, Line: 1},
				{Kind: STRING, Lexeme: `a\b`, Line: 1},
				{Kind: STRING, Lexeme: "x\ny", Line: 1},
				{Kind: EOF, Line: 1},
			},
		},
		{
			name:  "string spanning lines",
			input: "'a\nb' c",
			want: []Token{
				{Kind: STRING, Lexeme: "a\nb", Line: 1},
				{Kind: IDENT, Lexeme: "c", Line: 2},
				{Kind: EOF, Line: 2},
			},
		},
		{
			name:  "comments and lines",
			input: "// header\nprint(x); /* block\ncomment */\nrepeat 2 times {}",
			want: []Token{
				{Kind: KEYWORD, Lexeme: "print", Line: 2},
				{Kind: PUNCT, Lexeme: "(", Line: 2},
				{Kind: IDENT, Lexeme: "x", Line: 2},
				{Kind: PUNCT, Lexeme: ")", Line: 2},
				{Kind: PUNCT, Lexeme: ";", Line: 2},
				{Kind: KEYWORD, Lexeme: "repeat", Line: 4},
				{Kind: NUMBER, Lexeme: "2", Line: 4},
				{Kind: KEYWORD, Lexeme: "times", Line: 4},
				{Kind: PUNCT, Lexeme: "{", Line: 4},
				{Kind: PUNCT, Lexeme: "}", Line: 4},
				{Kind: EOF, Line: 4},
			},
		},
		{
			name:  "keywords versus identifiers",
			input: `parseInt input _tmp9 null`,
			want: []Token{
				{Kind: KEYWORD, Lexeme: "parseInt", Line: 1},
				{Kind: KEYWORD, Lexeme: "input", Line: 1},
				{Kind: IDENT, Lexeme: "_tmp9", Line: 1},
				{Kind: KEYWORD, Lexeme: "null", Line: 1},
				{Kind: EOF, Line: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize() returned %d tokens, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		line     int
		contains string
	}{
		{"unknown character", "let x = 1;\nlet y = @;", 2, "'@'"},
		{"lone bang", "!x", 1, "'!'"},
		{"unterminated double quote", "print(\"abc", 1, "unterminated string literal"},
		{"escaped closing quote", `print("abc\")`, 1, "unterminated string literal"},
		{"unterminated single quote", "let s = 'abc", 1, "unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatal("expected an error")
			}
			e := AsError(err)
			if e.Kind != LexicalError {
				t.Errorf("Kind = %v, want %v", e.Kind, LexicalError)
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

func TestMarshalTokens(t *testing.T) {
	tokens, err := Tokenize("let a;")
	if err != nil {
		t.Fatal(err)
	}
	data, err := MarshalTokens(tokens)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	for _, want := range []string{`"kind":"keyword"`, `"lexeme":"let"`, `"line":1`, `"kind":"EOF"`} {
		if !strings.Contains(got, want) {
			t.Errorf("MarshalTokens() = %s, missing %s", got, want)
		}
	}
}
