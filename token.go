package toylang

import "fmt"

type TokenKind int

const (
	EOF TokenKind = iota
	IDENT
	NUMBER
	STRING
	KEYWORD
	OPERATOR
	PUNCT
)

var tokenKindNames = [...]string{
	EOF:      "EOF",
	IDENT:    "identifier",
	NUMBER:   "number",
	STRING:   "string",
	KEYWORD:  "keyword",
	OPERATOR: "operator",
	PUNCT:    "punctuation",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("token(%d)", int(k))
}

func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Token is a single lexical unit. Line is 1-based.
type Token struct {
	Kind   TokenKind `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Line   int       `json:"line"`
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "end of input"
	}
	if t.Kind == STRING {
		return fmt.Sprintf("string %q", t.Lexeme)
	}
	return fmt.Sprintf("%s '%s'", t.Kind, t.Lexeme)
}

func (t Token) is(kind TokenKind, lexeme string) bool {
	return t.Kind == kind && t.Lexeme == lexeme
}

var keywords = map[string]bool{
	"let":      true,
	"const":    true,
	"if":       true,
	"else":     true,
	"while":    true,
	"repeat":   true,
	"times":    true,
	"def":      true,
	"new":      true,
	"struct":   true,
	"class":    true,
	"print":    true,
	"input":    true,
	"parseInt": true,
	"true":     true,
	"false":    true,
	"null":     true,
	"and":      true,
	"or":       true,
	"not":      true,
	"return":   true,
}

// IsKeyword reports whether name is reserved and cannot be used as an identifier.
func IsKeyword(name string) bool {
	return keywords[name]
}

// binary operator precedence, higher binds tighter; assignment sits below all of these.
var operatorPrecedence = map[string]int{
	"or":  1,
	"and": 2,
	"==":  3,
	"!=":  3,
	"<":   4,
	"<=":  4,
	">":   4,
	">=":  4,
	"+":   5,
	"-":   5,
	"*":   6,
	"/":   6,
}

func getPrecedence(tok Token) int {
	if tok.Kind != OPERATOR && tok.Kind != KEYWORD {
		return 0
	}
	if prec, ok := operatorPrecedence[tok.Lexeme]; ok {
		return prec
	}
	return 0
}
