package toylang

import (
	"fmt"
	"strings"
	"text/scanner"
)

// Numbers and strings are scanned by hand: text/scanner applies Go's
// literal rules (octal and hex prefixes, escape sequences).
const scannerMode = scanner.ScanIdents | scanner.ScanComments | scanner.SkipComments

// Lexer turns source text into tokens. It wraps text/scanner and adds the
// language's operators, number and string literals, and keyword
// classification.
type Lexer struct {
	scanner scanner.Scanner
	src     string
	err     *Error
}

func NewLexer(src string) *Lexer {
	l := &Lexer{src: src}
	l.scanner.Init(strings.NewReader(src))
	l.scanner.Filename = "input"
	l.scanner.Mode = scannerMode
	l.scanner.Whitespace = 1<<' ' | 1<<'\t' | 1<<'\r' | 1<<'\n'
	l.scanner.Error = func(s *scanner.Scanner, msg string) {
		if l.err != nil {
			return
		}
		line := s.Position.Line
		if line == 0 {
			line = s.Pos().Line
		}
		l.err = newError(LexicalError, line, "%s", msg)
	}
	return l
}

// Tokenize scans the whole source. The returned slice always ends with an
// EOF token when err is nil.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Tokenize()
}

func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}

// Next returns the next token or a lexical error.
func (l *Lexer) Next() (Token, error) {
	r := l.scanner.Scan()
	if l.err != nil {
		return Token{}, l.err
	}
	line := l.scanner.Position.Line
	text := l.scanner.TokenText()
	switch r {
	case scanner.EOF:
		return Token{Kind: EOF, Line: l.scanner.Pos().Line}, nil
	case scanner.Ident:
		if keywords[text] {
			return Token{Kind: KEYWORD, Lexeme: text, Line: line}, nil
		}
		return Token{Kind: IDENT, Lexeme: text, Line: line}, nil
	case '"', '\'':
		return l.quoted(r, line)
	}
	if isDigit(r) {
		return l.number(line), nil
	}
	switch r {
	case '=':
		switch l.scanner.Peek() {
		case '=':
			l.scanner.Next()
			return Token{Kind: OPERATOR, Lexeme: "==", Line: line}, nil
		case '>':
			l.scanner.Next()
			return Token{Kind: OPERATOR, Lexeme: "=>", Line: line}, nil
		}
		return Token{Kind: OPERATOR, Lexeme: "=", Line: line}, nil
	case '!':
		if l.scanner.Peek() == '=' {
			l.scanner.Next()
			return Token{Kind: OPERATOR, Lexeme: "!=", Line: line}, nil
		}
	case '<', '>':
		if l.scanner.Peek() == '=' {
			l.scanner.Next()
			return Token{Kind: OPERATOR, Lexeme: string(r) + "=", Line: line}, nil
		}
		return Token{Kind: OPERATOR, Lexeme: string(r), Line: line}, nil
	case '+', '-', '*', '/':
		return Token{Kind: OPERATOR, Lexeme: string(r), Line: line}, nil
	case '{', '}', '(', ')', '[', ']', ';', ',', '.':
		return Token{Kind: PUNCT, Lexeme: string(r), Line: line}, nil
	}
	return Token{}, newError(LexicalError, line, "unexpected character %s", quoteRune(r))
}

// number reads a decimal literal: digits, an optional fraction and an
// optional exponent. A leading zero does not change the base.
func (l *Lexer) number(line int) Token {
	start := l.scanner.Position.Offset
	end := numberEnd(l.src, start)
	for i := start + 1; i < end; i++ {
		l.scanner.Next()
	}
	return Token{Kind: NUMBER, Lexeme: l.src[start:end], Line: line}
}

func numberEnd(src string, i int) int {
	digits := func(i int) int {
		for i < len(src) && isDigit(rune(src[i])) {
			i++
		}
		return i
	}
	i = digits(i)
	if i+1 < len(src) && src[i] == '.' && isDigit(rune(src[i+1])) {
		i = digits(i + 1)
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(rune(src[j])) {
			i = digits(j)
		}
	}
	return i
}

// quoted reads a string closed by quote. A backslash escapes the quote,
// another backslash, n and t; any other backslash is kept as written.
func (l *Lexer) quoted(quote rune, line int) (Token, error) {
	var sb strings.Builder
	for {
		ch := l.scanner.Next()
		switch ch {
		case scanner.EOF:
			return Token{}, newError(LexicalError, line, "unterminated string literal")
		case quote:
			return Token{Kind: STRING, Lexeme: sb.String(), Line: line}, nil
		case '\\':
			switch l.scanner.Peek() {
			case quote, '\\':
				sb.WriteRune(l.scanner.Next())
				continue
			case 'n':
				l.scanner.Next()
				sb.WriteByte('\n')
				continue
			case 't':
				l.scanner.Next()
				sb.WriteByte('\t')
				continue
			}
		}
		sb.WriteRune(ch)
	}
}

// QuoteString renders s as a double-quoted literal the lexer reads back
// unchanged.
func QuoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func quoteRune(r rune) string {
	if r < ' ' {
		return fmt.Sprintf("%U", r)
	}
	return "'" + string(r) + "'"
}
