package toylang

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies an Error by the pipeline stage or runtime rule that produced it.
type ErrorKind int

const (
	LexicalError ErrorKind = iota
	SyntaxError
	UndefinedVariableError
	RedeclarationError
	ImmutableAssignmentError
	TypeError
	ArityError
	IndexOutOfRangeError
	NoSuchFieldError
	NoSuchMethodError
	FormatError
	ValueError
	RuntimeError
)

var errorKindNames = [...]string{
	LexicalError:             "Lexical",
	SyntaxError:              "Syntax",
	UndefinedVariableError:   "Undefined variable",
	RedeclarationError:       "Redeclaration",
	ImmutableAssignmentError: "Immutable assignment",
	TypeError:                "Type",
	ArityError:               "Arity",
	IndexOutOfRangeError:     "Index out of range",
	NoSuchFieldError:         "No such field",
	NoSuchMethodError:        "No such method",
	FormatError:              "Format",
	ValueError:               "Value",
	RuntimeError:             "Runtime",
}

func (k ErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the single error type produced by the lexer, parser, validator and
// evaluator. Line is 1-based; zero means no source position was available.
type Error struct {
	Kind    ErrorKind
	Message string
	Line    int
	Cause   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	sb.WriteString(" error")
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(" at line %d", e.Line))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind ErrorKind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Line: line}
}

// atLine attaches a line to errors raised without position context (native
// functions, environment lookups) and wraps foreign errors as runtime errors.
func atLine(err error, line int) error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		if te.Line == 0 {
			te.Line = line
		}
		return te
	}
	return &Error{Kind: RuntimeError, Message: err.Error(), Line: line, Cause: err}
}

// AsError extracts the *Error from err, converting foreign errors into
// runtime errors without a line.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return &Error{Kind: RuntimeError, Message: err.Error(), Cause: err}
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %v\n", i+1, err))
	}
	return sb.String()
}

func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

func (e *MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *MultiError) Unwrap() []error {
	return e.Errors
}
