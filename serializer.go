package toylang

import (
	"strings"

	"github.com/kr/pretty"
)

// FormatProgram renders prog as canonical source text. Binary expressions
// are fully parenthesized, so the output parses back to the same tree.
func FormatProgram(prog *Program) string {
	var parts []string
	for _, s := range prog.Statements {
		parts = append(parts, s.ToSource(""))
	}
	return strings.Join(parts, "\n")
}

// Format parses src and returns it in canonical form.
func Format(src string) (string, error) {
	prog, err := Parse(src)
	if err != nil {
		return "", err
	}
	return FormatProgram(prog), nil
}

// DumpAST renders the node tree with field names, for --ast and --debug.
func DumpAST(node Node) string {
	return pretty.Sprint(node)
}
