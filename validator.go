package toylang

// Rule is a static check applied to every node of a parsed program.
// inFunction reports whether the node sits inside a function or method body.
type Rule interface {
	Check(node Node, inFunction bool) error
}

// RuleFunc adapts a plain function to Rule.
type RuleFunc func(node Node, inFunction bool) error

func (f RuleFunc) Check(node Node, inFunction bool) error {
	return f(node, inFunction)
}

// Checker runs a set of rules over a program.
type Checker struct {
	rules []Rule
}

func NewChecker(rules ...Rule) *Checker {
	return &Checker{rules: rules}
}

// AddRule appends rules to the checker.
func (c *Checker) AddRule(rules ...Rule) {
	c.rules = append(c.rules, rules...)
}

// DefaultChecker holds the rules every program must satisfy before it runs.
func DefaultChecker() *Checker {
	return NewChecker(
		RuleFunc(returnOutsideFunction),
		RuleFunc(duplicateParams),
		RuleFunc(duplicateFields),
		RuleFunc(duplicateMethods),
	)
}

// Validate returns the first problem found, in source order.
func Validate(prog *Program) error {
	if errs := DefaultChecker().ValidateAll(prog); errs.HasErrors() {
		return errs.Errors[0]
	}
	return nil
}

// ValidateAll reports every problem found with the default rules.
func ValidateAll(prog *Program) *MultiError {
	return DefaultChecker().ValidateAll(prog)
}

func (c *Checker) ValidateAll(prog *Program) *MultiError {
	errs := &MultiError{}
	c.check(prog, false, errs)
	return errs
}

func (c *Checker) check(root Node, inFunction bool, errs *MultiError) {
	Inspect(root, func(n Node) bool {
		for _, rule := range c.rules {
			errs.Add(rule.Check(n, inFunction))
		}
		switch fn := n.(type) {
		case *FunctionDecl:
			c.check(fn.Body, true, errs)
			return false
		case *FunctionLiteral:
			c.check(fn.Body, true, errs)
			return false
		}
		return true
	})
}

func returnOutsideFunction(node Node, inFunction bool) error {
	if _, ok := node.(*ReturnStmt); ok && !inFunction {
		return newError(SyntaxError, node.Line(), "return outside function")
	}
	return nil
}

func duplicateParams(node Node, _ bool) error {
	var params []string
	switch fn := node.(type) {
	case *FunctionDecl:
		params = fn.Params
	case *FunctionLiteral:
		params = fn.Params
	default:
		return nil
	}
	if dup, ok := firstDuplicate(params); ok {
		return newError(SyntaxError, node.Line(), "duplicate parameter '%s'", dup)
	}
	return nil
}

func duplicateFields(node Node, _ bool) error {
	decl, ok := node.(*StructDecl)
	if !ok {
		return nil
	}
	if dup, ok := firstDuplicate(decl.Fields); ok {
		return newError(SyntaxError, node.Line(), "duplicate field '%s' in struct %s", dup, decl.Name)
	}
	return nil
}

func duplicateMethods(node Node, _ bool) error {
	decl, ok := node.(*ClassDecl)
	if !ok {
		return nil
	}
	names := make([]string, len(decl.Methods))
	for i, m := range decl.Methods {
		names[i] = m.Name
	}
	if dup, ok := firstDuplicate(names); ok {
		return newError(SyntaxError, node.Line(), "duplicate method '%s' in class %s", dup, decl.Name)
	}
	return nil
}

func firstDuplicate(names []string) (string, bool) {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return n, true
		}
		seen[n] = true
	}
	return "", false
}
