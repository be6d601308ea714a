package toylang

import (
	"strings"
)

type Literal struct {
	Pos
	Value Value
}

func (l *Literal) Eval(in *Interpreter, env *Environment) (Value, error) {
	return l.Value, nil
}

func (l *Literal) ToSource(indent string) string {
	if s, ok := l.Value.(StringValue); ok {
		return QuoteString(string(s))
	}
	return inspect(l.Value)
}

type Identifier struct {
	Pos
	Name string
}

func (id *Identifier) Eval(in *Interpreter, env *Environment) (Value, error) {
	v, err := env.Get(id.Name)
	if err != nil {
		return nil, atLine(err, id.Line())
	}
	return v, nil
}

func (id *Identifier) ToSource(indent string) string {
	return id.Name
}

type ArrayLiteral struct {
	Pos
	Elements []Expr
}

func (a *ArrayLiteral) Eval(in *Interpreter, env *Environment) (Value, error) {
	elems, err := in.evalList(a.Elements, env)
	if err != nil {
		return nil, err
	}
	return NewArray(elems...), nil
}

func (a *ArrayLiteral) ToSource(indent string) string {
	return "[" + joinSource(a.Elements) + "]"
}

type IndexExpr struct {
	Pos
	Target Expr
	Index  Expr
}

func (ix *IndexExpr) Eval(in *Interpreter, env *Environment) (Value, error) {
	target, err := ix.Target.Eval(in, env)
	if err != nil {
		return nil, err
	}
	index, err := ix.Index.Eval(in, env)
	if err != nil {
		return nil, err
	}
	return getIndex(target, index, ix.Line())
}

func (ix *IndexExpr) ToSource(indent string) string {
	return ix.Target.ToSource("") + "[" + ix.Index.ToSource("") + "]"
}

// IndexAssign is `target[index] = value`; it mutates the array in place.
type IndexAssign struct {
	Pos
	Target Expr
	Index  Expr
	Value  Expr
}

func (ia *IndexAssign) Eval(in *Interpreter, env *Environment) (Value, error) {
	target, err := ia.Target.Eval(in, env)
	if err != nil {
		return nil, err
	}
	index, err := ia.Index.Eval(in, env)
	if err != nil {
		return nil, err
	}
	v, err := ia.Value.Eval(in, env)
	if err != nil {
		return nil, err
	}
	if err := setIndex(target, index, v, ia.Line()); err != nil {
		return nil, err
	}
	return v, nil
}

func (ia *IndexAssign) ToSource(indent string) string {
	return ia.Target.ToSource("") + "[" + ia.Index.ToSource("") + "] = " + ia.Value.ToSource("")
}

type BinaryExpr struct {
	Pos
	Op    string
	Left  Expr
	Right Expr
}

func (b *BinaryExpr) Eval(in *Interpreter, env *Environment) (Value, error) {
	left, err := b.Left.Eval(in, env)
	if err != nil {
		return nil, err
	}
	right, err := b.Right.Eval(in, env)
	if err != nil {
		return nil, err
	}
	return binaryOp(b.Op, left, right, b.Line())
}

func (b *BinaryExpr) ToSource(indent string) string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(b.Left.ToSource(""))
	sb.WriteByte(' ')
	sb.WriteString(b.Op)
	sb.WriteByte(' ')
	sb.WriteString(b.Right.ToSource(""))
	sb.WriteByte(')')
	return sb.String()
}

// LogicalExpr is `and` / `or`. The right operand is evaluated only when the
// left one does not decide the result.
type LogicalExpr struct {
	Pos
	Op    string
	Left  Expr
	Right Expr
}

func (l *LogicalExpr) Eval(in *Interpreter, env *Environment) (Value, error) {
	left, err := l.Left.Eval(in, env)
	if err != nil {
		return nil, err
	}
	lt := Truthy(left)
	if l.Op == "and" && !lt {
		return BoolValue(false), nil
	}
	if l.Op == "or" && lt {
		return BoolValue(true), nil
	}
	right, err := l.Right.Eval(in, env)
	if err != nil {
		return nil, err
	}
	return BoolValue(Truthy(right)), nil
}

func (l *LogicalExpr) ToSource(indent string) string {
	return "(" + l.Left.ToSource("") + " " + l.Op + " " + l.Right.ToSource("") + ")"
}

type UnaryExpr struct {
	Pos
	Op      string
	Operand Expr
}

func (u *UnaryExpr) Eval(in *Interpreter, env *Environment) (Value, error) {
	v, err := u.Operand.Eval(in, env)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case "not":
		return BoolValue(!Truthy(v)), nil
	case "-":
		n, ok := v.(NumberValue)
		if !ok {
			return nil, newError(TypeError, u.Line(), "cannot negate %s", v.Kind())
		}
		return -n, nil
	}
	return nil, newError(SyntaxError, u.Line(), "unknown unary operator '%s'", u.Op)
}

func (u *UnaryExpr) ToSource(indent string) string {
	if u.Op == "not" {
		return "not " + u.Operand.ToSource("")
	}
	return u.Op + u.Operand.ToSource("")
}

type AssignExpr struct {
	Pos
	Name  string
	Value Expr
}

func (a *AssignExpr) Eval(in *Interpreter, env *Environment) (Value, error) {
	v, err := a.Value.Eval(in, env)
	if err != nil {
		return nil, err
	}
	if err := env.Set(a.Name, v); err != nil {
		return nil, atLine(err, a.Line())
	}
	return v, nil
}

func (a *AssignExpr) ToSource(indent string) string {
	return a.Name + " = " + a.Value.ToSource("")
}

// MemberAssign is `target.field = value`.
type MemberAssign struct {
	Pos
	Target Expr
	Field  string
	Value  Expr
}

func (m *MemberAssign) Eval(in *Interpreter, env *Environment) (Value, error) {
	target, err := m.Target.Eval(in, env)
	if err != nil {
		return nil, err
	}
	v, err := m.Value.Eval(in, env)
	if err != nil {
		return nil, err
	}
	if err := setMember(target, m.Field, v, m.Line()); err != nil {
		return nil, err
	}
	return v, nil
}

func (m *MemberAssign) ToSource(indent string) string {
	return m.Target.ToSource("") + "." + m.Field + " = " + m.Value.ToSource("")
}

// FunctionLiteral is an arrow function. An expression body is parsed into a
// block holding a single return, and ExprBody records that so it prints
// back in the short form.
type FunctionLiteral struct {
	Pos
	Params   []string
	Body     *BlockStmt
	ExprBody bool
}

func (f *FunctionLiteral) Eval(in *Interpreter, env *Environment) (Value, error) {
	return &FunctionValue{Params: f.Params, Body: f.Body, Env: env, Line: f.Line()}, nil
}

func (f *FunctionLiteral) ToSource(indent string) string {
	params := "(" + strings.Join(f.Params, ", ") + ")"
	if f.ExprBody && len(f.Body.Statements) == 1 {
		if ret, ok := f.Body.Statements[0].(*ReturnStmt); ok && ret.Value != nil {
			return params + " => " + ret.Value.ToSource("")
		}
	}
	return params + " => " + f.Body.ToSource(indent)
}

type CallExpr struct {
	Pos
	Callee Expr
	Args   []Expr
}

func (c *CallExpr) Eval(in *Interpreter, env *Environment) (Value, error) {
	callee, err := c.Callee.Eval(in, env)
	if err != nil {
		return nil, err
	}
	args, err := in.evalList(c.Args, env)
	if err != nil {
		return nil, err
	}
	return in.call(callee, args, c.Line())
}

func (c *CallExpr) ToSource(indent string) string {
	return c.Callee.ToSource("") + "(" + joinSource(c.Args) + ")"
}

// NewExpr is `new ClassName(args)`.
type NewExpr struct {
	Pos
	Class string
	Args  []Expr
}

func (n *NewExpr) Eval(in *Interpreter, env *Environment) (Value, error) {
	v, err := env.Get(n.Class)
	if err != nil {
		return nil, atLine(err, n.Line())
	}
	class, ok := v.(*ClassDefValue)
	if !ok {
		return nil, newError(TypeError, n.Line(), "'%s' is not a class", n.Class)
	}
	args, err := in.evalList(n.Args, env)
	if err != nil {
		return nil, err
	}
	return in.instantiate(class, args, n.Line())
}

func (n *NewExpr) ToSource(indent string) string {
	return "new " + n.Class + "(" + joinSource(n.Args) + ")"
}

type MemberAccess struct {
	Pos
	Target Expr
	Field  string
}

func (m *MemberAccess) Eval(in *Interpreter, env *Environment) (Value, error) {
	target, err := m.Target.Eval(in, env)
	if err != nil {
		return nil, err
	}
	return getMember(target, m.Field, m.Line())
}

func (m *MemberAccess) ToSource(indent string) string {
	return m.Target.ToSource("") + "." + m.Field
}

// MemberCall is `target.method(args)`; the receiver is evaluated before the
// arguments.
type MemberCall struct {
	Pos
	Target Expr
	Method string
	Args   []Expr
}

func (m *MemberCall) Eval(in *Interpreter, env *Environment) (Value, error) {
	target, err := m.Target.Eval(in, env)
	if err != nil {
		return nil, err
	}
	args, err := in.evalList(m.Args, env)
	if err != nil {
		return nil, err
	}
	return in.callMethod(target, m.Method, args, m.Line())
}

func (m *MemberCall) ToSource(indent string) string {
	return m.Target.ToSource("") + "." + m.Method + "(" + joinSource(m.Args) + ")"
}

// InputExpr reads one line through the interpreter's LineReader.
type InputExpr struct {
	Pos
	Prompt Expr
}

func (i *InputExpr) Eval(in *Interpreter, env *Environment) (Value, error) {
	prompt := ""
	if i.Prompt != nil {
		v, err := i.Prompt.Eval(in, env)
		if err != nil {
			return nil, err
		}
		prompt = Stringify(v)
	}
	line, err := in.in.ReadLine(prompt)
	if err != nil {
		return nil, newError(RuntimeError, i.Line(), "input: %v", err)
	}
	return StringValue(line), nil
}

func (i *InputExpr) ToSource(indent string) string {
	if i.Prompt == nil {
		return "input()"
	}
	return "input(" + i.Prompt.ToSource("") + ")"
}

type ParseIntExpr struct {
	Pos
	Arg Expr
}

func (p *ParseIntExpr) Eval(in *Interpreter, env *Environment) (Value, error) {
	v, err := p.Arg.Eval(in, env)
	if err != nil {
		return nil, err
	}
	n, err := parseInt(v)
	if err != nil {
		return nil, atLine(err, p.Line())
	}
	return n, nil
}

func (p *ParseIntExpr) ToSource(indent string) string {
	return "parseInt(" + p.Arg.ToSource("") + ")"
}

func joinSource(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.ToSource("")
	}
	return strings.Join(parts, ", ")
}
