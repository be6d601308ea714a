package toylang

// Pos is the 1-based source line of a node's leading token.
type Pos int

func (p Pos) Line() int { return int(p) }

type Node interface {
	Line() int
	ToSource(indent string) string
}

// Expr nodes produce a value.
type Expr interface {
	Node
	Eval(in *Interpreter, env *Environment) (Value, error)
}

// Stmt nodes produce a Completion, which carries the return signal.
type Stmt interface {
	Node
	Exec(in *Interpreter, env *Environment) (Completion, error)
}

type Signal int

const (
	SignalNone Signal = iota
	SignalReturn
)

// Completion is the outcome of executing a statement. A SignalReturn
// completion travels up through blocks and loops until a function call
// consumes it.
type Completion struct {
	Signal Signal
	Value  Value
}

var normalCompletion = Completion{Signal: SignalNone}

func (c Completion) returned() bool { return c.Signal == SignalReturn }

// Program is the root of a parsed source file.
type Program struct {
	Pos
	Statements []Stmt
}

// Inspect traverses the tree rooted at node in depth-first order. If f
// returns false the children of that node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		for _, s := range n.Statements {
			Inspect(s, f)
		}
	case *BlockStmt:
		for _, s := range n.Statements {
			Inspect(s, f)
		}
	case *VarDecl:
		Inspect(n.Init, f)
	case *IfStmt:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *WhileStmt:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)
	case *RepeatStmt:
		Inspect(n.Count, f)
		Inspect(n.Body, f)
	case *FunctionDecl:
		Inspect(n.Body, f)
	case *FunctionLiteral:
		Inspect(n.Body, f)
	case *ReturnStmt:
		if n.Value != nil {
			Inspect(n.Value, f)
		}
	case *ClassDecl:
		for _, m := range n.Methods {
			Inspect(m, f)
		}
	case *PrintStmt:
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *ExprStmt:
		Inspect(n.X, f)
	case *ArrayLiteral:
		for _, e := range n.Elements {
			Inspect(e, f)
		}
	case *IndexExpr:
		Inspect(n.Target, f)
		Inspect(n.Index, f)
	case *IndexAssign:
		Inspect(n.Target, f)
		Inspect(n.Index, f)
		Inspect(n.Value, f)
	case *BinaryExpr:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *LogicalExpr:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *UnaryExpr:
		Inspect(n.Operand, f)
	case *AssignExpr:
		Inspect(n.Value, f)
	case *MemberAssign:
		Inspect(n.Target, f)
		Inspect(n.Value, f)
	case *CallExpr:
		Inspect(n.Callee, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *NewExpr:
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *MemberAccess:
		Inspect(n.Target, f)
	case *MemberCall:
		Inspect(n.Target, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *InputExpr:
		if n.Prompt != nil {
			Inspect(n.Prompt, f)
		}
	case *ParseIntExpr:
		Inspect(n.Arg, f)
	}
}
