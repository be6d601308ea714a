package toylang

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
	KindNull
	KindArray
	KindFunction
	KindNativeFunction
	KindStructDef
	KindStructInstance
	KindClassDef
	KindClassInstance
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "builtin"
	case KindStructDef:
		return "struct"
	case KindStructInstance:
		return "struct instance"
	case KindClassDef:
		return "class"
	case KindClassInstance:
		return "instance"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is implemented by exactly the types declared in this file.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NumberValue float64

func (NumberValue) Kind() Kind { return KindNumber }

type StringValue string

func (StringValue) Kind() Kind { return KindString }

type BoolValue bool

func (BoolValue) Kind() Kind { return KindBool }

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

// Null is the single null value.
var Null = NullValue{}

//-----------------------------------------------------------------------------
// Arrays
//-----------------------------------------------------------------------------

// ArrayValue is always handled by pointer so that every binding aliasing an
// array observes mutations made through any other.
type ArrayValue struct {
	Elements []Value
}

func (*ArrayValue) Kind() Kind { return KindArray }

func NewArray(elems ...Value) *ArrayValue {
	if elems == nil {
		elems = []Value{}
	}
	return &ArrayValue{Elements: elems}
}

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// FunctionValue is a user-defined function together with the frame active
// where it was defined. Self is set on methods bound to an instance.
type FunctionValue struct {
	Name   string
	Params []string
	Body   *BlockStmt
	Env    *Environment
	Self   Value
	Line   int
}

func (*FunctionValue) Kind() Kind { return KindFunction }

func (f *FunctionValue) bind(self Value) *FunctionValue {
	bound := *f
	bound.Self = self
	return &bound
}

// Builtin is the Go signature of a native function.
type Builtin func(args ...Value) (Value, error)

// NativeFunctionValue wraps a Builtin. Arity is the exact argument count, or
// -1 when the function checks its own arguments.
type NativeFunctionValue struct {
	Name  string
	Arity int
	Fn    Builtin
}

func (*NativeFunctionValue) Kind() Kind { return KindNativeFunction }

//-----------------------------------------------------------------------------
// Structs and classes
//-----------------------------------------------------------------------------

type StructDefValue struct {
	Name   string
	Fields []string
}

func (*StructDefValue) Kind() Kind { return KindStructDef }

func (d *StructDefValue) hasField(name string) bool {
	for _, f := range d.Fields {
		if f == name {
			return true
		}
	}
	return false
}

type StructInstanceValue struct {
	Def    *StructDefValue
	Fields map[string]Value
}

func (*StructInstanceValue) Kind() Kind { return KindStructInstance }

type ClassDefValue struct {
	Name    string
	Methods map[string]*FunctionValue
}

func (*ClassDefValue) Kind() Kind { return KindClassDef }

// initializer returns the constructor hook, if the class declares one.
func (c *ClassDefValue) initializer() *FunctionValue {
	if m, ok := c.Methods["init"]; ok {
		return m
	}
	return c.Methods["constructor"]
}

// ClassInstanceValue keeps field insertion order for stable printing.
type ClassInstanceValue struct {
	Class  *ClassDefValue
	Fields map[string]Value
	order  []string
}

func (*ClassInstanceValue) Kind() Kind { return KindClassInstance }

func (o *ClassInstanceValue) setField(name string, v Value) {
	if _, ok := o.Fields[name]; !ok {
		o.order = append(o.order, name)
	}
	o.Fields[name] = v
}

//-----------------------------------------------------------------------------
// Semantics shared by the evaluator and the builtins
//-----------------------------------------------------------------------------

// Truthy: false, null, numeric zero and the empty string are falsy; every
// other value, including empty arrays, is truthy.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case BoolValue:
		return bool(t)
	case NullValue:
		return false
	case NumberValue:
		return t != 0
	case StringValue:
		return t != ""
	default:
		return true
	}
}

// Equal compares primitives by value and everything else by identity.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case NumberValue:
		y, ok := b.(NumberValue)
		return ok && x == y
	case StringValue:
		y, ok := b.(StringValue)
		return ok && x == y
	case BoolValue:
		y, ok := b.(BoolValue)
		return ok && x == y
	case NullValue:
		_, ok := b.(NullValue)
		return ok
	case *FunctionValue:
		y, ok := b.(*FunctionValue)
		if !ok {
			return false
		}
		if x == y {
			return true
		}
		// two bindings of the same method to the same receiver
		return x.Self != nil && x.Body == y.Body && x.Env == y.Env && Equal(x.Self, y.Self)
	default:
		return a == b
	}
}

// Stringify renders v the way print shows it.
func Stringify(v Value) string {
	if s, ok := v.(StringValue); ok {
		return string(s)
	}
	return inspect(v)
}

// Repr renders v with strings quoted, as the REPL echoes results.
func Repr(v Value) string {
	return inspect(v)
}

// inspect renders nested values; strings are quoted.
func inspect(v Value) string {
	switch t := v.(type) {
	case NumberValue:
		return formatNumber(float64(t))
	case StringValue:
		return strconv.Quote(string(t))
	case BoolValue:
		if t {
			return "true"
		}
		return "false"
	case NullValue:
		return "null"
	case *ArrayValue:
		parts := make([]string, len(t.Elements))
		for i, el := range t.Elements {
			parts[i] = inspect(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *FunctionValue:
		if t.Name == "" {
			return "<function>"
		}
		return "<function " + t.Name + ">"
	case *NativeFunctionValue:
		return "<builtin " + t.Name + ">"
	case *StructDefValue:
		return "<struct " + t.Name + ">"
	case *ClassDefValue:
		return "<class " + t.Name + ">"
	case *StructInstanceValue:
		return formatFields(t.Def.Name, t.Def.Fields, t.Fields)
	case *ClassInstanceValue:
		return formatFields(t.Class.Name, t.order, t.Fields)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatFields(name string, order []string, fields map[string]Value) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('{')
	for i, f := range order {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f)
		sb.WriteString(": ")
		sb.WriteString(inspect(fields[f]))
	}
	sb.WriteByte('}')
	return sb.String()
}

func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// asIndex converts an integer-valued number to an int.
func asIndex(v NumberValue) (int, bool) {
	f := float64(v)
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return int(f), true
}
