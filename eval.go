package toylang

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

func (in *Interpreter) evalList(exprs []Expr, env *Environment) ([]Value, error) {
	vals := make([]Value, len(exprs))
	for i, e := range exprs {
		v, err := e.Eval(in, env)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func binaryOp(op string, left, right Value, line int) (Value, error) {
	switch op {
	case "==":
		return BoolValue(Equal(left, right)), nil
	case "!=":
		return BoolValue(!Equal(left, right)), nil
	case "+":
		_, ls := left.(StringValue)
		_, rs := right.(StringValue)
		if ls || rs {
			return StringValue(Stringify(left) + Stringify(right)), nil
		}
	case "<", ">", "<=", ">=":
		if l, ok := left.(StringValue); ok {
			if r, ok := right.(StringValue); ok {
				return BoolValue(compareOrdered(op, strings.Compare(string(l), string(r)))), nil
			}
		}
	}

	l, lok := left.(NumberValue)
	r, rok := right.(NumberValue)
	if !lok || !rok {
		return nil, newError(TypeError, line, "unsupported operand types for %s: %s and %s", op, left.Kind(), right.Kind())
	}
	var result float64
	switch op {
	case "+":
		result = float64(l + r)
	case "-":
		result = float64(l - r)
	case "*":
		result = float64(l * r)
	case "/":
		if r == 0 {
			return nil, newError(ValueError, line, "division by zero")
		}
		result = float64(l / r)
	case "<":
		return BoolValue(l < r), nil
	case ">":
		return BoolValue(l > r), nil
	case "<=":
		return BoolValue(l <= r), nil
	case ">=":
		return BoolValue(l >= r), nil
	default:
		return nil, newError(SyntaxError, line, "unknown operator '%s'", op)
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return nil, newError(ValueError, line, "arithmetic result out of range: %s %s %s", formatNumber(float64(l)), op, formatNumber(float64(r)))
	}
	return NumberValue(result), nil
}

func compareOrdered(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case ">":
		return cmp > 0
	case "<=":
		return cmp <= 0
	default:
		return cmp >= 0
	}
}

func indexOf(index Value, length int, line int) (int, error) {
	n, ok := index.(NumberValue)
	if !ok {
		return 0, newError(TypeError, line, "index must be a number, got %s", index.Kind())
	}
	i, ok := asIndex(n)
	if !ok || i < 0 || i >= length {
		return 0, newError(IndexOutOfRangeError, line, "index %s out of range for length %d", formatNumber(float64(n)), length)
	}
	return i, nil
}

func getIndex(target, index Value, line int) (Value, error) {
	switch t := target.(type) {
	case *ArrayValue:
		i, err := indexOf(index, len(t.Elements), line)
		if err != nil {
			return nil, err
		}
		return t.Elements[i], nil
	case StringValue:
		runes := []rune(string(t))
		i, err := indexOf(index, len(runes), line)
		if err != nil {
			return nil, err
		}
		return StringValue(runes[i]), nil
	}
	return nil, newError(TypeError, line, "cannot index %s", target.Kind())
}

func setIndex(target, index, v Value, line int) error {
	arr, ok := target.(*ArrayValue)
	if !ok {
		return newError(TypeError, line, "cannot assign by index to %s", target.Kind())
	}
	i, err := indexOf(index, len(arr.Elements), line)
	if err != nil {
		return err
	}
	arr.Elements[i] = v
	return nil
}

func getMember(target Value, name string, line int) (Value, error) {
	switch t := target.(type) {
	case *StructInstanceValue:
		if v, ok := t.Fields[name]; ok {
			return v, nil
		}
		return nil, newError(NoSuchFieldError, line, "struct %s has no field '%s'", t.Def.Name, name)
	case *ClassInstanceValue:
		if v, ok := t.Fields[name]; ok {
			return v, nil
		}
		if m, ok := t.Class.Methods[name]; ok {
			return m.bind(t), nil
		}
		return nil, newError(NoSuchFieldError, line, "instance of %s has no field '%s'", t.Class.Name, name)
	case *ArrayValue:
		if name == "length" {
			return NumberValue(len(t.Elements)), nil
		}
	case StringValue:
		if name == "length" {
			return NumberValue(len([]rune(string(t)))), nil
		}
	}
	return nil, newError(TypeError, line, "cannot access field '%s' on %s", name, target.Kind())
}

func setMember(target Value, name string, v Value, line int) error {
	switch t := target.(type) {
	case *StructInstanceValue:
		if !t.Def.hasField(name) {
			return newError(NoSuchFieldError, line, "struct %s has no field '%s'", t.Def.Name, name)
		}
		t.Fields[name] = v
		return nil
	case *ClassInstanceValue:
		t.setField(name, v)
		return nil
	}
	return newError(TypeError, line, "cannot set field '%s' on %s", name, target.Kind())
}

// call applies callee to already evaluated arguments.
func (in *Interpreter) call(callee Value, args []Value, line int) (Value, error) {
	switch fn := callee.(type) {
	case *FunctionValue:
		return in.callFunction(fn, args, line)
	case *NativeFunctionValue:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return nil, newError(ArityError, line, "%s expects %d arguments, got %d", fn.Name, fn.Arity, len(args))
		}
		if in.trace != nil {
			in.trace.Debug("call", slog.String("builtin", fn.Name), slog.Int("line", line))
		}
		v, err := fn.Fn(args...)
		if err != nil {
			return nil, atLine(err, line)
		}
		if v == nil {
			return Null, nil
		}
		return v, nil
	case *StructDefValue:
		return constructStruct(fn, args, line)
	case *ClassDefValue:
		return nil, newError(TypeError, line, "class %s must be instantiated with 'new'", fn.Name)
	}
	return nil, newError(TypeError, line, "%s is not callable", callee.Kind())
}

func (in *Interpreter) callFunction(fn *FunctionValue, args []Value, line int) (Value, error) {
	if len(args) != len(fn.Params) {
		name := fn.Name
		if name == "" {
			name = "function"
		}
		return nil, newError(ArityError, line, "%s expects %d arguments, got %d", name, len(fn.Params), len(args))
	}
	in.depth++
	defer func() { in.depth-- }()
	if in.depth > in.maxDepth {
		return nil, newError(RuntimeError, line, "maximum call depth exceeded (%d)", in.maxDepth)
	}
	if in.trace != nil {
		in.trace.Debug("call", slog.String("function", fn.Name), slog.Int("depth", in.depth), slog.Int("line", line))
	}

	frame := fn.Env.Child()
	if fn.Self != nil {
		frame.vars["self"] = &slot{value: fn.Self}
		frame.vars["this"] = &slot{value: fn.Self}
	}
	for i, p := range fn.Params {
		frame.vars[p] = &slot{value: args[i], mutable: true}
	}
	c, err := in.execStatements(fn.Body.Statements, frame)
	if err != nil {
		return nil, err
	}
	if c.returned() {
		return c.Value, nil
	}
	return Null, nil
}

func constructStruct(def *StructDefValue, args []Value, line int) (Value, error) {
	if len(args) != len(def.Fields) {
		return nil, newError(ArityError, line, "struct %s expects %d fields, got %d", def.Name, len(def.Fields), len(args))
	}
	inst := &StructInstanceValue{Def: def, Fields: make(map[string]Value, len(def.Fields))}
	for i, f := range def.Fields {
		inst.Fields[f] = args[i]
	}
	return inst, nil
}

func (in *Interpreter) instantiate(class *ClassDefValue, args []Value, line int) (Value, error) {
	inst := &ClassInstanceValue{Class: class, Fields: make(map[string]Value)}
	init := class.initializer()
	if init == nil {
		if len(args) > 0 {
			return nil, newError(ArityError, line, "class %s has no constructor and takes no arguments, got %d", class.Name, len(args))
		}
		return inst, nil
	}
	if _, err := in.callFunction(init.bind(inst), args, line); err != nil {
		return nil, err
	}
	return inst, nil
}

func (in *Interpreter) callMethod(target Value, name string, args []Value, line int) (Value, error) {
	switch t := target.(type) {
	case *ClassInstanceValue:
		// a field shadows a method of the same name, as in getMember
		if v, ok := t.Fields[name]; ok {
			return in.call(v, args, line)
		}
		if m, ok := t.Class.Methods[name]; ok {
			return in.callFunction(m.bind(t), args, line)
		}
		return nil, newError(NoSuchMethodError, line, "class %s has no method '%s'", t.Class.Name, name)
	case *StructInstanceValue:
		if v, ok := t.Fields[name]; ok {
			return in.call(v, args, line)
		}
		return nil, newError(NoSuchMethodError, line, "struct %s has no method '%s'", t.Def.Name, name)
	}
	return nil, newError(TypeError, line, "cannot call method '%s' on %s", name, target.Kind())
}

// parseInt backs the parseInt(...) expression.
func parseInt(v Value) (Value, error) {
	switch t := v.(type) {
	case StringValue:
		s := strings.TrimSpace(string(t))
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, &Error{Kind: FormatError, Message: "cannot convert " + strconv.Quote(string(t)) + " to an integer", Cause: err}
		}
		return NumberValue(n), nil
	case NumberValue:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, newError(FormatError, 0, "cannot convert %s to an integer", formatNumber(f))
		}
		return NumberValue(math.Trunc(f)), nil
	}
	return nil, newError(FormatError, 0, "cannot convert %s to an integer", v.Kind())
}
