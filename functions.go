package toylang

import (
	"strconv"
	"strings"
	"time"

	"github.com/oarkflow/date"
)

func typeErr(fn, want string, got Value) error {
	return newError(TypeError, 0, "%s expects %s, got %s", fn, want, got.Kind())
}

func stringArg(fn string, v Value) (string, error) {
	s, ok := v.(StringValue)
	if !ok {
		return "", typeErr(fn, "a string", v)
	}
	return string(s), nil
}

func arrayArg(fn string, v Value) (*ArrayValue, error) {
	arr, ok := v.(*ArrayValue)
	if !ok {
		return nil, typeErr(fn, "an array", v)
	}
	return arr, nil
}

func intArg(fn string, v Value) (int, error) {
	n, ok := v.(NumberValue)
	if !ok {
		return 0, typeErr(fn, "a number", v)
	}
	i, ok := asIndex(n)
	if !ok {
		return 0, newError(ValueError, 0, "%s expects an integer, got %s", fn, formatNumber(float64(n)))
	}
	return i, nil
}

func length(args ...Value) (Value, error) {
	switch v := args[0].(type) {
	case StringValue:
		return NumberValue(len([]rune(string(v)))), nil
	case *ArrayValue:
		return NumberValue(len(v.Elements)), nil
	}
	return nil, typeErr("len", "a string or array", args[0])
}

func str(args ...Value) (Value, error) {
	return StringValue(Stringify(args[0])), nil
}

func typeOf(args ...Value) (Value, error) {
	return StringValue(args[0].Kind().String()), nil
}

func push(args ...Value) (Value, error) {
	arr, err := arrayArg("push", args[0])
	if err != nil {
		return nil, err
	}
	arr.Elements = append(arr.Elements, args[1])
	return NumberValue(len(arr.Elements)), nil
}

func pop(args ...Value) (Value, error) {
	arr, err := arrayArg("pop", args[0])
	if err != nil {
		return nil, err
	}
	if len(arr.Elements) == 0 {
		return nil, newError(IndexOutOfRangeError, 0, "pop from empty array")
	}
	last := arr.Elements[len(arr.Elements)-1]
	arr.Elements = arr.Elements[:len(arr.Elements)-1]
	return last, nil
}

func upper(args ...Value) (Value, error) {
	return StringValue(strings.ToUpper(Stringify(args[0]))), nil
}

func lower(args ...Value) (Value, error) {
	return StringValue(strings.ToLower(Stringify(args[0]))), nil
}

func trim(args ...Value) (Value, error) {
	return StringValue(strings.TrimSpace(Stringify(args[0]))), nil
}

// contains tests substring membership for strings and element equality
// for arrays.
func contains(args ...Value) (Value, error) {
	if arr, ok := args[0].(*ArrayValue); ok {
		for _, el := range arr.Elements {
			if Equal(el, args[1]) {
				return BoolValue(true), nil
			}
		}
		return BoolValue(false), nil
	}
	return BoolValue(strings.Contains(Stringify(args[0]), Stringify(args[1]))), nil
}

func replace(args ...Value) (Value, error) {
	return StringValue(strings.ReplaceAll(Stringify(args[0]), Stringify(args[1]), Stringify(args[2]))), nil
}

func reverse(args ...Value) (Value, error) {
	if arr, ok := args[0].(*ArrayValue); ok {
		out := make([]Value, len(arr.Elements))
		for i, el := range arr.Elements {
			out[len(out)-1-i] = el
		}
		return NewArray(out...), nil
	}
	runes := []rune(Stringify(args[0]))
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return StringValue(runes), nil
}

// substring(s, start) or substring(s, start, length), counted in characters.
func substring(args ...Value) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, newError(ArityError, 0, "substring expects 2 or 3 arguments, got %d", len(args))
	}
	s, err := stringArg("substring", args[0])
	if err != nil {
		return nil, err
	}
	start, err := intArg("substring", args[1])
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	if start < 0 || start > len(runes) {
		return nil, newError(IndexOutOfRangeError, 0, "substring start %d out of range for length %d", start, len(runes))
	}
	if len(args) == 3 {
		n, err := intArg("substring", args[2])
		if err != nil {
			return nil, err
		}
		if n < 0 || start+n > len(runes) {
			return nil, newError(IndexOutOfRangeError, 0, "substring length %d out of range", n)
		}
		return StringValue(runes[start : start+n]), nil
	}
	return StringValue(runes[start:]), nil
}

func split(args ...Value) (Value, error) {
	s, err := stringArg("split", args[0])
	if err != nil {
		return nil, err
	}
	sep, err := stringArg("split", args[1])
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, sep)
	out := make([]Value, len(parts))
	for i, p := range parts {
		out[i] = StringValue(p)
	}
	return NewArray(out...), nil
}

func join(args ...Value) (Value, error) {
	arr, err := arrayArg("join", args[0])
	if err != nil {
		return nil, err
	}
	sep, err := stringArg("join", args[1])
	if err != nil {
		return nil, err
	}
	parts := make([]string, len(arr.Elements))
	for i, el := range arr.Elements {
		parts[i] = Stringify(el)
	}
	return StringValue(strings.Join(parts, sep)), nil
}

func startsWith(args ...Value) (Value, error) {
	return BoolValue(strings.HasPrefix(Stringify(args[0]), Stringify(args[1]))), nil
}

func endsWith(args ...Value) (Value, error) {
	return BoolValue(strings.HasSuffix(Stringify(args[0]), Stringify(args[1]))), nil
}

func concat(args ...Value) (Value, error) {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(Stringify(a))
	}
	return StringValue(sb.String()), nil
}

// sleep pauses for the given number of milliseconds.
func sleep(args ...Value) (Value, error) {
	n, ok := args[0].(NumberValue)
	if !ok {
		return nil, typeErr("sleep", "a number of milliseconds", args[0])
	}
	if n < 0 {
		return nil, newError(ValueError, 0, "sleep duration must not be negative")
	}
	time.Sleep(time.Duration(float64(n) * float64(time.Millisecond)))
	return Null, nil
}

// timestamp returns the current Unix time in seconds, with a fractional part.
func timestamp(args ...Value) (Value, error) {
	return NumberValue(float64(time.Now().UnixNano()) / float64(time.Second)), nil
}

// parseDate accepts any layout the date package recognizes and returns
// Unix seconds.
func parseDate(args ...Value) (Value, error) {
	s, err := stringArg("parseDate", args[0])
	if err != nil {
		return nil, err
	}
	t, err := date.Parse(s)
	if err != nil {
		return nil, &Error{Kind: FormatError, Message: "cannot parse date " + strconv.Quote(s), Cause: err}
	}
	return NumberValue(t.Unix()), nil
}

func toJSON(args ...Value) (Value, error) {
	s, err := EncodeJSON(args[0])
	if err != nil {
		return nil, err
	}
	return StringValue(s), nil
}

func parseJSON(args ...Value) (Value, error) {
	s, err := stringArg("parseJSON", args[0])
	if err != nil {
		return nil, err
	}
	return DecodeJSON(s)
}

func registerDefaults(r *FunctionRegistry) {
	for _, b := range []struct {
		name  string
		arity int
		fn    Builtin
	}{
		{"len", 1, length},
		{"str", 1, str},
		{"type", 1, typeOf},
		{"push", 2, push},
		{"pop", 1, pop},
		{"upper", 1, upper},
		{"lower", 1, lower},
		{"trim", 1, trim},
		{"contains", 2, contains},
		{"replace", 3, replace},
		{"reverse", 1, reverse},
		{"substring", -1, substring},
		{"split", 2, split},
		{"join", 2, join},
		{"startsWith", 2, startsWith},
		{"endsWith", 2, endsWith},
		{"concat", -1, concat},
		{"sleep", 1, sleep},
		{"timestamp", 0, timestamp},
		{"parseDate", 1, parseDate},
		{"toJSON", 1, toJSON},
		{"parseJSON", 1, parseJSON},
	} {
		r.Replace(&NativeFunctionValue{Name: b.name, Arity: b.arity, Fn: b.fn})
	}
}
