package toylang

import (
	"fmt"
	"math"
	"sort"

	"github.com/goccy/go-reflect"
	"github.com/oarkflow/json"
)

// objectClass is the class of instances built from host maps and structs.
// It declares no methods, so such instances only carry fields.
var objectClass = &ClassDefValue{Name: "Object", Methods: map[string]*FunctionValue{}}

// FromGo converts host data into a runtime Value. Maps must have string
// keys and become field-only instances; structs are converted through their
// JSON form so json tags decide the field names.
func FromGo(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null, nil
	case Value:
		return t, nil
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("cannot convert non-finite number %v", t)
		}
		return NumberValue(t), nil
	case int:
		return NumberValue(t), nil
	case []any:
		return fromSlice(len(t), func(i int) any { return t[i] })
	case map[string]any:
		return fromMap(t)
	}
	return fromReflect(reflect.ValueOf(v))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Invalid:
		return Null, nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null, nil
		}
		return fromReflect(rv.Elem())
	case reflect.Bool:
		return BoolValue(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NumberValue(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return NumberValue(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("cannot convert non-finite number %v", f)
		}
		return NumberValue(f), nil
	case reflect.String:
		return StringValue(rv.String()), nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return StringValue(rv.Bytes()), nil
		}
		fallthrough
	case reflect.Array:
		return fromSlice(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("cannot convert map with %s keys", rv.Type().Key().Kind())
		}
		m := make(map[string]any, rv.Len())
		for _, k := range rv.MapKeys() {
			m[k.String()] = rv.MapIndex(k).Interface()
		}
		return fromMap(m)
	case reflect.Struct:
		data, err := json.Marshal(rv.Interface())
		if err != nil {
			return nil, fmt.Errorf("cannot convert %s: %w", rv.Type(), err)
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("cannot convert %s: %w", rv.Type(), err)
		}
		return FromGo(generic)
	}
	return nil, fmt.Errorf("cannot convert value of kind %s", rv.Kind())
}

func fromSlice(n int, at func(int) any) (Value, error) {
	elems := make([]Value, n)
	for i := 0; i < n; i++ {
		v, err := FromGo(at(i))
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		elems[i] = v
	}
	return NewArray(elems...), nil
}

func fromMap(m map[string]any) (Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	inst := &ClassInstanceValue{Class: objectClass, Fields: make(map[string]Value, len(m))}
	for _, k := range keys {
		v, err := FromGo(m[k])
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", k, err)
		}
		inst.setField(k, v)
	}
	return inst, nil
}

// ToGo converts a runtime Value into plain Go data: nil, bool, float64,
// string, []any and map[string]any. Functions and definitions become their
// printed form. Cyclic arrays or instances are an error.
func ToGo(v Value) (any, error) {
	return toGo(v, map[Value]bool{})
}

func toGo(v Value, path map[Value]bool) (any, error) {
	switch t := v.(type) {
	case nil, NullValue:
		return nil, nil
	case NumberValue:
		return float64(t), nil
	case StringValue:
		return string(t), nil
	case BoolValue:
		return bool(t), nil
	case *ArrayValue:
		if path[t] {
			return nil, newError(ValueError, 0, "cannot convert cyclic array")
		}
		path[t] = true
		defer delete(path, t)
		out := make([]any, len(t.Elements))
		for i, el := range t.Elements {
			g, err := toGo(el, path)
			if err != nil {
				return nil, err
			}
			out[i] = g
		}
		return out, nil
	case *StructInstanceValue:
		return fieldsToGo(t, t.Fields, path)
	case *ClassInstanceValue:
		return fieldsToGo(t, t.Fields, path)
	}
	return Stringify(v), nil
}

func fieldsToGo(owner Value, fields map[string]Value, path map[Value]bool) (any, error) {
	if path[owner] {
		return nil, newError(ValueError, 0, "cannot convert cyclic %s", owner.Kind())
	}
	path[owner] = true
	defer delete(path, owner)
	out := make(map[string]any, len(fields))
	for k, fv := range fields {
		g, err := toGo(fv, path)
		if err != nil {
			return nil, err
		}
		out[k] = g
	}
	return out, nil
}
