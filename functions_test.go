package toylang

import (
	"strings"
	"testing"
)

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"len", `print(len("héllo"), len([1, 2, 3]), len([]));`, "5 3 0"},
		{"str", `print(str(1.5) + "!", str(null), str([1, "a"]));`, `1.5! null [1, "a"]`},
		{"type", `def f() {} struct S { a } class C {} print(type(1), type("a"), type(true), type(null), type([]), type(f), type(len), type(S), type(S(1)), type(C), type(new C()));`,
			"number string boolean null array function builtin struct struct instance class instance"},
		{"push returns new length", `let a = [1]; print(push(a, 2), a);`, "2 [1, 2]"},
		{"pop", `let a = [1, 2]; print(pop(a), a);`, "2 [1]"},
		{"case", `print(upper("abc"), lower("ABC"));`, "ABC abc"},
		{"trim", `print("[" + trim("  x  ") + "]");`, "[x]"},
		{"contains", `print(contains("hello", "ell"), contains([1, "2"], 2), contains([1, "2"], "2"));`, "true false true"},
		{"replace", `print(replace("a-b-c", "-", "+"));`, "a+b+c"},
		{"reverse", `let a = [1, 2, 3]; print(reverse("abc"), reverse(a), a);`, "cba [3, 2, 1] [1, 2, 3]"},
		{"substring", `print(substring("héllo", 1), substring("héllo", 1, 3));`, "éllo éll"},
		{"split and join", `let parts = split("a,b,c", ","); print(len(parts), join(parts, "|"));`, "3 a|b|c"},
		{"join stringifies", `print(join([1, true, null], ","));`, "1,true,null"},
		{"prefix and suffix", `print(startsWith("toylang", "toy"), endsWith("toylang", "toy"));`, "true false"},
		{"concat", `print(concat("a", 1, true), concat());`, "a1true "},
		{"sleep", `print(sleep(1));`, "null"},
		{"timestamp", `print(timestamp() > 1600000000);`, "true"},
		{"parseDate", `print(parseDate("2024-03-02") - parseDate("2024-03-01"));`, "86400"},
		{"toJSON", `print(toJSON([1, "a", true, null]));`, `[1,"a",true,null]`},
		{"toJSON struct", `struct P { x } print(toJSON(P(1)));`, `{"x":1}`},
		{"parseJSON", `let o = parseJSON("{\"name\": \"ada\", \"tags\": [1, 2]}"); print(o.name, o.tags[1], o);`, `ada 2 Object{name: "ada", tags: [1, 2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRun(t, tt.input)
			if got != tt.want+"\n" {
				t.Errorf("output = %q, want %q", got, tt.want+"\n")
			}
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     ErrorKind
		contains string
	}{
		{"len of number", `len(1);`, TypeError, "len expects a string or array, got number"},
		{"substring arity", `substring("a");`, ArityError, "substring expects 2 or 3 arguments, got 1"},
		{"substring range", `substring("abc", 4);`, IndexOutOfRangeError, "substring start 4"},
		{"substring length", `substring("abc", 1, 5);`, IndexOutOfRangeError, "substring length 5"},
		{"substring fractional", `substring("abc", 1.5);`, ValueError, "expects an integer"},
		{"split type", `split(1, ",");`, TypeError, "split expects a string, got number"},
		{"sleep negative", `sleep(-1);`, ValueError, "must not be negative"},
		{"bad date", `parseDate("not a date");`, FormatError, `cannot parse date "not a date"`},
		{"bad json", `parseJSON("{");`, FormatError, "invalid JSON"},
		{"cyclic json", `let a = []; push(a, a); toJSON(a);`, ValueError, "cyclic array"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runProgram(t, tt.input)
			if err == nil {
				t.Fatal("expected an error")
			}
			if err.Kind != tt.kind || err.Line != 1 || !strings.Contains(err.Message, tt.contains) {
				t.Errorf("error = %v (kind %v), want %v at line 1 containing %q", err, err.Kind, tt.kind, tt.contains)
			}
		})
	}
}

func TestFunctionRegistry(t *testing.T) {
	r := NewFunctionRegistry()
	double := func(args ...Value) (Value, error) {
		return args[0].(NumberValue) * 2, nil
	}

	if err := r.Register("double", 1, double); err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		name string
		fn   Builtin
	}{
		{"double", double},
		{"", double},
		{"nilfn", nil},
		{"while", double},
	} {
		if err := r.Register(tc.name, 1, tc.fn); err == nil {
			t.Errorf("Register(%q) succeeded, want an error", tc.name)
		}
	}

	r.Replace(&NativeFunctionValue{Name: "double", Arity: -1, Fn: double})
	fn, ok := r.Lookup("double")
	if !ok || fn.Arity != -1 {
		t.Errorf("Lookup() = %+v, %v", fn, ok)
	}

	_ = r.Register("abs", 1, double)
	if names := r.List(); len(names) != 2 || names[0] != "abs" || names[1] != "double" {
		t.Errorf("List() = %v", names)
	}
	r.Clear()
	if len(r.Functions()) != 0 {
		t.Error("Clear() left functions behind")
	}
}

func TestHostFunctions(t *testing.T) {
	var calls []string
	record := WithFunction("record", -1, func(args ...Value) (Value, error) {
		for _, a := range args {
			calls = append(calls, Stringify(a))
		}
		return nil, nil
	})
	override := WithFunction("len", 1, func(args ...Value) (Value, error) {
		return NumberValue(-1), nil
	})

	out := mustRun(t, `print(record("a", 1), len("abc"));`, record, override)
	if out != "null -1\n" {
		t.Errorf("output = %q", out)
	}
	if strings.Join(calls, ",") != "a,1" {
		t.Errorf("calls = %v", calls)
	}

	var b strings.Builder
	in := New(WithOutput(&b))
	if err := in.Registry().Register("answer", 0, func(...Value) (Value, error) { return NumberValue(42), nil }); err != nil {
		t.Fatal(err)
	}
	if res := in.Run(`print(answer());`); !res.OK() {
		t.Fatal(res.Err)
	}
	if b.String() != "42\n" {
		t.Errorf("output = %q", b.String())
	}
}
