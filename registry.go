package toylang

import (
	"fmt"
	"sort"
	"sync"
)

// FunctionRegistry manages native functions in a thread-safe manner. Each
// Interpreter owns one; its contents become the builtin frame of every run.
type FunctionRegistry struct {
	mu    sync.RWMutex
	funcs map[string]*NativeFunctionValue
}

// NewFunctionRegistry creates an empty function registry
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		funcs: make(map[string]*NativeFunctionValue),
	}
}

// Register adds a function to the registry. Names are case sensitive.
func (r *FunctionRegistry) Register(name string, arity int, fn Builtin) error {
	if name == "" {
		return fmt.Errorf("function name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("function cannot be nil")
	}
	if IsKeyword(name) {
		return fmt.Errorf("function name %s is a reserved word", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.funcs[name]; exists {
		return fmt.Errorf("function %s already registered", name)
	}
	r.funcs[name] = &NativeFunctionValue{Name: name, Arity: arity, Fn: fn}
	return nil
}

// Replace registers fn, overwriting any function with the same name.
func (r *FunctionRegistry) Replace(fn *NativeFunctionValue) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.funcs[fn.Name] = fn
}

// Lookup retrieves a function from the registry
func (r *FunctionRegistry) Lookup(name string) (*NativeFunctionValue, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.funcs[name]
	return fn, ok
}

// List returns all registered function names, sorted
func (r *FunctionRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Functions returns a snapshot of the registered functions, sorted by name.
func (r *FunctionRegistry) Functions() []*NativeFunctionValue {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fns := make([]*NativeFunctionValue, 0, len(r.funcs))
	for _, fn := range r.funcs {
		fns = append(fns, fn)
	}
	sort.Slice(fns, func(i, j int) bool { return fns[i].Name < fns[j].Name })
	return fns
}

// Clear removes all registered functions
func (r *FunctionRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.funcs = make(map[string]*NativeFunctionValue)
}
