package toylang

import "sort"

type slot struct {
	value   Value
	mutable bool
}

// Environment is one frame of the scope chain. Frames are shared by pointer:
// a closure keeps the frame it was defined in alive after the block exits.
type Environment struct {
	vars   map[string]*slot
	parent *Environment
}

func NewEnv(parent *Environment) *Environment {
	return &Environment{
		vars:   make(map[string]*slot),
		parent: parent,
	}
}

// Child creates an empty frame enclosed by env.
func (env *Environment) Child() *Environment {
	return NewEnv(env)
}

func (env *Environment) Parent() *Environment {
	return env.parent
}

// Define binds name in this frame only.
func (env *Environment) Define(name string, value Value, mutable bool) error {
	if _, exists := env.vars[name]; exists {
		return newError(RedeclarationError, 0, "'%s' is already declared in this scope", name)
	}
	env.vars[name] = &slot{value: value, mutable: mutable}
	return nil
}

func (env *Environment) Get(name string) (Value, error) {
	if s := env.lookup(name); s != nil {
		return s.value, nil
	}
	return nil, newError(UndefinedVariableError, 0, "undefined variable '%s'", name)
}

// Set rewrites the nearest binding of name.
func (env *Environment) Set(name string, value Value) error {
	s := env.lookup(name)
	if s == nil {
		return newError(UndefinedVariableError, 0, "undefined variable '%s'", name)
	}
	if !s.mutable {
		return newError(ImmutableAssignmentError, 0, "cannot assign to constant '%s'", name)
	}
	s.value = value
	return nil
}

// Lookup reports whether name is bound anywhere in the chain.
func (env *Environment) Lookup(name string) (Value, bool) {
	if s := env.lookup(name); s != nil {
		return s.value, true
	}
	return nil, false
}

func (env *Environment) lookup(name string) *slot {
	for e := env; e != nil; e = e.parent {
		if s, ok := e.vars[name]; ok {
			return s
		}
	}
	return nil
}

// Names returns this frame's own bindings in sorted order.
func (env *Environment) Names() []string {
	names := make([]string, 0, len(env.vars))
	for name := range env.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
