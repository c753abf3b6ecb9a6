package lisp

import "sort"

// Env is a frame of symbol bindings with an optional enclosing frame.
// The outermost frame is the process-wide environment.
type Env struct {
	vars  map[string]Value
	outer *Env
}

// NewEnv creates an empty top-level environment.
func NewEnv() *Env {
	return &Env{vars: make(map[string]Value)}
}

// NewEnclosedEnv creates a frame whose lookups fall back to outer.
func NewEnclosedEnv(outer *Env) *Env {
	env := NewEnv()
	env.outer = outer
	return env
}

// Define binds name in this frame, replacing any previous binding.
func (e *Env) Define(name string, val Value) {
	e.vars[name] = val
}

// Merge defines every binding of the batch in this frame. On a collision the
// batch wins.
func (e *Env) Merge(b Bindings) {
	for name, val := range b {
		e.vars[name] = val
	}
}

// Find returns the innermost frame that binds name, or nil.
func (e *Env) Find(name string) *Env {
	for f := e; f != nil; f = f.outer {
		if _, ok := f.vars[name]; ok {
			return f
		}
	}
	return nil
}

// Lookup resolves name through the frame chain.
func (e *Env) Lookup(name string) (Value, bool) {
	f := e.Find(name)
	if f == nil {
		return nil, false
	}
	return f.vars[name], true
}

// Set rebinds an existing name in the frame that defines it.
func (e *Env) Set(name string, val Value) error {
	f := e.Find(name)
	if f == nil {
		return Errorf(EvaluationError, "unbound symbol: %s", name)
	}
	f.vars[name] = val
	return nil
}

// Names returns the names bound in this frame, sorted.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
