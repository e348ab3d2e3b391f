package lox

import "sort"

// Env is the single flat variable table for a run. There are no nested
// scopes: declaring a name again overwrites its binding.
type Env struct {
	values map[string]Value
}

func newEnv() *Env {
	return &Env{values: make(map[string]Value)}
}

func (e *Env) Get(name string) (Value, bool) {
	val, ok := e.values[name]
	return val, ok
}

func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Assign rebinds an existing name and reports whether it was defined. It
// never creates a binding.
func (e *Env) Assign(name string, val Value) bool {
	if _, ok := e.values[name]; !ok {
		return false
	}
	e.values[name] = val
	return true
}

// Names returns the defined names in sorted order.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Env) Len() int {
	return len(e.values)
}

func (e *Env) Reset() {
	clear(e.values)
}
