// Package environment implements the lexical scope chain the evaluator
// reads and writes bindings through.
//
// Scopes are shared, reference-counted-by-the-garbage-collector nodes with
// a parent pointer, following the Environment described in
// original_source/src/interpreter.rs (enclose() returns a fresh child scope;
// a captured Environment handle keeps observing mutations to any scope in
// its chain, which is exactly Go's normal pointer-sharing semantics — no
// explicit reference counting is needed, unlike the Rc<RefCell<_>> the
// original Rust implementation used). The bindings table itself reuses
// github.com/dolthub/swiss, the same map implementation
// github.com/mna/nenuphar/lang/machine uses for its Map value type.
package environment

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/mna/portugol/lang/types"
)

// Environment is one scope in the lexical chain: a table of name->value
// bindings plus an optional enclosing scope.
type Environment struct {
	values    *swiss.Map[string, types.Value]
	enclosing *Environment
}

// New returns a fresh top-level (global) environment.
func New() *Environment {
	return &Environment{values: swiss.NewMap[string, types.Value](uint32(8))}
}

// Enclose returns a new scope whose parent is e. It implements
// types.Env so *Function can capture an Environment without this package
// importing lang/types in a cycle-inducing direction (types imports nothing
// from environment; environment imports types for Value).
func (e *Environment) Enclose() types.Env {
	return &Environment{values: swiss.NewMap[string, types.Value](uint32(4)), enclosing: e}
}

// EncloseEnv is Enclose but statically typed as *Environment, for callers in
// lang/evaluator that need the concrete type back (e.g. to pass to
// ExecuteBlock).
func (e *Environment) EncloseEnv() *Environment {
	return e.Enclose().(*Environment)
}

// Define installs name unconditionally in e's own scope. Calling Define
// again for the same name in the same scope silently replaces the binding,
// matching the source behavior for redeclared globals.
func (e *Environment) Define(name string, v types.Value) {
	e.values.Put(name, v)
}

// Get looks up name, ascending the enclosing chain.
func (e *Environment) Get(name string) (types.Value, error) {
	for s := e; s != nil; s = s.enclosing {
		if v, ok := s.values.Get(name); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("variável indefinida '%s'", name)
}

// GetAt looks up name exactly hops scopes outward from e. The resolver
// guarantees the binding is present; a miss indicates a resolver/evaluator
// inconsistency.
func (e *Environment) GetAt(hops int, name string) (types.Value, error) {
	s := e.ancestor(hops)
	v, ok := s.values.Get(name)
	if !ok {
		return nil, fmt.Errorf("variável indefinida '%s'", name)
	}
	return v, nil
}

// Assign walks the chain and assigns name in the first scope that already
// contains it.
func (e *Environment) Assign(name string, v types.Value) error {
	for s := e; s != nil; s = s.enclosing {
		if _, ok := s.values.Get(name); ok {
			s.values.Put(name, v)
			return nil
		}
	}
	return fmt.Errorf("variável indefinida '%s'", name)
}

// AssignAt assigns name exactly hops scopes outward from e.
func (e *Environment) AssignAt(hops int, name string, v types.Value) error {
	s := e.ancestor(hops)
	if _, ok := s.values.Get(name); !ok {
		return fmt.Errorf("variável indefinida '%s'", name)
	}
	s.values.Put(name, v)
	return nil
}

// AssignGlobal assigns name in the outermost scope of the chain, creating
// the binding there if that scope does not hold it yet. Intermediate scopes
// are never touched.
func (e *Environment) AssignGlobal(name string, v types.Value) error {
	s := e
	for s.enclosing != nil {
		s = s.enclosing
	}
	s.values.Put(name, v)
	return nil
}

func (e *Environment) ancestor(hops int) *Environment {
	s := e
	for i := 0; i < hops; i++ {
		s = s.enclosing
	}
	return s
}

var _ types.Env = (*Environment)(nil)
