package types

import (
	"fmt"

	"github.com/mna/portugol/lang/ast"
)

// Env is the narrow interface the types package needs from
// lang/environment.Environment, avoiding an import cycle between the two
// packages (environment.Environment stores types.Value, and a *Function
// must carry its own captured *environment.Environment).
type Env interface {
	Enclose() Env
	Define(name string, v Value)
}

// Function is a user-defined function or method: a name, its parameter
// list, its body statements and the environment captured at definition
// time (its closure).
type Function struct {
	Name          string
	Params        []string
	Body          []ast.Stmt
	Closure       Env
	IsInitializer bool
}

func (f *Function) TypeName() string { return "função" }
func (f *Function) String() string   { return fmt.Sprintf("<fn %s>", f.Name) }
func (f *Function) Arity() int       { return len(f.Params) }

// Bind returns a copy of f whose closure is enclosed by a scope binding
// "this" to instance, so that a method value read off two different
// instances (`m := a.foo; n := b.foo`) observes the correct receiver
// without mutating the method's own closure.
func (f *Function) Bind(this Value) *Function {
	env := f.Closure.Enclose()
	env.Define("this", this)
	return &Function{
		Name:          f.Name,
		Params:        f.Params,
		Body:          f.Body,
		Closure:       env,
		IsInitializer: f.IsInitializer,
	}
}

// NativeFn is the signature of a native (Go-implemented) function body.
type NativeFn func(args []Value) (Value, error)

// Native is a native function value, e.g. the shell-command callable built
// for a CmdFunction declaration.
type Native struct {
	Name    string
	NumArgs int
	Invoke  NativeFn
}

func (n *Native) TypeName() string { return "função nativa" }
func (n *Native) String() string   { return fmt.Sprintf("<fn %s>", n.Name) }
func (n *Native) Arity() int       { return n.NumArgs }

var (
	_ Callable = (*Function)(nil)
	_ Callable = (*Native)(nil)
)
