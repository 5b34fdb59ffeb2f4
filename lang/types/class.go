package types

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// Class is a runtime class value: a name, its own methods, and an optional
// superclass it inherits from.
type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class // nil if the class has no "< Super" clause
}

func (c *Class) TypeName() string { return "classe" }
func (c *Class) String() string   { return c.Name }

// Arity is the constructor's arity: the arity of its "init" method if one is
// defined (searched up the superclass chain), otherwise 0.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// FindMethod looks up name on c, then recursively on c's superclass chain.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

var _ Callable = (*Class)(nil)

// Instance is a runtime object: a back-reference to its class plus a
// mutable field map. Fields shadow methods of the same name on Get. The
// field table uses the same swiss.Map the teacher module uses for its own
// map value type, since an instance's fields are exactly that: a small,
// frequently-grown string-keyed table.
type Instance struct {
	Class  *Class
	fields *swiss.Map[string, Value]
}

// NewInstance returns an empty instance of class c.
func NewInstance(c *Class) *Instance {
	return &Instance{Class: c, fields: swiss.NewMap[string, Value](uint32(4))}
}

func (i *Instance) TypeName() string { return i.Class.Name }
func (i *Instance) String() string   { return fmt.Sprintf("<%s instância>", i.Class.Name) }

// Get implements the §4.5 Get lookup order: instance fields first, then the
// class's method map (and its superclass chain). Methods are returned
// unbound; callers (the evaluator) must Bind them to the instance.
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.fields.Get(name); ok {
		return v, true
	}
	if m := i.Class.FindMethod(name); m != nil {
		return m, true
	}
	return nil, false
}

// Set assigns a field on the instance, creating it if absent.
func (i *Instance) Set(name string, v Value) {
	i.fields.Put(name, v)
}
