// Package types defines the runtime value variant the evaluator operates
// on: numbers, strings, booleans, nil, callables, classes and instances.
//
// The value model (one exported type per kind, a shared Value marker, a
// String()/TypeName() pair on every kind) is grounded on
// github.com/mna/nenuphar/lang/types and lang/machine (Nil as a zero-size
// constant type, a Map wrapper over github.com/dolthub/swiss), adapted from
// nenuphar's many Starlark kinds down to the small Lox-family value set this
// interpreter needs.
package types

import (
	"strconv"
)

// Value is any runtime value: Number, String, Boolean, Nil, *Function,
// *Native, *Class or *Instance.
type Value interface {
	// String returns the canonical textual representation of the value, as
	// printed by the "saida"/"limpar" statements.
	String() string
	// TypeName names the value's kind, used in runtime error messages.
	TypeName() string
}

// Number is a 64-bit floating point runtime value.
type Number float64

func (n Number) TypeName() string { return "número" }
func (n Number) String() string {
	f := float64(n)
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// String is an immutable runtime string value.
type String string

func (s String) TypeName() string { return "string" }
func (s String) String() string   { return string(s) }

// Boolean is a runtime true/false value.
type Boolean bool

func (b Boolean) TypeName() string { return "booleano" }
func (b Boolean) String() string {
	if b {
		return "verdadeiro"
	}
	return "falso"
}

// NilType is the type of Nil. It has a single legal value, the Nil
// constant; represented as a defined byte type (rather than an empty
// struct) so that Nil can be a typed constant.
type NilType byte

// Nil is the runtime nil value.
const Nil = NilType(0)

func (NilType) TypeName() string { return "nulo" }
func (NilType) String() string   { return "nulo" }

// IsTruthy implements the language's truthiness rule: Nil and false are
// falsy, everything else (including 0 and "") is truthy.
func IsTruthy(v Value) bool {
	switch v := v.(type) {
	case NilType:
		return false
	case Boolean:
		return bool(v)
	default:
		return true
	}
}

// Equal implements value equality: structural for Number/String/Boolean/Nil,
// identity for Callable/Class/Instance.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Number:
		bn, ok := b.(Number)
		return ok && a == bn
	case String:
		bs, ok := b.(String)
		return ok && a == bs
	case Boolean:
		bb, ok := b.(Boolean)
		return ok && a == bb
	case NilType:
		_, ok := b.(NilType)
		return ok
	default:
		return a == b // pointer identity for *Function, *Native, *Class, *Instance
	}
}

// ToString coerces any value to its canonical string form, used by "+" when
// one operand is a string and the other is not.
func ToString(v Value) string {
	return v.String()
}

// Callable is implemented by every value that can appear as the callee of a
// Call expression: *Function, *Native and *Class (class calls construct an
// instance).
type Callable interface {
	Value
	Arity() int
}

var (
	_ Value = Number(0)
	_ Value = String("")
	_ Value = Boolean(false)
	_ Value = Nil
)
