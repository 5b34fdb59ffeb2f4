// Package ast defines the statement and expression tree produced by the
// parser. Layout (expr/stmt node structs as exported types, a shared ID
// field on every expression, assigned by the parser) follows
// github.com/mna/nenuphar/lang/ast, adapted from nenuphar's Starlark-derived
// grammar to the Lox-family grammar described by this interpreter.
package ast

import "github.com/mna/portugol/lang/token"

// ID is the unique identity assigned to every expression node by the parser.
// The resolver and evaluator use it as the key into the locals map.
type ID uint64

// Expr is any expression node. Every Expr has a unique ID used by the
// resolver to record its lexical scope distance.
type Expr interface {
	exprNode()
	NodeID() ID
}

// Stmt is any statement node.
type Stmt interface {
	stmtNode()
}

// Base carries the identity shared by all expression nodes.
type Base struct {
	ID ID
}

func (b Base) NodeID() ID { return b.ID }

// Expressions.
type (
	// Literal is a literal number, string, boolean or nil value.
	Literal struct {
		Base
		Value interface{} // float64 | string | bool | nil
	}

	// Variable is a reference to a named binding.
	Variable struct {
		Base
		Name token.Token
	}

	// Assign assigns Value to the variable Name.
	Assign struct {
		Base
		Name  token.Token
		Value Expr
	}

	// Unary is a prefix unary operation.
	Unary struct {
		Base
		Op    token.Token
		Right Expr
	}

	// Binary is an infix binary operation.
	Binary struct {
		Base
		Left  Expr
		Op    token.Token
		Right Expr
	}

	// Logical is "e" (and) / "ou" (or), which short-circuit.
	Logical struct {
		Base
		Left  Expr
		Op    token.Token
		Right Expr
	}

	// Grouping is a parenthesized expression.
	Grouping struct {
		Base
		Expression Expr
	}

	// Call is a function/method/class call.
	Call struct {
		Base
		Callee Expr
		Paren  token.Token // closing paren, for error line reporting
		Args   []Expr
	}

	// Get reads a property (field or method) off an instance.
	Get struct {
		Base
		Object Expr
		Name   token.Token
	}

	// Set assigns a property on an instance.
	Set struct {
		Base
		Object Expr
		Name   token.Token
		Value  Expr
	}

	// This is the "este" keyword expression.
	This struct {
		Base
		Keyword token.Token
	}

	// Super is a "super.method" expression.
	Super struct {
		Base
		Keyword token.Token
		Method  token.Token
	}

	// AnonFunction is a nameless function literal.
	AnonFunction struct {
		Base
		Params []token.Token
		Body   []Stmt
	}
)

func (*Literal) exprNode()      {}
func (*Variable) exprNode()     {}
func (*Assign) exprNode()       {}
func (*Unary) exprNode()        {}
func (*Binary) exprNode()       {}
func (*Logical) exprNode()      {}
func (*Grouping) exprNode()     {}
func (*Call) exprNode()         {}
func (*Get) exprNode()          {}
func (*Set) exprNode()          {}
func (*This) exprNode()         {}
func (*Super) exprNode()        {}
func (*AnonFunction) exprNode() {}
