// Package resolver walks a parsed statement tree and computes the locals
// map: expression id -> lexical hop count, so the evaluator can bypass
// environment-chain name lookup for every already-resolved reference.
//
// The scope-stack bookkeeping (push/pop a map of declared-but-maybe-not-yet-
// defined names, resolve innermost-to-outermost) follows the structure of
// github.com/mna/nenuphar/lang/resolver, generalized from nenuphar's block
// binding model to the simpler Lox-family declare/define/resolve_local
// rules this interpreter needs.
package resolver

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/mna/portugol/lang/ast"
	"github.com/mna/portugol/lang/token"
)

// functionKind distinguishes top-level code from function and method bodies,
// needed to validate "retorna"/"este"/"super" placement.
type functionKind int

const (
	kindNone functionKind = iota
	kindFunction
	kindMethod
	kindInitializer
)

type classKind int

const (
	classNone classKind = iota
	classClass
	classSubclass
)

// binding is the state of a name declared in a scope.
type binding struct {
	defined bool
}

type scope map[string]*binding

// Locals is the resolver's output: expression id -> hop count.
type Locals map[ast.ID]int

// Resolve computes the locals map for stmts. The returned error, if any, is
// a token.ErrorList holding only the first resolution error (per spec.md
// §7); later errors are discarded. The ErrorList type keeps formatting
// uniform with the scanner and parser.
func Resolve(stmts []ast.Stmt) (Locals, error) {
	r := &resolver{locals: make(Locals), fn: kindNone, class: classNone}
	r.resolveStmts(stmts)
	return r.locals, r.errs.Err()
}

type resolver struct {
	scopes []scope
	locals Locals
	errs   token.ErrorList
	fn     functionKind
	class  classKind
}

func (r *resolver) fail(line int, format string, args ...interface{}) {
	if len(r.errs) > 0 {
		return // only the first error is reported
	}
	r.errs.Add(line, fmt.Sprintf(format, args...))
}

func (r *resolver) pushScope() { r.scopes = append(r.scopes, scope{}) }
func (r *resolver) popScope()  { r.scopes = r.scopes[:len(r.scopes)-1] }
func (r *resolver) top() scope {
	if len(r.scopes) == 0 {
		return nil
	}
	return r.scopes[len(r.scopes)-1]
}

func (r *resolver) declare(name token.Token) {
	s := r.top()
	if s == nil {
		return // global scope: no shadowing restriction, no tracking needed
	}
	if _, ok := s[name.Lexeme]; ok {
		r.fail(name.Line, "Já existe uma variável '%s' neste escopo.", name.Lexeme)
	}
	s[name.Lexeme] = &binding{defined: false}
}

func (r *resolver) define(name string) {
	s := r.top()
	if s == nil {
		return
	}
	if b, ok := s[name]; ok {
		b.defined = true
	}
}

func (r *resolver) resolveLocal(id ast.ID, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[id] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any local scope: global
}

func (r *resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *resolver) resolveStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.ExpressionStmt:
		r.resolveExpr(s.Expression)
	case *ast.PrintStmt:
		r.resolveExpr(s.Expression)
	case *ast.ClearStmt:
		r.resolveExpr(s.Expression)
	case *ast.VarStmt:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name.Lexeme)
	case *ast.BlockStmt:
		r.pushScope()
		r.resolveStmts(s.Statements)
		r.popScope()
	case *ast.IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	case *ast.FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name.Lexeme)
		r.resolveFunction(s.Params, s.Body, kindFunction)
	case *ast.CmdFunctionStmt:
		r.declare(s.Name)
		r.define(s.Name.Lexeme)
	case *ast.ClassStmt:
		r.resolveClass(s)
	case *ast.ReturnStmt:
		if r.fn == kindNone {
			r.fail(s.Keyword.Line, "'retorna' só pode ser usado dentro de uma função.")
		}
		if s.Value != nil {
			if r.fn == kindInitializer {
				r.fail(s.Keyword.Line, "Não pode retornar um valor de um 'init'.")
			}
			r.resolveExpr(s.Value)
		}
	default:
		r.fail(0, "declaração desconhecida: %T", s)
	}
}

func (r *resolver) resolveFunction(params []token.Token, body []ast.Stmt, kind functionKind) {
	enclosingFn := r.fn
	r.fn = kind
	r.pushScope()

	var seen []string
	for _, p := range params {
		if slices.Contains(seen, p.Lexeme) {
			r.fail(p.Line, "Parâmetro duplicado '%s'.", p.Lexeme)
		}
		seen = append(seen, p.Lexeme)
		r.declare(p)
		r.define(p.Lexeme)
	}
	r.resolveStmts(body)
	r.popScope()
	r.fn = enclosingFn
}

func (r *resolver) resolveClass(s *ast.ClassStmt) {
	enclosingClass := r.class
	r.class = classClass
	defer func() { r.class = enclosingClass }()

	r.declare(s.Name)
	r.define(s.Name.Lexeme)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.fail(s.Superclass.Name.Line, "Uma classe não pode herdar de si mesma.")
		}
		r.class = classSubclass
		r.resolveExpr(s.Superclass)
		r.pushScope()
		r.top()["super"] = &binding{defined: true}
	}

	r.pushScope()
	r.top()["this"] = &binding{defined: true}

	for _, m := range s.Methods {
		kind := kindMethod
		if m.Name.Lexeme == "init" {
			kind = kindInitializer
		}
		r.resolveFunction(m.Params, m.Body, kind)
	}

	r.popScope()
	if s.Superclass != nil {
		r.popScope()
	}
}

func (r *resolver) resolveExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Literal:
		// nothing to resolve
	case *ast.Variable:
		if s := r.top(); s != nil {
			if b, ok := s[e.Name.Lexeme]; ok && !b.defined {
				r.fail(e.Name.Line, "Não é possível ler a variável local '%s' em seu próprio inicializador.", e.Name.Lexeme)
			}
		}
		r.resolveLocal(e.NodeID(), e.Name.Lexeme)
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e.NodeID(), e.Name.Lexeme)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Grouping:
		r.resolveExpr(e.Expression)
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *ast.Get:
		r.resolveExpr(e.Object)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.This:
		if r.class == classNone {
			r.fail(e.Keyword.Line, "'este' só pode ser usado dentro de um método.")
			return
		}
		r.resolveLocal(e.NodeID(), "this")
	case *ast.Super:
		switch r.class {
		case classNone:
			r.fail(e.Keyword.Line, "'super' só pode ser usado dentro de um método.")
		case classClass:
			r.fail(e.Keyword.Line, "'super' não pode ser usado em uma classe sem superclasse.")
		}
		r.resolveLocal(e.NodeID(), "super")
	case *ast.AnonFunction:
		r.resolveFunction(e.Params, e.Body, kindFunction)
	default:
		r.fail(0, "expressão desconhecida: %T", e)
	}
}
