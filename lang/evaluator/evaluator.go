// Package evaluator implements the tree-walking evaluator: it interprets
// the statement tree produced by the parser (and annotated by the resolver)
// directly, without compiling to bytecode.
//
// The per-interpreter state (a "specials" side-channel for return
// propagation, the current Environment, and an optional Mermaid
// documentation string) is grounded on original_source/src/interpreter.rs's
// Interpreter struct. The statement/expression dispatch itself (a type
// switch per node kind rather than a Visitor double-dispatch) follows the
// idiomatic Go rendition of this Lox family seen across the retrieved
// example interpreters, since github.com/mna/nenuphar's own lang/machine
// compiles to bytecode instead of walking the tree directly.
package evaluator

import (
	"fmt"
	"strings"
	"time"

	"github.com/mna/portugol/internal/shellfn"
	"github.com/mna/portugol/lang/ast"
	"github.com/mna/portugol/lang/environment"
	"github.com/mna/portugol/lang/resolver"
	"github.com/mna/portugol/lang/token"
	"github.com/mna/portugol/lang/types"
)

// Printer receives the bytes a Print/Clear statement writes to standard
// output. Passing one in lets callers (REPL, file runner, tests) capture or
// redirect output without the evaluator depending on os.Stdout directly.
type Printer interface {
	Println(s string)
}

// Recorder observes statement execution for the optional Mermaid flowchart
// document (spec.md §6). A nil Recorder disables the feature entirely.
type Recorder interface {
	Statement(kind string, label string)
	Return()
}

// Evaluator walks a statement tree in source order against a chain of
// Environments.
type Evaluator struct {
	globals *environment.Environment
	env     *environment.Environment
	locals  resolver.Locals
	out     Printer
	rec     Recorder
	banner  string
	shellTO time.Duration

	// retorna is the return side-channel: when non-nil, a "retorna" statement
	// has fired and every containing block/function must unwind immediately,
	// yielding this value to the call machinery. Cleared by the call
	// machinery between invocations (spec.md §4.5/§4.6).
	retorna *types.Value
}

// New creates an Evaluator with an empty global environment. banner is the
// text a "limpar" (clear) statement prints right after the clear-screen
// sequence,
// and shellTimeout bounds how long a CmdFunction subprocess may run.
func New(locals resolver.Locals, out Printer, rec Recorder, banner string, shellTimeout time.Duration) *Evaluator {
	g := environment.New()
	return &Evaluator{globals: g, env: g, locals: locals, out: out, rec: rec, banner: banner, shellTO: shellTimeout}
}

// Globals returns the global environment, so callers can pre-define native
// bindings before running a program.
func (e *Evaluator) Globals() *environment.Environment { return e.globals }

// SetLocals replaces the locals map the evaluator resolves variables
// against. A REPL resolves and evaluates one line at a time against a
// persistent Evaluator, so each line brings its own freshly resolved
// locals map.
func (e *Evaluator) SetLocals(locals resolver.Locals) { e.locals = locals }

// Run interprets stmts in order against the evaluator's current
// environment. It stops and returns the first error encountered (spec.md
// §7: "first error aborts interpretation").
func (e *Evaluator) Run(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := e.execute(s); err != nil {
			return err
		}
		if e.retorna != nil {
			// a return at top level has nowhere to unwind to further; stop.
			return nil
		}
	}
	return nil
}

func (e *Evaluator) execute(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.ExpressionStmt:
		v, err := e.eval(s.Expression)
		if err != nil {
			return err
		}
		e.record("default", v)
		return nil

	case *ast.PrintStmt:
		v, err := e.eval(s.Expression)
		if err != nil {
			return err
		}
		e.out.Println(v.String())
		e.record("print", v)
		return nil

	case *ast.ClearStmt:
		v, err := e.eval(s.Expression)
		if err != nil {
			return err
		}
		text := strings.NewReplacer(`\n`, "\n", `\t`, "\t").Replace(v.String())
		e.out.Println("\x1b[2J\x1b[1;1H")
		e.out.Println(e.banner)
		e.out.Println(text)
		e.record("clear", v)
		return nil

	case *ast.VarStmt:
		var v types.Value = types.Nil
		if s.Initializer != nil {
			var err error
			v, err = e.eval(s.Initializer)
			if err != nil {
				return err
			}
		}
		e.env.Define(s.Name.Lexeme, v)
		e.record("var", v)
		return nil

	case *ast.BlockStmt:
		e.record("block", types.Nil)
		return e.executeBlock(s.Statements, e.env.EncloseEnv())

	case *ast.IfStmt:
		cond, err := e.eval(s.Condition)
		if err != nil {
			return err
		}
		if types.IsTruthy(cond) {
			return e.execute(s.Then)
		} else if s.Else != nil {
			return e.execute(s.Else)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := e.eval(s.Condition)
			if err != nil {
				return err
			}
			if !types.IsTruthy(cond) {
				return nil
			}
			if err := e.execute(s.Body); err != nil {
				return err
			}
			if e.retorna != nil {
				return nil
			}
		}

	case *ast.FunctionStmt:
		fn := e.makeFunction(s.Name.Lexeme, s.Params, s.Body, false)
		e.env.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.CmdFunctionStmt:
		native := e.makeCmdFunction(s.Name.Lexeme, s.Command)
		e.env.Define(s.Name.Lexeme, native)
		return nil

	case *ast.ClassStmt:
		return e.executeClass(s)

	case *ast.ReturnStmt:
		var v types.Value = types.Nil
		if s.Value != nil {
			var err error
			v, err = e.eval(s.Value)
			if err != nil {
				return err
			}
		}
		e.retorna = &v
		if e.rec != nil {
			e.rec.Return()
		}
		return nil

	default:
		return e.runtimeErr(0, "declaração desconhecida: %T", s)
	}
}

func (e *Evaluator) record(kind string, v types.Value) {
	if e.rec != nil {
		e.rec.Statement(kind, v.String())
	}
}

// executeBlock evaluates stmts against env, restoring the prior environment
// on both normal and error exit (spec.md §4.5 Block).
func (e *Evaluator) executeBlock(stmts []ast.Stmt, env *environment.Environment) error {
	previous := e.env
	e.env = env
	defer func() { e.env = previous }()

	for _, s := range stmts {
		if err := e.execute(s); err != nil {
			return err
		}
		if e.retorna != nil {
			return nil
		}
	}
	return nil
}

func (e *Evaluator) makeFunction(name string, params []token.Token, body []ast.Stmt, isInit bool) *types.Function {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Lexeme
	}
	return &types.Function{
		Name:          name,
		Params:        names,
		Body:          body,
		Closure:       e.env,
		IsInitializer: isInit,
	}
}

func (e *Evaluator) makeCmdFunction(name, command string) *types.Native {
	return shellfn.New(name, command, e.shellTO)
}

func (e *Evaluator) executeClass(s *ast.ClassStmt) error {
	var super *types.Class
	if s.Superclass != nil {
		sv, err := e.eval(s.Superclass)
		if err != nil {
			return err
		}
		var ok bool
		super, ok = sv.(*types.Class)
		if !ok {
			return e.runtimeErr(s.Superclass.Name.Line, "A superclasse precisa ser uma classe.")
		}
	}

	// forward-declare so a method body may textually reference the class.
	e.env.Define(s.Name.Lexeme, types.Nil)

	previous := e.env
	e.env = e.env.EncloseEnv()
	if super != nil {
		e.env.Define("super", super)
	}

	methods := make(map[string]*types.Function, len(s.Methods))
	for _, m := range s.Methods {
		fn := e.makeFunction(m.Name.Lexeme, m.Params, m.Body, m.Name.Lexeme == "init")
		methods[m.Name.Lexeme] = fn
	}

	class := &types.Class{Name: s.Name.Lexeme, Methods: methods, Superclass: super}

	e.env = previous
	return e.env.AssignGlobal(s.Name.Lexeme, class)
}

func (e *Evaluator) runtimeErr(line int, format string, args ...interface{}) error {
	return &token.Error{Line: line, Msg: fmt.Sprintf(format, args...)}
}
