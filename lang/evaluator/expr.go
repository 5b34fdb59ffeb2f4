package evaluator

import (
	"fmt"

	"github.com/mna/portugol/lang/ast"
	"github.com/mna/portugol/lang/environment"
	"github.com/mna/portugol/lang/token"
	"github.com/mna/portugol/lang/types"
)

func (e *Evaluator) eval(expr ast.Expr) (types.Value, error) {
	switch expr := expr.(type) {
	case *ast.Literal:
		return literalValue(expr.Value), nil

	case *ast.Variable:
		return e.lookupVariable(expr.NodeID(), expr.Name.Lexeme, expr.Name.Line)

	case *ast.This:
		return e.lookupVariable(expr.NodeID(), "this", expr.Keyword.Line)

	case *ast.Assign:
		v, err := e.eval(expr.Value)
		if err != nil {
			return nil, err
		}
		if hops, ok := e.locals[expr.NodeID()]; ok {
			if err := e.env.AssignAt(hops, expr.Name.Lexeme, v); err != nil {
				return nil, e.runtimeErr(expr.Name.Line, "%s", err)
			}
		} else if err := e.globals.Assign(expr.Name.Lexeme, v); err != nil {
			return nil, e.runtimeErr(expr.Name.Line, "%s", err)
		}
		return v, nil

	case *ast.Unary:
		right, err := e.eval(expr.Right)
		if err != nil {
			return nil, err
		}
		switch expr.Op.Kind {
		case token.MINUS:
			n, ok := right.(types.Number)
			if !ok {
				return nil, e.runtimeErr(expr.Op.Line, "Operando deve ser um número.")
			}
			return -n, nil
		case token.BANG:
			return types.Boolean(!types.IsTruthy(right)), nil
		}
		return nil, e.runtimeErr(expr.Op.Line, "Operador unário desconhecido '%s'.", expr.Op.Lexeme)

	case *ast.Binary:
		return e.evalBinary(expr)

	case *ast.Logical:
		left, err := e.eval(expr.Left)
		if err != nil {
			return nil, err
		}
		if expr.Op.Kind == token.OR {
			if types.IsTruthy(left) {
				return left, nil
			}
		} else { // AND
			if !types.IsTruthy(left) {
				return left, nil
			}
		}
		return e.eval(expr.Right)

	case *ast.Grouping:
		return e.eval(expr.Expression)

	case *ast.Call:
		return e.evalCall(expr)

	case *ast.Get:
		obj, err := e.eval(expr.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*types.Instance)
		if !ok {
			return nil, e.runtimeErr(expr.Name.Line, "Apenas instâncias têm propriedades.")
		}
		v, ok := inst.Get(expr.Name.Lexeme)
		if !ok {
			return nil, e.runtimeErr(expr.Name.Line, "Propriedade indefinida '%s'.", expr.Name.Lexeme)
		}
		if m, ok := v.(*types.Function); ok {
			return m.Bind(inst), nil
		}
		return v, nil

	case *ast.Set:
		obj, err := e.eval(expr.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*types.Instance)
		if !ok {
			return nil, e.runtimeErr(expr.Name.Line, "Apenas instâncias têm campos.")
		}
		v, err := e.eval(expr.Value)
		if err != nil {
			return nil, err
		}
		inst.Set(expr.Name.Lexeme, v)
		return v, nil

	case *ast.Super:
		hops, ok := e.locals[expr.NodeID()]
		if !ok {
			return nil, e.runtimeErr(expr.Keyword.Line, "'super' não resolvido.")
		}
		superVal, err := e.env.GetAt(hops, "super")
		if err != nil {
			return nil, e.runtimeErr(expr.Keyword.Line, "%s", err)
		}
		super := superVal.(*types.Class)
		thisVal, err := e.env.GetAt(hops-1, "this")
		if err != nil {
			return nil, e.runtimeErr(expr.Keyword.Line, "%s", err)
		}
		method := super.FindMethod(expr.Method.Lexeme)
		if method == nil {
			return nil, e.runtimeErr(expr.Method.Line, "Propriedade indefinida '%s'.", expr.Method.Lexeme)
		}
		return method.Bind(thisVal), nil

	case *ast.AnonFunction:
		return e.makeFunction("", expr.Params, expr.Body, false), nil

	default:
		return nil, e.runtimeErr(0, "expressão desconhecida: %T", expr)
	}
}

func literalValue(v interface{}) types.Value {
	switch v := v.(type) {
	case nil:
		return types.Nil
	case bool:
		return types.Boolean(v)
	case float64:
		return types.Number(v)
	case string:
		return types.String(v)
	}
	return types.Nil
}

// lookupVariable resolves name using the locals map (hop count) when
// present, otherwise falls back to a global lookup by name (spec.md §4.5).
func (e *Evaluator) lookupVariable(id ast.ID, name string, line int) (types.Value, error) {
	var v types.Value
	var err error
	if hops, ok := e.locals[id]; ok {
		v, err = e.env.GetAt(hops, name)
	} else {
		v, err = e.globals.Get(name)
	}
	if err != nil {
		return nil, e.runtimeErr(line, "%s", err)
	}
	return v, nil
}

func (e *Evaluator) evalBinary(expr *ast.Binary) (types.Value, error) {
	left, err := e.eval(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Kind {
	case token.PLUS:
		ln, lok := left.(types.Number)
		rn, rok := right.(types.Number)
		if lok && rok {
			return ln + rn, nil
		}
		_, lIsStr := left.(types.String)
		_, rIsStr := right.(types.String)
		if lIsStr || rIsStr {
			return types.String(types.ToString(left) + types.ToString(right)), nil
		}
		return nil, e.runtimeErr(expr.Op.Line, "Operandos devem ser dois números ou conter uma string.")
	case token.MINUS, token.STAR, token.SLASH, token.GT, token.GT_EQ, token.LT, token.LT_EQ:
		ln, lok := left.(types.Number)
		rn, rok := right.(types.Number)
		if !lok || !rok {
			return nil, e.runtimeErr(expr.Op.Line, "Operandos devem ser números.")
		}
		switch expr.Op.Kind {
		case token.MINUS:
			return ln - rn, nil
		case token.STAR:
			return ln * rn, nil
		case token.SLASH:
			return ln / rn, nil // division by zero yields +/-Inf, per IEEE-754
		case token.GT:
			return types.Boolean(ln > rn), nil
		case token.GT_EQ:
			return types.Boolean(ln >= rn), nil
		case token.LT:
			return types.Boolean(ln < rn), nil
		case token.LT_EQ:
			return types.Boolean(ln <= rn), nil
		}
	case token.EQ_EQ:
		return types.Boolean(types.Equal(left, right)), nil
	case token.BANG_EQ:
		return types.Boolean(!types.Equal(left, right)), nil
	}
	return nil, e.runtimeErr(expr.Op.Line, "Operador binário desconhecido '%s'.", expr.Op.Lexeme)
}

func (e *Evaluator) evalCall(expr *ast.Call) (types.Value, error) {
	callee, err := e.eval(expr.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]types.Value, len(expr.Args))
	for i, a := range expr.Args {
		v, err := e.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	callable, ok := callee.(types.Callable)
	if !ok {
		return nil, e.runtimeErr(expr.Paren.Line, "Apenas funções e classes podem ser chamadas.")
	}
	if callable.Arity() != len(args) {
		return nil, e.runtimeErr(expr.Paren.Line, "Esperado %d argumentos mas recebeu %d.", callable.Arity(), len(args))
	}

	switch fn := callable.(type) {
	case *types.Function:
		return e.callFunction(fn, args)
	case *types.Native:
		v, err := fn.Invoke(args)
		if err != nil {
			return nil, e.runtimeErr(expr.Paren.Line, "%s", err)
		}
		return v, nil
	case *types.Class:
		inst := types.NewInstance(fn)
		if init := fn.FindMethod("init"); init != nil {
			if _, err := e.callFunction(init.Bind(inst), args); err != nil {
				return nil, err
			}
		}
		return inst, nil
	default:
		return nil, e.runtimeErr(expr.Paren.Line, "Apenas funções e classes podem ser chamadas.")
	}
}

func (e *Evaluator) callFunction(fn *types.Function, args []types.Value) (types.Value, error) {
	closure, ok := fn.Closure.(*environment.Environment)
	if !ok {
		return nil, fmt.Errorf("closure inválida para função '%s'", fn.Name)
	}
	callEnv := closure.EncloseEnv()
	for i, p := range fn.Params {
		callEnv.Define(p, args[i])
	}

	previousRetorna := e.retorna
	e.retorna = nil
	err := e.executeBlock(fn.Body, callEnv)
	var result types.Value = types.Nil
	if e.retorna != nil {
		result = *e.retorna
	}
	e.retorna = previousRetorna
	if err != nil {
		return nil, err
	}
	if fn.IsInitializer {
		this, _ := closure.Get("this")
		return this, nil
	}
	return result, nil
}
