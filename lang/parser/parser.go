// Package parser implements the recursive-descent parser that transforms a
// token stream into the statement tree defined in package ast.
//
// The overall shape (a parser struct holding a token cursor and an
// accumulating error list, a Parse entry point, synchronize-on-error
// recovery) follows github.com/mna/nenuphar/lang/parser, adapted from
// nenuphar's Starlark-family grammar to the Lox-family grammar described by
// this interpreter.
package parser

import (
	"fmt"

	"github.com/mna/portugol/lang/ast"
	"github.com/mna/portugol/lang/scanner"
	"github.com/mna/portugol/lang/token"
)

const maxParams = 255

// Parse scans and parses src, returning the parsed statement list. The
// error, if non-nil, is guaranteed to be a token.ErrorList whose Error()
// joins every accumulated parse error with a newline (spec.md §7).
func Parse(src string) ([]ast.Stmt, error) {
	toks, err := scanner.New(src).ScanTokens()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	stmts := p.parseProgram()
	return stmts, p.errors.Err()
}

type parser struct {
	toks    []token.Token
	current int
	errors  token.ErrorList
	nextID  ast.ID
}

func (p *parser) newID() ast.ID {
	p.nextID++
	return p.nextID
}

// --- token cursor helpers ---

func (p *parser) peek() token.Token { return p.toks[p.current] }
func (p *parser) previous() token.Token {
	return p.toks[p.current-1]
}
func (p *parser) atEnd() bool { return p.peek().Kind == token.EOF }

func (p *parser) advance() token.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) check(k token.Kind) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Kind == k
}

func (p *parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// parseError is a sentinel used to unwind out of a statement/expression and
// into synchronize() after recording an error.
type parseError struct{}

func (parseError) Error() string { return "parse error" }

func (p *parser) errorAt(tok token.Token, format string, args ...interface{}) parseError {
	p.errors.Add(tok.Line, fmt.Sprintf(format, args...))
	return parseError{}
}

func (p *parser) consume(k token.Kind, format string, args ...interface{}) token.Token {
	if p.check(k) {
		return p.advance()
	}
	panic(p.errorAt(p.peek(), format, args...))
}

// synchronize discards tokens up to the next statement boundary after a
// parse error, so that parsing can continue and accumulate further errors.
func (p *parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Kind == token.SEMICOLON {
			return
		}
		switch p.peek().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

// --- program / declarations ---

func (p *parser) parseProgram() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.atEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func (p *parser) declaration() (s ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				s = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.match(token.VAR):
		return p.varDecl()
	case p.match(token.FUN):
		return p.funDecl("funcao")
	case p.match(token.CLASS):
		return p.classDecl()
	default:
		return p.statement()
	}
}

func (p *parser) varDecl() ast.Stmt {
	name := p.consume(token.IDENT, "Esperado nome da variável.")
	var init ast.Expr
	if p.match(token.EQ) {
		init = p.expression()
	}
	p.consume(token.SEMICOLON, "Esperado ';' após declaração de variável.")
	return &ast.VarStmt{Name: name, Initializer: init}
}

// funDecl parses `funcao name(params){body}` or the shell-command shorthand
// `funcao name recebe "cmd";`.
func (p *parser) funDecl(kind string) ast.Stmt {
	name := p.consume(token.IDENT, "Esperado nome de %s.", kind)

	if p.match(token.RECEIVES) {
		cmd := p.consume(token.STRING, "Esperado comando entre aspas.")
		p.consume(token.SEMICOLON, "Esperado ';' após comando.")
		return &ast.CmdFunctionStmt{Name: name, Command: cmd.Literal.(string)}
	}

	params, body := p.functionBody(kind)
	return &ast.FunctionStmt{Name: name, Params: params, Body: body}
}

func (p *parser) functionBody(kind string) ([]token.Token, []ast.Stmt) {
	p.consume(token.LPAREN, "Esperado '(' após nome de %s.", kind)
	var params []token.Token
	if !p.check(token.RPAREN) {
		for {
			if len(params) >= maxParams {
				p.errorAt(p.peek(), "Não pode ter mais de %d parâmetros.", maxParams)
			}
			params = append(params, p.consume(token.IDENT, "Esperado nome de parâmetro."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RPAREN, "Esperado ')' após parâmetros.")
	p.consume(token.LBRACE, "Esperado '{' antes do corpo de %s.", kind)
	body := p.block()
	return params, body
}

func (p *parser) classDecl() ast.Stmt {
	name := p.consume(token.IDENT, "Esperado nome da classe.")

	var super *ast.Variable
	if p.match(token.LT) {
		superName := p.consume(token.IDENT, "Esperado nome da superclasse.")
		super = &ast.Variable{Base: ast.Base{ID: p.newID()}, Name: superName}
	}

	p.consume(token.LBRACE, "Esperado '{' antes do corpo da classe.")
	var methods []*ast.FunctionStmt
	for !p.check(token.RBRACE) && !p.atEnd() {
		methodName := p.consume(token.IDENT, "Esperado nome do método.")
		params, body := p.functionBody("método")
		methods = append(methods, &ast.FunctionStmt{Name: methodName, Params: params, Body: body})
	}
	p.consume(token.RBRACE, "Esperado '}' após o corpo da classe.")

	return &ast.ClassStmt{Name: name, Superclass: super, Methods: methods}
}

// --- statements ---

func (p *parser) statement() ast.Stmt {
	switch {
	case p.match(token.PRINT):
		return p.printStmt()
	case p.match(token.CLEAR):
		return p.clearStmt()
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.WHILE):
		return p.whileStmt()
	case p.match(token.FOR):
		return p.forStmt()
	case p.match(token.RETURN):
		return p.returnStmt()
	case p.match(token.LBRACE):
		return &ast.BlockStmt{Statements: p.block()}
	default:
		return p.exprStmt()
	}
}

func (p *parser) printStmt() ast.Stmt {
	v := p.expression()
	p.consume(token.SEMICOLON, "Esperado ';' após valor.")
	return &ast.PrintStmt{Expression: v}
}

func (p *parser) clearStmt() ast.Stmt {
	v := p.expression()
	p.consume(token.SEMICOLON, "Esperado ';' após valor.")
	return &ast.ClearStmt{Expression: v}
}

func (p *parser) exprStmt() ast.Stmt {
	v := p.expression()
	p.consume(token.SEMICOLON, "Esperado ';' após expressão.")
	return &ast.ExpressionStmt{Expression: v}
}

func (p *parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.atEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.consume(token.RBRACE, "Esperado '}' após bloco.")
	return stmts
}

func (p *parser) ifStmt() ast.Stmt {
	p.consume(token.LPAREN, "Esperado '(' após 'se'.")
	cond := p.expression()
	p.consume(token.RPAREN, "Esperado ')' após condição.")
	then := p.statement()
	var els ast.Stmt
	if p.match(token.ELSE) {
		els = p.statement()
	}
	return &ast.IfStmt{Condition: cond, Then: then, Else: els}
}

func (p *parser) whileStmt() ast.Stmt {
	p.consume(token.LPAREN, "Esperado '(' após 'enquanto'.")
	cond := p.expression()
	p.consume(token.RPAREN, "Esperado ')' após condição.")
	body := p.statement()
	return &ast.WhileStmt{Condition: cond, Body: body}
}

// forStmt desugars `para (init; cond; incr) body` into
// `{ init; enquanto (cond) { body; incr; } }`.
func (p *parser) forStmt() ast.Stmt {
	p.consume(token.LPAREN, "Esperado '(' após 'para'.")

	var init ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		init = nil
	case p.match(token.VAR):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		cond = p.expression()
	}
	p.consume(token.SEMICOLON, "Esperado ';' após condição do loop.")

	var incr ast.Expr
	if !p.check(token.RPAREN) {
		incr = p.expression()
	}
	p.consume(token.RPAREN, "Esperado ')' após cláusulas do 'para'.")

	body := p.statement()

	if incr != nil {
		body = &ast.BlockStmt{Statements: []ast.Stmt{body, &ast.ExpressionStmt{Expression: incr}}}
	}
	if cond == nil {
		cond = &ast.Literal{Base: ast.Base{ID: p.newID()}, Value: true}
	}
	body = &ast.WhileStmt{Condition: cond, Body: body}
	if init != nil {
		body = &ast.BlockStmt{Statements: []ast.Stmt{init, body}}
	}
	return body
}

func (p *parser) returnStmt() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "Esperado ';' após valor de retorno.")
	return &ast.ReturnStmt{Keyword: keyword, Value: value}
}

// --- expressions ---

func (p *parser) expression() ast.Expr { return p.assignment() }

func (p *parser) assignment() ast.Expr {
	expr := p.pipe()

	if p.match(token.EQ) {
		eq := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Base: ast.Base{ID: p.newID()}, Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Base: ast.Base{ID: p.newID()}, Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errorAt(eq, "Destino inválido.")
			return expr
		}
	}
	return expr
}

// pipe implements `x |> f`, desugared left-associatively into f(x).
func (p *parser) pipe() ast.Expr {
	expr := p.or()
	for p.match(token.PIPE) {
		paren := p.previous()
		fn := p.or()
		expr = &ast.Call{Base: ast.Base{ID: p.newID()}, Callee: fn, Paren: paren, Args: []ast.Expr{expr}}
	}
	return expr
}

func (p *parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.OR) {
		op := p.previous()
		right := p.and()
		expr = &ast.Logical{Base: ast.Base{ID: p.newID()}, Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Logical{Base: ast.Base{ID: p.newID()}, Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BANG_EQ, token.EQ_EQ) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Base: ast.Base{ID: p.newID()}, Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.LT, token.LT_EQ, token.GT, token.GT_EQ) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Base: ast.Base{ID: p.newID()}, Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.PLUS, token.MINUS) {
		op := p.previous()
		right := p.factor()
		expr = &ast.Binary{Base: ast.Base{ID: p.newID()}, Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.STAR, token.SLASH) {
		op := p.previous()
		right := p.unary()
		expr = &ast.Binary{Base: ast.Base{ID: p.newID()}, Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Base: ast.Base{ID: p.newID()}, Op: op, Right: right}
	}
	return p.call()
}

func (p *parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LPAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENT, "Esperado nome de propriedade após '.'.")
			expr = &ast.Get{Base: ast.Base{ID: p.newID()}, Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			if len(args) >= maxParams {
				p.errorAt(p.peek(), "Não pode ter mais de %d argumentos.", maxParams)
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RPAREN, "Esperado ')' após argumentos.")
	return &ast.Call{Base: ast.Base{ID: p.newID()}, Callee: callee, Paren: paren, Args: args}
}

func (p *parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Base: ast.Base{ID: p.newID()}, Value: false}
	case p.match(token.TRUE):
		return &ast.Literal{Base: ast.Base{ID: p.newID()}, Value: true}
	case p.match(token.NIL):
		return &ast.Literal{Base: ast.Base{ID: p.newID()}, Value: nil}
	case p.match(token.NUMBER, token.STRING):
		return &ast.Literal{Base: ast.Base{ID: p.newID()}, Value: p.previous().Literal}
	case p.match(token.SUPER):
		keyword := p.previous()
		p.consume(token.DOT, "Esperado '.' após 'super'.")
		method := p.consume(token.IDENT, "Esperado nome de método da superclasse.")
		return &ast.Super{Base: ast.Base{ID: p.newID()}, Keyword: keyword, Method: method}
	case p.match(token.THIS):
		return &ast.This{Base: ast.Base{ID: p.newID()}, Keyword: p.previous()}
	case p.match(token.IDENT):
		return &ast.Variable{Base: ast.Base{ID: p.newID()}, Name: p.previous()}
	case p.match(token.LPAREN):
		expr := p.expression()
		p.consume(token.RPAREN, "Esperado ')' após expressão.")
		return &ast.Grouping{Base: ast.Base{ID: p.newID()}, Expression: expr}
	case p.match(token.FUN):
		params, body := p.functionBody("função anônima")
		return &ast.AnonFunction{Base: ast.Base{ID: p.newID()}, Params: params, Body: body}
	default:
		panic(p.errorAt(p.peek(), "Esperado expressão."))
	}
}
