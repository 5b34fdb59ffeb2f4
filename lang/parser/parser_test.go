package parser_test

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/require"

	"github.com/mna/portugol/lang/ast"
	"github.com/mna/portugol/lang/parser"
	"github.com/mna/portugol/lang/token"
)

// stripIDs recursively clears every ast.Base.ID so two trees parsed from
// different (but structurally equal) source text compare equal regardless
// of the monotonically increasing node ids each parse assigns independently.
func stripIDs(stmts []ast.Stmt) {
	for _, s := range stmts {
		stripStmtIDs(s)
	}
}

func stripStmtIDs(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.ExpressionStmt:
		stripExprIDs(s.Expression)
	case *ast.PrintStmt:
		stripExprIDs(s.Expression)
	case *ast.ClearStmt:
		stripExprIDs(s.Expression)
	case *ast.VarStmt:
		if s.Initializer != nil {
			stripExprIDs(s.Initializer)
		}
	case *ast.BlockStmt:
		stripIDs(s.Statements)
	case *ast.IfStmt:
		stripExprIDs(s.Condition)
		stripStmtIDs(s.Then)
		if s.Else != nil {
			stripStmtIDs(s.Else)
		}
	case *ast.WhileStmt:
		stripExprIDs(s.Condition)
		stripStmtIDs(s.Body)
	case *ast.FunctionStmt:
		stripIDs(s.Body)
	case *ast.ClassStmt:
		if s.Superclass != nil {
			s.Superclass.Base.ID = 0
		}
		for _, m := range s.Methods {
			stripIDs(m.Body)
		}
	case *ast.ReturnStmt:
		if s.Value != nil {
			stripExprIDs(s.Value)
		}
	}
}

func stripExprIDs(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Literal:
		e.Base.ID = 0
	case *ast.Variable:
		e.Base.ID = 0
	case *ast.Assign:
		e.Base.ID = 0
		stripExprIDs(e.Value)
	case *ast.Unary:
		e.Base.ID = 0
		stripExprIDs(e.Right)
	case *ast.Binary:
		e.Base.ID = 0
		stripExprIDs(e.Left)
		stripExprIDs(e.Right)
	case *ast.Logical:
		e.Base.ID = 0
		stripExprIDs(e.Left)
		stripExprIDs(e.Right)
	case *ast.Grouping:
		e.Base.ID = 0
		stripExprIDs(e.Expression)
	case *ast.Call:
		e.Base.ID = 0
		stripExprIDs(e.Callee)
		for _, a := range e.Args {
			stripExprIDs(a)
		}
	case *ast.Get:
		e.Base.ID = 0
		stripExprIDs(e.Object)
	case *ast.Set:
		e.Base.ID = 0
		stripExprIDs(e.Object)
		stripExprIDs(e.Value)
	case *ast.This:
		e.Base.ID = 0
	case *ast.Super:
		e.Base.ID = 0
	case *ast.AnonFunction:
		e.Base.ID = 0
		stripIDs(e.Body)
	}
}

// TestParseIdempotence implements spec.md §8's invariant: pretty-printing
// the parsed AST and re-parsing yields a structurally equal AST.
func TestParseIdempotence(t *testing.T) {
	sources := []string{
		`var a = 1 + 2; saida a;`,
		`funcao soma(x, y) { retorna x + y; } saida soma(1, 2);`,
		`classe A { oi() { saida "oi"; } } classe B < A { } B().oi();`,
		`para (var i = 0; i < 3; i = i + 1) saida i;`,
		`se (verdadeiro) { saida 1; } senao { saida 2; }`,
	}

	for _, src := range sources {
		src := src
		t.Run(src, func(t *testing.T) {
			first, err := parser.Parse(src)
			require.NoError(t, err)

			printed := ast.Print(first)
			second, err := parser.Parse(printed)
			require.NoError(t, err)

			stripIDs(first)
			stripIDs(second)

			if diff := pretty.Compare(first, second); diff != "" {
				t.Errorf("re-parsed AST differs from original (printed as %q):\n%s", printed, diff)
			}
		})
	}
}

func TestParseAssignmentTargetError(t *testing.T) {
	_, err := parser.Parse(`1 + 1 = 2;`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Destino inválido.")
}

func TestParseAccumulatesErrors(t *testing.T) {
	_, err := parser.Parse(`var ; var ;`)
	require.Error(t, err)

	// one error per malformed declaration, collected after synchronizing
	var errs token.ErrorList
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 2)
}

func TestParseCmdFunctionShorthand(t *testing.T) {
	stmts, err := parser.Parse(`funcao ls recebe "ls -la";`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	cmd, ok := stmts[0].(*ast.CmdFunctionStmt)
	require.True(t, ok)
	require.Equal(t, "ls -la", cmd.Command)
}
