package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/portugol/lang/parser"
	"github.com/mna/portugol/lang/resolver"
)

func resolve(t *testing.T, src string) (resolver.Locals, error) {
	t.Helper()
	stmts, err := parser.Parse(src)
	require.NoError(t, err)
	return resolver.Resolve(stmts)
}

func TestResolveBlockLocalHopCount(t *testing.T) {
	locals, err := resolve(t, `var a = 1; { var b = 2; saida a; saida b; }`)
	require.NoError(t, err)
	require.NotEmpty(t, locals)

	// only the block-local "b" gets an entry, at hop 0; the global "a" has none
	require.Len(t, locals, 1)
	for _, hops := range locals {
		require.Equal(t, 0, hops)
	}
}

func TestResolveOwnInitializerError(t *testing.T) {
	_, err := resolve(t, `{ var a = a; }`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "próprio inicializador")
}

func TestResolveReturnAtTopLevelError(t *testing.T) {
	_, err := resolve(t, `retorna 1;`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "'retorna'")
}

func TestResolveThisOutsideMethodError(t *testing.T) {
	_, err := resolve(t, `saida este;`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "'este'")
}

func TestResolveSuperWithoutSuperclassError(t *testing.T) {
	_, err := resolve(t, `classe A { f() { retorna super.f(); } }`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "sem superclasse")
}

func TestResolveSelfInheritanceError(t *testing.T) {
	_, err := resolve(t, `classe A < A { }`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "herdar de si mesma")
}

func TestResolveDuplicateParamError(t *testing.T) {
	_, err := resolve(t, `funcao f(x, x) { retorna x; }`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicado")
}

func TestResolveDuplicateLocalDeclarationError(t *testing.T) {
	_, err := resolve(t, `{ var a = 1; var a = 2; }`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Já existe uma variável")
}

func TestResolveShadowingAtGlobalScopeAllowed(t *testing.T) {
	_, err := resolve(t, `var a = 1; var a = 2;`)
	require.NoError(t, err)
}

func TestResolveInitCannotReturnValue(t *testing.T) {
	_, err := resolve(t, `classe A { init() { retorna 1; } }`)
	require.Error(t, err)
	require.Contains(t, err.Error(), "'init'")
}
