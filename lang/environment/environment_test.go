package environment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/portugol/lang/environment"
	"github.com/mna/portugol/lang/types"
)

func TestDefineAndGet(t *testing.T) {
	env := environment.New()
	env.Define("a", types.Number(1))
	v, err := env.Get("a")
	require.NoError(t, err)
	require.Equal(t, types.Number(1), v)
}

func TestGetUndefinedErrors(t *testing.T) {
	env := environment.New()
	_, err := env.Get("nope")
	require.Error(t, err)
}

func TestEncloseAscendsToParent(t *testing.T) {
	parent := environment.New()
	parent.Define("a", types.Number(1))
	child := parent.EncloseEnv()

	v, err := child.Get("a")
	require.NoError(t, err)
	require.Equal(t, types.Number(1), v)
}

func TestAssignWalksChainToDefiningScope(t *testing.T) {
	parent := environment.New()
	parent.Define("a", types.Number(1))
	child := parent.EncloseEnv()

	require.NoError(t, child.Assign("a", types.Number(2)))
	v, err := parent.Get("a")
	require.NoError(t, err)
	require.Equal(t, types.Number(2), v)
}

func TestAssignUndefinedErrors(t *testing.T) {
	env := environment.New()
	require.Error(t, env.Assign("nope", types.Number(1)))
}

func TestGetAtAndAssignAt(t *testing.T) {
	root := environment.New()
	mid := root.EncloseEnv()
	leaf := mid.EncloseEnv()
	mid.Define("x", types.Number(10))

	v, err := leaf.GetAt(1, "x")
	require.NoError(t, err)
	require.Equal(t, types.Number(10), v)

	require.NoError(t, leaf.AssignAt(1, "x", types.Number(20)))
	v, err = mid.Get("x")
	require.NoError(t, err)
	require.Equal(t, types.Number(20), v)
}

func TestAssignGlobalReachesOutermostScope(t *testing.T) {
	root := environment.New()
	child := root.EncloseEnv()
	grandchild := child.EncloseEnv()

	require.NoError(t, grandchild.AssignGlobal("g", types.String("hi")))
	v, err := root.Get("g")
	require.NoError(t, err)
	require.Equal(t, types.String("hi"), v)

	_, err = child.GetAt(0, "g")
	require.Error(t, err, "assign_global must not define the binding in an intermediate scope")
}
