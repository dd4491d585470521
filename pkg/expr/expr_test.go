package expr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/sjy-dv/simjoin/pkg/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarEval(t *testing.T) {
	b := binding.New().With("x", binding.NewDouble(1.5)).With("s", binding.NewLiteral("a"))

	x := Var("?x")
	assert.Equal(t, "?x", x.String())
	v, ok := AsVar(x)
	require.True(t, ok)
	assert.Equal(t, binding.Var("x"), v)

	f, err := Float(x, b)
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)

	_, err = Float(Var("s"), b)
	assert.True(t, errors.Is(err, binding.ErrNotNumeric))

	_, err = Var("missing").Eval(b)
	assert.True(t, errors.Is(err, ErrUnbound))
}

func TestEvalAll(t *testing.T) {
	b := binding.New().With("a", binding.NewInteger(1)).With("b", binding.NewInteger(2))

	terms, err := EvalAll(Vars("b", "a"), b)
	require.NoError(t, err)
	assert.Equal(t, []binding.Term{binding.NewInteger(2), binding.NewInteger(1)}, terms)

	_, err = EvalAll(Vars("a", "zz"), b)
	assert.True(t, errors.Is(err, ErrUnbound))

	terms, err = EvalAll([]Expr{Const(binding.NewDouble(3))}, b)
	require.NoError(t, err)
	assert.Equal(t, binding.NewDouble(3), terms[0])
	_, isVar := AsVar(Const(binding.NewDouble(3)))
	assert.False(t, isVar)
}
