package binding

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermFloat(t *testing.T) {
	f, err := NewDouble(2.5).Float()
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	f, err = NewInteger(-7).Float()
	require.NoError(t, err)
	assert.Equal(t, float64(-7), f)

	f, err = NewTypedLiteral(" 42 ", XSDDecimal).Float()
	require.NoError(t, err)
	assert.Equal(t, float64(42), f)

	_, err = NewLiteral("3").Float()
	assert.True(t, errors.Is(err, ErrNotNumeric))

	_, err = NewIRI("http://example.org/3").Float()
	assert.True(t, errors.Is(err, ErrNotNumeric))

	_, err = NewTypedLiteral("abc", XSDDouble).Float()
	assert.True(t, errors.Is(err, ErrNotNumeric))
}

func TestTermString(t *testing.T) {
	assert.Equal(t, "<http://example.org/a>", NewIRI("http://example.org/a").String())
	assert.Equal(t, `"x"`, NewLiteral("x").String())
	assert.Equal(t, `"1"^^<http://www.w3.org/2001/XMLSchema#integer>`, NewInteger(1).String())
	assert.Equal(t, "_:b0", NewBlank("b0").String())
}

func TestBindingWithKeepsOrder(t *testing.T) {
	b := New().With("x", NewInteger(1)).With("y", NewInteger(2))
	assert.Equal(t, []Var{"x", "y"}, b.Vars())

	b2 := b.With("x", NewInteger(3))
	assert.Equal(t, []Var{"x", "y"}, b2.Vars())
	v, ok := b2.Get("x")
	require.True(t, ok)
	assert.Equal(t, NewInteger(3), v)

	// original untouched
	v, _ = b.Get("x")
	assert.Equal(t, NewInteger(1), v)
}

func TestBindingMerge(t *testing.T) {
	l := Of([]Var{"a", "b"}, []Term{NewInteger(1), NewInteger(2)})
	r := Of([]Var{"b", "c"}, []Term{NewInteger(9), NewInteger(3)})

	m := l.Merge(r)
	assert.Equal(t, []Var{"a", "b", "c"}, m.Vars())
	v, _ := m.Get("b")
	assert.Equal(t, NewInteger(2), v)
}

func TestFingerprintIgnoresVariableNames(t *testing.T) {
	l := Of([]Var{"l1", "l2"}, []Term{NewDouble(1), NewIRI("http://example.org/p")})
	r := Of([]Var{"r1", "r2"}, []Term{NewDouble(1), NewIRI("http://example.org/p")})
	swapped := Of([]Var{"r1", "r2"}, []Term{NewIRI("http://example.org/p"), NewDouble(1)})

	assert.Equal(t, l.PrefixFingerprints(), r.PrefixFingerprints())
	assert.NotEqual(t, l.PrefixFingerprints()[1], swapped.PrefixFingerprints()[1])
	assert.Empty(t, New().PrefixFingerprints())
}

func TestPrefixFingerprintsRunOverLeadingValues(t *testing.T) {
	short := Of([]Var{"a"}, []Term{NewInteger(7)})
	long := Of([]Var{"x", "y"}, []Term{NewInteger(7), NewLiteral("tail")})

	sp, lp := short.PrefixFingerprints(), long.PrefixFingerprints()
	require.Len(t, sp, 1)
	require.Len(t, lp, 2)
	assert.Equal(t, sp[0], lp[0])
	assert.NotEqual(t, lp[0], lp[1])
}

func TestSamePrefix(t *testing.T) {
	l := Of([]Var{"a", "b", "extra"}, []Term{NewInteger(1), NewInteger(2), NewInteger(3)})

	assert.True(t, l.SamePrefix(Of([]Var{"x", "y"}, []Term{NewInteger(1), NewInteger(2)})))
	assert.True(t, Of([]Var{"x"}, []Term{NewInteger(1)}).SamePrefix(l))
	assert.False(t, l.SamePrefix(Of([]Var{"x", "y"}, []Term{NewInteger(1), NewInteger(9)})))
	assert.True(t, l.SamePrefix(New()))
}

func TestSliceIteratorAndDrain(t *testing.T) {
	rows := []Binding{
		New().With("x", NewInteger(1)),
		New().With("x", NewInteger(2)),
	}
	it := NewSliceIterator(rows)

	first, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, rows[0], first)

	rest, err := Drain(it)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
	assert.Equal(t, 2, it.Pulled())

	_, err = it.Next()
	assert.ErrorIs(t, err, ErrNoSuchElement)

	require.NoError(t, it.Close())
	ok, err := it.HasNext()
	require.NoError(t, err)
	assert.False(t, ok)
}
