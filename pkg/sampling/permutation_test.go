package sampling

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(p *Permutation) []int {
	var out []int
	for v := p.Next(); v != Exhausted; v = p.Next() {
		out = append(out, v)
	}
	return out
}

func TestPermutationCompleteness(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 100, 1000} {
		p := New(n, 42, uint64(n))
		seen := make([]bool, n)
		for i := 0; i < n; i++ {
			v := p.Next()
			require.GreaterOrEqual(t, v, 0)
			require.Less(t, v, n)
			require.False(t, seen[v], "value %d repeated", v)
			seen[v] = true
		}
		assert.Equal(t, Exhausted, p.Next(), "n=%d", n)
		assert.Equal(t, Exhausted, p.Next(), "n=%d", n)
		assert.Equal(t, 0, p.Remaining())
	}
}

func TestPermutationReproducible(t *testing.T) {
	a := drain(New(50, 7, 1))
	b := drain(New(50, 7, 1))
	c := drain(New(50, 8, 1))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestPermutationReinit(t *testing.T) {
	p := New(5, 1, 1)
	p.Next()
	p.Next()
	p.Init(3)
	assert.Equal(t, 3, p.Size())
	assert.Equal(t, 3, p.Remaining())
	got := drain(p)
	slices.Sort(got)
	assert.Equal(t, []int{0, 1, 2}, got)

	p.Init(-4)
	assert.Equal(t, Exhausted, p.Next())
}

func TestPermutationWithRand(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 3))
	got := drain(NewWithRand(10, r))
	slices.Sort(got)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}
