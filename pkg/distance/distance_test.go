package distance

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/pkg/errors"
	"github.com/sjy-dv/simjoin/pkg/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoAttrs(bounds BoundsMap) Attributes {
	return Attributes{
		Left:   []string{"?x", "?y"},
		Right:  []string{"?u", "?v"},
		Bounds: bounds,
	}
}

func randomPoint(r *rand.Rand, b []Bounds) Point {
	vals := make([]float64, len(b))
	for i, bb := range b {
		vals[i] = bb.Min + r.Float64()*bb.Width()
	}
	return Floats(vals...)
}

func TestRegistryLookupIgnoresCase(t *testing.T) {
	reg := Default()
	for _, id := range []string{Manhattan, Euclidean, ManhattanVec} {
		m, ok := reg.Lookup(id)
		require.True(t, ok, id)
		assert.Equal(t, id, m.Name())
	}
	m, ok := reg.Lookup("HTTP://SJ.DCC.UCHILE.CL/SIM#Euclidean")
	require.True(t, ok)
	assert.Equal(t, Euclidean, m.Name())

	_, err := reg.Resolve(NS + "cosine")
	assert.True(t, errors.Is(err, ErrUnknownMetric))
	assert.Equal(t, []string{Euclidean, Manhattan, ManhattanVec}, reg.Names())
}

func TestRegistryWith(t *testing.T) {
	reg := Default()
	custom := FuncMetric{
		ID: NS + "chebyshev",
		Fn: func(a, b Point) (float64, error) {
			x, _ := a.Floats()
			y, _ := b.Floats()
			var d float64
			for i := range x {
				if diff := x[i] - y[i]; diff > d {
					d = diff
				} else if -diff > d {
					d = -diff
				}
			}
			return d, nil
		},
	}
	extended, err := reg.With(custom)
	require.NoError(t, err)

	_, ok := reg.Lookup(custom.ID)
	assert.False(t, ok, "original registry must not change")

	m, ok := extended.Lookup(NS + "CHEBYSHEV")
	require.True(t, ok)
	dist, err := m.Bind(Attributes{})
	require.NoError(t, err)
	d, err := dist.Distance(Floats(1, 5), Floats(2, 1))
	require.NoError(t, err)
	assert.Equal(t, 4.0, d)
	assert.Equal(t, 9.0, dist.Transform(9))

	_, err = extended.With(NewManhattan())
	assert.True(t, errors.Is(err, ErrDuplicateMetric))
	_, err = NewRegistry(NewEuclidean(), NewEuclidean())
	assert.True(t, errors.Is(err, ErrDuplicateMetric))
}

func TestNormalizedMetrics(t *testing.T) {
	bounds := BoundsMap{"?x": {Min: 0, Max: 4}, "?y": {Min: 10, Max: 20}}

	man, err := NewManhattan().Bind(twoAttrs(bounds))
	require.NoError(t, err)
	d, err := man.Distance(Floats(0, 10), Floats(2, 15))
	require.NoError(t, err)
	assert.InDelta(t, 0.5+0.5, d, 1e-12)
	assert.Equal(t, 3.0, man.Transform(3))

	euc, err := NewEuclidean().Bind(twoAttrs(bounds))
	require.NoError(t, err)
	d, err = euc.Distance(Floats(0, 10), Floats(2, 15))
	require.NoError(t, err)
	// squared, not square-rooted
	assert.InDelta(t, 0.25+0.25, d, 1e-12)
	assert.InDelta(t, 3.0, euc.Transform(9), 1e-12)
}

func TestMetricSymmetry(t *testing.T) {
	bounds := BoundsMap{"?x": {Min: -5, Max: 5}, "?y": {Min: 0, Max: 100}}
	bs := []Bounds{bounds["?x"], bounds["?y"]}
	r := rand.New(rand.NewPCG(11, 12))
	for _, m := range []Metric{NewManhattan(), NewEuclidean()} {
		t.Run(m.Name(), func(t *testing.T) {
			dist, err := m.Bind(twoAttrs(bounds))
			require.NoError(t, err)
			for i := 0; i < 200; i++ {
				a, b := randomPoint(r, bs), randomPoint(r, bs)
				ab, err := dist.Distance(a, b)
				require.NoError(t, err)
				ba, err := dist.Distance(b, a)
				require.NoError(t, err)
				assert.InDelta(t, ab, ba, 1e-12)
				assert.GreaterOrEqual(t, ab, 0.0)
			}
		})
	}
}

func TestNormalizationBoundedness(t *testing.T) {
	bs := []Bounds{{Min: -3, Max: 7}, {Min: 1e3, Max: 1e6}}
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		a, b := randomPoint(r, bs), randomPoint(r, bs)
		x, _ := a.Floats()
		y, _ := b.Floats()
		for j, bb := range bs {
			diff := bb.Normalize(x[j]) - bb.Normalize(y[j])
			assert.GreaterOrEqual(t, diff, -1.0)
			assert.LessOrEqual(t, diff, 1.0)
		}
	}

	bounds := BoundsMap{"?x": bs[0], "?y": bs[1]}
	man, err := NewManhattan().Bind(twoAttrs(bounds))
	require.NoError(t, err)
	d, err := man.Distance(Floats(-3, 1e3), Floats(7, 1e6))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, d, 1e-9)
}

func TestBindConfigurationErrors(t *testing.T) {
	for _, m := range []Metric{NewManhattan(), NewEuclidean()} {
		t.Run(m.Name(), func(t *testing.T) {
			_, err := m.Bind(twoAttrs(BoundsMap{"?x": {Min: 0, Max: 1}}))
			assert.True(t, errors.Is(err, ErrMissingBounds))

			_, err = m.Bind(twoAttrs(BoundsMap{"?x": {Min: 0, Max: 1}, "?y": {Min: 2, Max: 2}}))
			assert.True(t, errors.Is(err, ErrZeroWidthBounds))

			_, err = m.Bind(twoAttrs(BoundsMap{"?x": {Min: 0, Max: 1}, "?y": {Min: 3, Max: 2}}))
			assert.True(t, errors.Is(err, ErrZeroWidthBounds))

			_, err = m.Bind(Attributes{Left: []string{"?x"}, Right: []string{"?u", "?v"}})
			assert.True(t, errors.Is(err, ErrArity))
		})
	}
	_, err := NewManhattanVec().Bind(twoAttrs(nil))
	assert.True(t, errors.Is(err, ErrArity))
}

func TestNormalizedDataErrors(t *testing.T) {
	bounds := BoundsMap{"?x": {Min: 0, Max: 1}, "?y": {Min: 0, Max: 1}}
	man, err := NewManhattan().Bind(twoAttrs(bounds))
	require.NoError(t, err)

	_, err = man.Distance(Floats(0.1), Floats(0.2, 0.3))
	assert.True(t, errors.Is(err, ErrVectorLength))

	text := NewPoint([]binding.Term{binding.NewLiteral("a"), binding.NewDouble(1)})
	_, err = man.Distance(text, Floats(0.2, 0.3))
	assert.True(t, errors.Is(err, binding.ErrNotNumeric))
}

func vecPoint(lex string) Point {
	return NewPoint([]binding.Term{binding.NewLiteral(lex)})
}

func TestManhattanVec(t *testing.T) {
	dist, err := NewManhattanVec().Bind(Attributes{Left: []string{"?e"}, Right: []string{"?f"}, CacheSize: 2})
	require.NoError(t, err)

	d, err := dist.Distance(vecPoint("[1, 2, 3]"), vecPoint(`["1.5", "0", "3"]`))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, d, 1e-12)

	// served from the cache the second time
	d, err = dist.Distance(vecPoint("[1, 2, 3]"), vecPoint(`["1.5", "0", "3"]`))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, d, 1e-12)

	_, err = dist.Distance(vecPoint("[1, 2, 3]"), vecPoint("[1, 2]"))
	assert.True(t, errors.Is(err, ErrVectorLength))

	_, err = dist.Distance(vecPoint("[1, x]"), vecPoint("[1, 2]"))
	assert.True(t, errors.Is(err, ErrBadVectorLiteral))

	_, err = dist.Distance(Point{}, vecPoint("[1, 2]"))
	assert.True(t, errors.Is(err, ErrBadVectorLiteral))
}

func TestParseVector(t *testing.T) {
	v, err := ParseVector(` [ 0.5 ,"1e2", -3 ] `)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 100, -3}, v)

	for _, bad := range []string{"", "[]", "[1,,2]", "[a]"} {
		_, err := ParseVector(bad)
		assert.True(t, errors.Is(err, ErrBadVectorLiteral), bad)
	}
}

func TestKernelsAgree(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for _, dim := range []int{0, 1, 3, 17, 64} {
		t.Run(fmt.Sprintf("dim=%d", dim), func(t *testing.T) {
			a := make([]float64, dim)
			b := make([]float64, dim)
			for i := range a {
				a[i] = r.NormFloat64()
				b[i] = r.NormFloat64()
			}
			native, simd := nativeSpaceImpl{}, vekSpaceImpl{}
			assert.InDelta(t, native.ManhattanDistance(a, b), simd.ManhattanDistance(a, b), 1e-9)
			assert.InDelta(t, native.SquaredEuclideanDistance(a, b), simd.SquaredEuclideanDistance(a, b), 1e-9)
		})
	}
}

func TestBoundsObserve(t *testing.T) {
	m := BoundsMap{}
	for _, x := range []float64{3, -1, 8, 2} {
		m.Observe("?x", x)
	}
	assert.Equal(t, Bounds{Min: -1, Max: 8}, m["?x"])
	assert.Equal(t, 9.0, m["?x"].Width())
	assert.Equal(t, 0.5, Bounds{Min: 0, Max: 4}.Normalize(2))
}
