package distance

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/sjy-dv/simjoin/pkg/gomath"
)

// vectorMetric compares a single attribute per side whose value is a vector
// literal such as "[0.1, 0.2, 0.3]". Components are compared as is, without
// normalization.
type vectorMetric struct {
	space space
}

func NewManhattanVec() Metric {
	return &vectorMetric{space: defaultSpace}
}

func (m *vectorMetric) Name() string {
	return ManhattanVec
}

func (m *vectorMetric) String() string {
	return ManhattanVec
}

func (m *vectorMetric) Bind(attrs Attributes) (Distance, error) {
	if len(attrs.Left) != 1 || len(attrs.Right) != 1 {
		return nil, errors.Wrapf(ErrArity, "%s takes one attribute per side, got %d and %d",
			ManhattanVec, len(attrs.Left), len(attrs.Right))
	}
	size := attrs.CacheSize
	if size <= 0 {
		size = defaultLiteralCacheSize
	}
	cache, err := lru.New[string, []float64](size)
	if err != nil {
		return nil, err
	}
	return &vectorDistance{space: m.space, cache: cache}, nil
}

type vectorDistance struct {
	space space
	cache *lru.Cache[string, []float64]
}

func (d *vectorDistance) parse(p Point) ([]float64, error) {
	if p.Len() == 0 {
		return nil, errors.Wrap(ErrBadVectorLiteral, "no attribute value")
	}
	lex := strings.TrimSpace(p.Terms[0].Value)
	if v, ok := d.cache.Get(lex); ok {
		return v, nil
	}
	v, err := ParseVector(lex)
	if err != nil {
		return nil, err
	}
	d.cache.Add(lex, v)
	return v, nil
}

func (d *vectorDistance) Distance(a, b Point) (float64, error) {
	x, err := d.parse(a)
	if err != nil {
		return 0, err
	}
	y, err := d.parse(b)
	if err != nil {
		return 0, err
	}
	if len(x) != len(y) {
		return 0, errors.Wrapf(ErrVectorLength, "%d vs %d", len(x), len(y))
	}
	return d.space.impl.ManhattanDistance(x, y), nil
}

func (d *vectorDistance) Transform(v float64) float64 {
	return gomath.Identity(v)
}

// ParseVector reads the textual form of a vector literal: brackets are
// dropped, components are comma separated and may each be wrapped in double
// quotes.
func ParseVector(s string) ([]float64, error) {
	body := strings.TrimSpace(strings.NewReplacer("[", "", "]", "").Replace(s))
	if body == "" {
		return nil, errors.Wrapf(ErrBadVectorLiteral, "empty vector %q", s)
	}
	parts := strings.Split(body, ",")
	out := make([]float64, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, `"`)
		part = strings.TrimSuffix(part, `"`)
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, errors.Wrapf(ErrBadVectorLiteral, "component %d %q in %q", i, part, s)
		}
		out[i] = f
	}
	return out, nil
}
