package distance

import (
	"github.com/pkg/errors"
)

// Bounds is the declared or observed value range of one attribute.
type Bounds struct {
	Min float64 `msgpack:"min"`
	Max float64 `msgpack:"max"`
}

func (b Bounds) Width() float64 {
	return b.Max - b.Min
}

// Normalize maps x to [0, 1] when x lies within the bounds.
func (b Bounds) Normalize(x float64) float64 {
	return (x - b.Min) / b.Width()
}

// BoundsMap is keyed by the attribute expression's canonical string.
type BoundsMap map[string]Bounds

// Observe widens the bounds of key so that they include x.
func (m BoundsMap) Observe(key string, x float64) {
	b, ok := m[key]
	if !ok {
		m[key] = Bounds{Min: x, Max: x}
		return
	}
	if x < b.Min {
		b.Min = x
	}
	if x > b.Max {
		b.Max = x
	}
	m[key] = b
}

// resolve looks up bounds for every key and rejects missing or degenerate
// entries.
func (m BoundsMap) resolve(keys []string) ([]Bounds, error) {
	out := make([]Bounds, len(keys))
	for i, k := range keys {
		b, ok := m[k]
		if !ok {
			return nil, errors.Wrapf(ErrMissingBounds, "%s", k)
		}
		if !(b.Width() > 0) {
			return nil, errors.Wrapf(ErrZeroWidthBounds, "%s: [%v, %v]", k, b.Min, b.Max)
		}
		out[i] = b
	}
	return out, nil
}
