package distance

import "github.com/sjy-dv/simjoin/pkg/binding"

// Point is an attribute vector: one term per join attribute, in attribute
// order. Numeric values are parsed once when the point is built.
type Point struct {
	Terms  []binding.Term
	nums   []float64
	numErr error
}

func NewPoint(terms []binding.Term) Point {
	p := Point{Terms: terms, nums: make([]float64, len(terms))}
	for i, t := range terms {
		f, err := t.Float()
		if err != nil {
			p.numErr = err
			p.nums = nil
			break
		}
		p.nums[i] = f
	}
	return p
}

// Floats builds a numeric point directly.
func Floats(values ...float64) Point {
	terms := make([]binding.Term, len(values))
	for i, v := range values {
		terms[i] = binding.NewDouble(v)
	}
	nums := make([]float64, len(values))
	copy(nums, values)
	return Point{Terms: terms, nums: nums}
}

func (p Point) Len() int {
	return len(p.Terms)
}

// Floats returns the numeric values, or the error met converting the first
// non-numeric term.
func (p Point) Floats() ([]float64, error) {
	if p.numErr != nil {
		return nil, p.numErr
	}
	return p.nums, nil
}
