// Package sampling draws reproducible, collision-free random indices. Index
// construction uses it to pick vantage points and pivots without depending
// on input order.
package sampling

import "math/rand/v2"

// Exhausted is returned by Next once every index has been handed out.
const Exhausted = -1

// Permutation hands out each value of 0..n-1 exactly once, in shuffled
// order.
type Permutation struct {
	vals    []int
	counter int
	rng     *rand.Rand
}

// New returns a permutation of 0..n-1 shuffled by a PCG generator seeded
// with (seed, stream).
func New(n int, seed, stream uint64) *Permutation {
	p := &Permutation{rng: rand.New(rand.NewPCG(seed, stream))}
	p.Init(n)
	return p
}

// NewWithRand uses r for every shuffle.
func NewWithRand(n int, r *rand.Rand) *Permutation {
	p := &Permutation{rng: r}
	p.Init(n)
	return p
}

// Init discards the previous state and reshuffles 0..n-1. Negative n is
// treated as zero.
func (p *Permutation) Init(n int) {
	if n < 0 {
		n = 0
	}
	p.counter = 0
	if cap(p.vals) >= n {
		p.vals = p.vals[:n]
	} else {
		p.vals = make([]int, n)
	}
	for i := range p.vals {
		p.vals[i] = i
	}
	p.rng.Shuffle(n, func(i, j int) {
		p.vals[i], p.vals[j] = p.vals[j], p.vals[i]
	})
}

// Next returns the next index, or Exhausted after n calls.
func (p *Permutation) Next() int {
	if p.counter == len(p.vals) {
		return Exhausted
	}
	v := p.vals[p.counter]
	p.counter++
	return v
}

func (p *Permutation) Size() int {
	return len(p.vals)
}

// Remaining is the number of values Next will still return.
func (p *Permutation) Remaining() int {
	return len(p.vals) - p.counter
}
