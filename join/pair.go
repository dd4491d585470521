package join

import "github.com/sjy-dv/simjoin/pkg/binding"

// Pair is a staged match: a left binding, a right binding and the raw
// distance between their attribute vectors.
type Pair struct {
	Left     binding.Binding
	Right    binding.Binding
	Distance float64
}

// consolidate merges the pair into one output binding. Where both sides bind
// a variable the left value is kept. The distance is bound last as an
// xsd:double, replacing any input value of that variable.
func consolidate(p Pair, distVar binding.Var) binding.Binding {
	out := p.Left.Merge(p.Right)
	if distVar == "" {
		return out
	}
	return out.With(distVar, binding.NewDouble(p.Distance))
}

// pairQueue is a FIFO of staged pairs. The backing array is reused once the
// queue drains.
type pairQueue struct {
	items []Pair
	head  int
}

func (q *pairQueue) Len() int {
	return len(q.items) - q.head
}

func (q *pairQueue) Push(p Pair) {
	q.items = append(q.items, p)
}

func (q *pairQueue) Pop() Pair {
	p := q.items[q.head]
	q.items[q.head] = Pair{}
	q.head++
	if q.head == len(q.items) {
		q.Reset()
	}
	return p
}

func (q *pairQueue) Reset() {
	q.items = q.items[:0]
	q.head = 0
}
