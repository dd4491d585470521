package binding

import "github.com/pkg/errors"

var ErrNoSuchElement = errors.New("iterator has no more bindings")

// Iterator is the pull protocol shared by every operator in the query
// engine. Next may only be called after HasNext reported true.
type Iterator interface {
	HasNext() (bool, error)
	Next() (Binding, error)
	Close() error
}

// SliceIterator serves bindings from memory.
type SliceIterator struct {
	rows   []Binding
	pos    int
	closed bool
}

func NewSliceIterator(rows []Binding) *SliceIterator {
	return &SliceIterator{rows: rows}
}

func (it *SliceIterator) HasNext() (bool, error) {
	if it.closed {
		return false, nil
	}
	return it.pos < len(it.rows), nil
}

func (it *SliceIterator) Next() (Binding, error) {
	if it.closed || it.pos >= len(it.rows) {
		return Binding{}, ErrNoSuchElement
	}
	b := it.rows[it.pos]
	it.pos++
	return b, nil
}

// Pulled reports how many bindings were handed out so far.
func (it *SliceIterator) Pulled() int {
	return it.pos
}

func (it *SliceIterator) Close() error {
	it.closed = true
	it.rows = nil
	return nil
}

// Drain pulls every remaining binding from it. The iterator is not closed.
func Drain(it Iterator) ([]Binding, error) {
	var out []Binding
	for {
		ok, err := it.HasNext()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		b, err := it.Next()
		if err != nil {
			return out, err
		}
		out = append(out, b)
	}
}
