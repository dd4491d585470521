package binding

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Var is a query variable name without the leading '?'.
type Var string

func (v Var) String() string {
	return "?" + string(v)
}

// Binding maps variables to terms. It is immutable once built and keeps the
// order in which variables were bound.
type Binding struct {
	vars []Var
	vals map[Var]Term
}

func New() Binding {
	return Binding{}
}

// Of builds a binding from vars and terms given pairwise; extra entries of
// the longer slice are ignored.
func Of(vars []Var, terms []Term) Binding {
	b := Binding{}
	for i := 0; i < len(vars) && i < len(terms); i++ {
		b = b.With(vars[i], terms[i])
	}
	return b
}

func (b Binding) Get(v Var) (Term, bool) {
	t, ok := b.vals[v]
	return t, ok
}

func (b Binding) Vars() []Var {
	out := make([]Var, len(b.vars))
	copy(out, b.vars)
	return out
}

func (b Binding) Len() int {
	return len(b.vars)
}

func (b Binding) IsEmpty() bool {
	return len(b.vars) == 0
}

// With returns a copy of b with v bound to t. Rebinding an existing variable
// replaces its value but keeps its position.
func (b Binding) With(v Var, t Term) Binding {
	_, exists := b.vals[v]
	nb := Binding{
		vars: make([]Var, len(b.vars), len(b.vars)+1),
		vals: make(map[Var]Term, len(b.vals)+1),
	}
	copy(nb.vars, b.vars)
	for k, val := range b.vals {
		nb.vals[k] = val
	}
	if !exists {
		nb.vars = append(nb.vars, v)
	}
	nb.vals[v] = t
	return nb
}

// Merge adds the variables of other that b does not bind. Values already
// bound in b win.
func (b Binding) Merge(other Binding) Binding {
	nb := Binding{
		vars: make([]Var, len(b.vars), len(b.vars)+len(other.vars)),
		vals: make(map[Var]Term, len(b.vals)+len(other.vals)),
	}
	copy(nb.vars, b.vars)
	for k, val := range b.vals {
		nb.vals[k] = val
	}
	for _, v := range other.vars {
		if _, ok := nb.vals[v]; ok {
			continue
		}
		nb.vars = append(nb.vars, v)
		nb.vals[v] = other.vals[v]
	}
	return nb
}

// PrefixFingerprints hashes the bound values in variable order and returns
// the running hash after each one: element i covers the first i+1 values.
// Variable names are not hashed, so a left and a right binding carrying the
// same values in the same positions fingerprint equally.
func (b Binding) PrefixFingerprints() []uint64 {
	out := make([]uint64, len(b.vars))
	d := xxhash.New()
	sep := []byte{0}
	for i, v := range b.vars {
		t := b.vals[v]
		d.Write([]byte{byte(t.Kind)})
		d.WriteString(t.Value)
		d.Write(sep)
		d.WriteString(t.Datatype)
		d.Write(sep)
		d.WriteString(t.Lang)
		d.Write(sep)
		out[i] = d.Sum64()
	}
	return out
}

// SamePrefix reports whether b and other bind equal values position by
// position, over the positions both of them have.
func (b Binding) SamePrefix(other Binding) bool {
	n := min(len(b.vars), len(other.vars))
	for i := 0; i < n; i++ {
		if b.vals[b.vars[i]] != other.vals[other.vars[i]] {
			return false
		}
	}
	return true
}

func (b Binding) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range b.vars {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('(')
		sb.WriteString(v.String())
		sb.WriteByte(' ')
		sb.WriteString(b.vals[v].String())
		sb.WriteByte(')')
	}
	sb.WriteByte(')')
	return sb.String()
}
