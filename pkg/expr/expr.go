// Package expr holds the attribute expressions a similarity join evaluates
// against each binding. Full expression evaluation belongs to the query
// engine; anything implementing Expr can be plugged in.
package expr

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sjy-dv/simjoin/pkg/binding"
)

var ErrUnbound = errors.New("variable is not bound")

type Expr interface {
	Eval(b binding.Binding) (binding.Term, error)
	// String is the expression's canonical form, used as the bounds map key.
	String() string
}

type varExpr struct {
	v binding.Var
}

// Var returns the expression that reads variable name. A leading '?' is
// accepted and dropped.
func Var(name string) Expr {
	return varExpr{v: binding.Var(strings.TrimPrefix(name, "?"))}
}

// Vars is Var over a list of names.
func Vars(names ...string) []Expr {
	out := make([]Expr, len(names))
	for i, n := range names {
		out[i] = Var(n)
	}
	return out
}

func (e varExpr) Eval(b binding.Binding) (binding.Term, error) {
	t, ok := b.Get(e.v)
	if !ok {
		return binding.Term{}, errors.Wrapf(ErrUnbound, "%s", e.v)
	}
	return t, nil
}

func (e varExpr) String() string {
	return e.v.String()
}

// AsVar reports the variable behind e when e is a plain variable reference.
func AsVar(e Expr) (binding.Var, bool) {
	ve, ok := e.(varExpr)
	return ve.v, ok
}

// Const always evaluates to t.
func Const(t binding.Term) Expr {
	return constExpr{t: t}
}

type constExpr struct {
	t binding.Term
}

func (e constExpr) Eval(binding.Binding) (binding.Term, error) {
	return e.t, nil
}

func (e constExpr) String() string {
	return e.t.String()
}

// Float evaluates e and converts the result to a number.
func Float(e Expr, b binding.Binding) (float64, error) {
	t, err := e.Eval(b)
	if err != nil {
		return 0, err
	}
	f, err := t.Float()
	if err != nil {
		return 0, errors.Wrapf(err, "evaluating %s", e)
	}
	return f, nil
}

// EvalAll evaluates every expression against b, in order.
func EvalAll(exprs []Expr, b binding.Binding) ([]binding.Term, error) {
	out := make([]binding.Term, len(exprs))
	for i, e := range exprs {
		t, err := e.Eval(b)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
