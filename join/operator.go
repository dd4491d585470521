package join

import (
	"context"

	"github.com/sjy-dv/simjoin/pkg/binding"
)

// Operator adapts a Solver to binding.Iterator. The solver is prepared on
// the first pull, so an operator can be built before its inputs are ready
// and nested as the input of another join.
type Operator struct {
	ctx      context.Context
	solver   Solver
	prepared bool
	err      error
}

func NewOperator(ctx context.Context, s Solver) *Operator {
	return &Operator{ctx: ctx, solver: s}
}

func (o *Operator) Solver() Solver {
	return o.solver
}

func (o *Operator) ensurePrepared() error {
	if o.err != nil || o.prepared {
		return o.err
	}
	if err := o.solver.Prepare(o.ctx); err != nil {
		o.err = &PrepareError{Err: err}
		return o.err
	}
	o.prepared = true
	return nil
}

func (o *Operator) HasNext() (bool, error) {
	if err := o.ensurePrepared(); err != nil {
		return false, err
	}
	return o.solver.HasNext()
}

func (o *Operator) Next() (binding.Binding, error) {
	if err := o.ensurePrepared(); err != nil {
		return binding.Binding{}, err
	}
	return o.solver.Next()
}

func (o *Operator) Close() error {
	return o.solver.Close()
}

// Run prepares s and drains it into a slice, closing it afterwards.
func Run(ctx context.Context, s Solver) ([]binding.Binding, error) {
	op := NewOperator(ctx, s)
	rows, err := binding.Drain(op)
	if cerr := op.Close(); err == nil {
		err = cerr
	}
	return rows, err
}
