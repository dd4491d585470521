package join

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sjy-dv/simjoin/pkg/binding"
	"github.com/sjy-dv/simjoin/pkg/distance"
	"github.com/sjy-dv/simjoin/pkg/expr"
)

const ctxCheckEvery = 1024

type candidate struct {
	row    binding.Binding
	point  distance.Point
	prints []uint64
}

// materialize drains it, evaluating attrs against every binding. Input order
// is preserved; a candidate's id is its position.
func materialize(ctx context.Context, it binding.Iterator, attrs []expr.Expr) ([]candidate, error) {
	var out []candidate
	for {
		if len(out)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		ok, err := it.HasNext()
		if err != nil {
			return nil, errors.WithMessage(err, "right input")
		}
		if !ok {
			return out, nil
		}
		row, err := it.Next()
		if err != nil {
			return nil, errors.WithMessage(err, "right input")
		}
		terms, err := expr.EvalAll(attrs, row)
		if err != nil {
			return nil, errors.WithMessagef(err, "right binding %d", len(out)+1)
		}
		out = append(out, candidate{
			row:    row,
			point:  distance.NewPoint(terms),
			prints: row.PrefixFingerprints(),
		})
	}
}

func leftPoint(l binding.Binding, attrs []expr.Expr) (distance.Point, error) {
	terms, err := expr.EvalAll(attrs, l)
	if err != nil {
		return distance.Point{}, err
	}
	return distance.NewPoint(terms), nil
}
