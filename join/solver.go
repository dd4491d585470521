// Package join evaluates similarity joins. A Solver pairs every binding of
// its left input with the right bindings that satisfy a distance predicate:
// a bounded distance for range joins, or the nearest neighbours for kNN
// joins. The right input is materialized once by Prepare; the left input is
// pulled lazily, one binding per batch.
package join

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sjy-dv/simjoin/pkg/binding"
	"github.com/sjy-dv/simjoin/pkg/distance"
	"github.com/sjy-dv/simjoin/pkg/vptree"
)

// Solver is the pull-based protocol shared by every join strategy. Prepare
// runs once before the first HasNext. Next returns the consolidated binding
// of the oldest staged pair; once HasNext reports false it keeps doing so.
type Solver interface {
	Kind() Kind
	Prepare(ctx context.Context) error
	HasNext() (bool, error)
	Next() (binding.Binding, error)
	Close() error
}

// Stats counts the work a solver has done so far.
type Stats struct {
	LeftPulled int
	Candidates int
	Emitted    int
}

// New validates opts, resolves the metric against reg and returns the
// solver for opts.Kind. A nil registry means distance.Default().
func New(left, right binding.Iterator, reg *distance.Registry, opts Options) (Solver, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = distance.Default()
	}
	metric, err := reg.Resolve(opts.Metric)
	if err != nil {
		return nil, err
	}
	dist, err := metric.Bind(opts.attributes())
	if err != nil {
		return nil, err
	}
	b := base{
		id:     uuid.New(),
		opts:   opts,
		left:   left,
		right:  right,
		metric: metric,
		dist:   dist,
	}
	switch opts.Kind {
	case KindKNN:
		return &KNNSolver{base: b}, nil
	case KindRange:
		return &RangeSolver{base: b}, nil
	}
	return nil, errors.Wrapf(ErrUnknownKind, "%s", opts.Kind)
}

// base holds the state shared by both join strategies: the inputs, the
// bound distance, the materialized right side and the staged result queue.
type base struct {
	id     uuid.UUID
	opts   Options
	left   binding.Iterator
	right  binding.Iterator
	metric distance.Metric
	dist   distance.Distance

	cands  []candidate
	points []distance.Point
	staged pairQueue

	prepared bool
	done     bool
	closed   bool
	err      error
	stats    Stats
}

func (b *base) Kind() Kind {
	return b.opts.Kind
}

func (b *base) Stats() Stats {
	return b.stats
}

// indexDistance measures in the metric's transformed space, where the
// triangle inequality holds.
func (b *base) indexDistance(x, y distance.Point) (float64, error) {
	d, err := b.dist.Distance(x, y)
	if err != nil {
		return 0, err
	}
	return b.dist.Transform(d), nil
}

func (b *base) treeOptions() vptree.Options {
	return vptree.Options{
		Effort: b.opts.Effort,
		Seed:   b.opts.Seed,
	}
}

// prepare materializes the right input and then runs build, once. A failure
// is sticky: the right input may be partly drained, so later calls report
// the same error instead of building from what is left.
func (b *base) prepare(ctx context.Context, build func(ctx context.Context) error) error {
	if b.err != nil {
		return b.err
	}
	if b.closed {
		return ErrClosed
	}
	if b.prepared {
		return nil
	}
	start := time.Now()
	cands, err := materialize(ctx, b.right, b.opts.RightAttrs)
	if err != nil {
		return b.fail(err)
	}
	b.cands = cands
	b.points = make([]distance.Point, len(cands))
	for i, c := range cands {
		b.points[i] = c.point
	}
	if err := build(ctx); err != nil {
		b.cands, b.points = nil, nil
		return b.fail(err)
	}
	b.prepared = true
	log.Debug().
		Str("join", b.id.String()).
		Str("kind", b.opts.Kind.String()).
		Str("metric", b.metric.Name()).
		Int("right", len(cands)).
		Dur("took", time.Since(start)).
		Msg("similarity join prepared")
	return nil
}

// hasNext pulls left bindings into batch until something is staged or the
// left input runs dry. Errors are sticky.
func (b *base) hasNext(batch func(l binding.Binding, q distance.Point) error) (bool, error) {
	if b.err != nil {
		return false, b.err
	}
	if b.closed {
		return false, nil
	}
	if !b.prepared {
		return false, ErrNotPrepared
	}
	for b.staged.Len() == 0 {
		if b.done {
			return false, nil
		}
		ok, err := b.left.HasNext()
		if err != nil {
			return false, b.fail(err)
		}
		if !ok {
			b.done = true
			return false, nil
		}
		l, err := b.left.Next()
		if err != nil {
			return false, b.fail(err)
		}
		b.stats.LeftPulled++
		q, err := leftPoint(l, b.opts.LeftAttrs)
		if err != nil {
			return false, b.fail(errors.WithMessagef(err, "left binding %d", b.stats.LeftPulled))
		}
		if err := batch(l, q); err != nil {
			return false, b.fail(errors.WithMessagef(err, "left binding %d", b.stats.LeftPulled))
		}
	}
	return true, nil
}

func (b *base) next(batch func(l binding.Binding, q distance.Point) error) (binding.Binding, error) {
	ok, err := b.hasNext(batch)
	if err != nil {
		return binding.Binding{}, err
	}
	if !ok {
		return binding.Binding{}, ErrExhausted
	}
	p := b.staged.Pop()
	b.stats.Emitted++
	return consolidate(p, b.opts.DistanceVar), nil
}

func (b *base) fail(err error) error {
	b.err = err
	b.staged.Reset()
	return err
}

// selfMatch reports whether right candidate c at distance d is the left
// binding itself: zero distance and equal values position by position over
// the variables both bindings have. leftPrints are l's prefix fingerprints.
func (b *base) selfMatch(l binding.Binding, leftPrints []uint64, c candidate, d float64) bool {
	if d != 0 {
		return false
	}
	if n := min(len(leftPrints), len(c.prints)); n > 0 && leftPrints[n-1] != c.prints[n-1] {
		return false
	}
	return l.SamePrefix(c.row)
}

// stage queues a pair unless it is a self match that opts exclude.
func (b *base) stage(l binding.Binding, id int, d float64, leftPrints []uint64) bool {
	c := b.cands[id]
	if b.opts.ExcludeSelf && b.selfMatch(l, leftPrints, c, d) {
		return false
	}
	b.staged.Push(Pair{Left: l, Right: c.row, Distance: d})
	return true
}

// Close drops the materialized right side and closes both inputs.
func (b *base) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.cands, b.points = nil, nil
	b.staged.Reset()
	log.Debug().
		Str("join", b.id.String()).
		Int("left_pulled", b.stats.LeftPulled).
		Int("candidates", b.stats.Candidates).
		Int("emitted", b.stats.Emitted).
		Msg("similarity join closed")
	lerr := b.left.Close()
	rerr := b.right.Close()
	if lerr != nil {
		return lerr
	}
	return rerr
}
