package join

import (
	"context"

	"github.com/sjy-dv/simjoin/pkg/binding"
	"github.com/sjy-dv/simjoin/pkg/distance"
	"github.com/sjy-dv/simjoin/pkg/queue"
	"github.com/sjy-dv/simjoin/pkg/vptree"
)

// KNNSolver pairs every left binding with its nearest right bindings. A
// batch holds k+1 neighbours so that a left binding that also occurs on the
// right still gets k other matches.
type KNNSolver struct {
	base
	tree *vptree.Tree[distance.Point]
}

func (s *KNNSolver) Prepare(ctx context.Context) error {
	return s.prepare(ctx, func(ctx context.Context) error {
		if s.opts.K == 0 || len(s.points) == 0 {
			return nil
		}
		tree, err := vptree.Build(ctx, s.points, s.indexDistance, s.treeOptions())
		if err != nil {
			return err
		}
		s.tree = tree
		return nil
	})
}

func (s *KNNSolver) HasNext() (bool, error) {
	return s.hasNext(s.batch)
}

func (s *KNNSolver) Next() (binding.Binding, error) {
	return s.next(s.batch)
}

func (s *KNNSolver) Close() error {
	s.tree = nil
	return s.base.Close()
}

// batch stages the neighbours of one left binding, nearest first by raw
// distance. The tree ranks in transformed space, where rounding can merge
// raw distances that differ, so every point tied with the (k+1)th tree
// neighbour is fetched too and the lot is re-ranked on the raw metric.
func (s *KNNSolver) batch(l binding.Binding, q distance.Point) error {
	if s.opts.K == 0 || s.tree == nil {
		return nil
	}
	m := s.opts.K + 1
	near, err := s.tree.Nearest(q, m)
	if err != nil {
		return err
	}
	if len(near) == m {
		near, err = s.tree.Within(q, near[m-1].Distance+radiusSlack)
		if err != nil {
			return err
		}
	}
	s.stats.Candidates += len(near)
	best := queue.NewBounded(m)
	for _, n := range near {
		d, err := s.dist.Distance(q, n.Point)
		if err != nil {
			return err
		}
		best.Offer(n.ID, d)
	}

	var leftPrints []uint64
	if s.opts.ExcludeSelf {
		leftPrints = l.PrefixFingerprints()
	}
	kept := 0
	for _, it := range best.Sorted() {
		if s.opts.ExcludeSelf && kept == s.opts.K {
			break
		}
		if s.stage(l, it.ID, it.Distance, leftPrints) {
			kept++
		}
	}
	return nil
}
