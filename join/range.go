package join

import (
	"context"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/sjy-dv/simjoin/pkg/binding"
	"github.com/sjy-dv/simjoin/pkg/distance"
	"github.com/sjy-dv/simjoin/pkg/pivot"
	"github.com/sjy-dv/simjoin/pkg/vptree"
)

// widens the index search radius so rounding in Transform never loses a
// match; the exact filter runs on raw distances afterwards
const radiusSlack = 1e-9

// RangeSolver pairs every left binding with all right bindings whose
// distance falls in the configured range. Matches are staged in right input
// order whichever candidate mode is used.
type RangeSolver struct {
	base
	mode  CandidateMode
	pivot *pivot.Index[distance.Point]
	tree  *vptree.Tree[distance.Point]
}

func (s *RangeSolver) Prepare(ctx context.Context) error {
	return s.prepare(ctx, func(ctx context.Context) error {
		s.mode = s.opts.Candidates
		if len(s.points) == 0 {
			s.mode = ScanCandidates
			return nil
		}
		switch s.mode {
		case PivotCandidates:
			if s.opts.Pivots <= 0 {
				log.Warn().
					Str("join", s.id.String()).
					Int("pivots", s.opts.Pivots).
					Msg("pivot filtering needs at least one pivot, scanning instead")
				s.mode = ScanCandidates
				return nil
			}
			ix, err := pivot.Build(ctx, s.points, s.indexDistance, pivot.Options{
				Pivots:            s.opts.Pivots,
				Seed:              s.opts.Seed,
				ParallelThreshold: s.opts.ParallelThreshold,
				Routines:          s.opts.Routines,
			})
			if err != nil {
				return err
			}
			s.pivot = ix
		case TreeCandidates:
			tree, err := vptree.Build(ctx, s.points, s.indexDistance, s.treeOptions())
			if err != nil {
				return err
			}
			s.tree = tree
		}
		return nil
	})
}

func (s *RangeSolver) HasNext() (bool, error) {
	return s.hasNext(s.batch)
}

func (s *RangeSolver) Next() (binding.Binding, error) {
	return s.next(s.batch)
}

func (s *RangeSolver) Close() error {
	s.pivot, s.tree = nil, nil
	return s.base.Close()
}

// Mode reports the candidate mode in effect after Prepare.
func (s *RangeSolver) Mode() CandidateMode {
	return s.mode
}

func (s *RangeSolver) candidates(q distance.Point) ([]int, error) {
	radius := s.dist.Transform(s.opts.Range.High) + radiusSlack
	switch s.mode {
	case PivotCandidates:
		bm, err := s.pivot.Candidates(q, radius)
		if err != nil {
			return nil, err
		}
		ids := make([]int, 0, bm.GetCardinality())
		it := bm.Iterator()
		for it.HasNext() {
			ids = append(ids, int(it.Next()))
		}
		return ids, nil
	case TreeCandidates:
		within, err := s.tree.Within(q, radius)
		if err != nil {
			return nil, err
		}
		ids := make([]int, len(within))
		for i, n := range within {
			ids[i] = n.ID
		}
		slices.Sort(ids)
		return ids, nil
	}
	ids := make([]int, len(s.points))
	for i := range ids {
		ids[i] = i
	}
	return ids, nil
}

func (s *RangeSolver) batch(l binding.Binding, q distance.Point) error {
	ids, err := s.candidates(q)
	if err != nil {
		return err
	}
	s.stats.Candidates += len(ids)
	var leftPrints []uint64
	if s.opts.ExcludeSelf {
		leftPrints = l.PrefixFingerprints()
	}
	for _, id := range ids {
		d, err := s.dist.Distance(q, s.points[id])
		if err != nil {
			return err
		}
		if s.opts.Range.Contains(d) {
			s.stage(l, id, d, leftPrints)
		}
	}
	return nil
}
