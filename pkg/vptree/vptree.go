// Package vptree adapts gonum's vantage-point tree to points of any type and
// to distance functions that can fail. Queries prune subtrees with the
// triangle inequality, so the distance function must be a metric.
package vptree

import (
	"cmp"
	"context"
	"math/rand/v2"
	"slices"

	"github.com/pkg/errors"
	gvp "gonum.org/v1/gonum/spatial/vptree"
)

const (
	defaultEffort = 5
	// added to the distance between distinct points so that a vantage
	// point is the only point at distance zero from itself when it is
	// partitioned; a constant shift keeps the triangle inequality
	separation = 1e-12
	// absorbs rounding when the tree prunes in shifted space
	radiusSlack = 1e-9
)

// DistanceFunc is called from a single goroutine at a time.
type DistanceFunc[P any] func(a, b P) (float64, error)

type Options struct {
	// Effort is the number of sampled candidates compared when choosing
	// each vantage point. One or less picks vantage points at random.
	Effort int
	Seed   uint64
}

type Neighbor[P any] struct {
	ID       int
	Point    P
	Distance float64
}

// recorder keeps the first distance error of an operation, since gonum's
// Comparable has no error return.
type recorder[P any] struct {
	dist DistanceFunc[P]
	err  error
}

func (r *recorder[P]) take() error {
	err := r.err
	r.err = nil
	return err
}

type point[P any] struct {
	id  int
	p   P
	rec *recorder[P]
}

func (a point[P]) Distance(c gvp.Comparable) float64 {
	b := c.(point[P])
	if a.id == b.id {
		return 0
	}
	d, err := a.rec.dist(a.p, b.p)
	if err != nil {
		if a.rec.err == nil {
			a.rec.err = err
		}
		return 0
	}
	return d + separation
}

type Tree[P any] struct {
	points []P
	rec    *recorder[P]
	tree   *gvp.Tree
}

// Build indexes points. Point ids are their positions in points.
func Build[P any](ctx context.Context, points []P, dist DistanceFunc[P], opts Options) (*Tree[P], error) {
	if dist == nil {
		return nil, errors.New("vptree: nil distance function")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t := &Tree[P]{points: points, rec: &recorder[P]{dist: dist}}
	if len(points) == 0 {
		return t, nil
	}
	if opts.Effort == 0 {
		opts.Effort = defaultEffort
	}
	cs := make([]gvp.Comparable, len(points))
	for i, p := range points {
		cs[i] = point[P]{id: i, p: p, rec: t.rec}
	}
	tree, err := gvp.New(cs, opts.Effort, rand.NewPCG(opts.Seed, uint64(len(points))))
	if err := t.rec.take(); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, "vptree")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.tree = tree
	return t, nil
}

func (t *Tree[P]) Len() int {
	return len(t.points)
}

// Nearest returns up to m points closest to q, nearest first, equal
// distances ordered by id. Which of several points tied at the m-th
// distance are returned is unspecified.
func (t *Tree[P]) Nearest(q P, m int) ([]Neighbor[P], error) {
	if m <= 0 || t.tree == nil {
		return nil, nil
	}
	k := gvp.NewNKeeper(m)
	t.tree.NearestSet(k, point[P]{id: -1, p: q, rec: t.rec})
	return t.collect(q, k.Heap, -1)
}

// Within returns every point whose distance to q is at most r, ordered by
// distance then id.
func (t *Tree[P]) Within(q P, r float64) ([]Neighbor[P], error) {
	if r < 0 || t.tree == nil {
		return nil, nil
	}
	k := gvp.NewDistKeeper(r + separation + radiusSlack)
	t.tree.NearestSet(k, point[P]{id: -1, p: q, rec: t.rec})
	return t.collect(q, k.Heap, r)
}

// collect recomputes the unshifted distance of every kept point and drops
// those beyond limit, unless limit is negative.
func (t *Tree[P]) collect(q P, h gvp.Heap, limit float64) ([]Neighbor[P], error) {
	if err := t.rec.take(); err != nil {
		return nil, err
	}
	out := make([]Neighbor[P], 0, len(h))
	for _, cd := range h {
		c, ok := cd.Comparable.(point[P])
		if !ok {
			continue
		}
		d, err := t.rec.dist(q, c.p)
		if err != nil {
			return nil, err
		}
		if limit >= 0 && d > limit {
			continue
		}
		out = append(out, Neighbor[P]{ID: c.id, Point: c.p, Distance: d})
	}
	slices.SortFunc(out, func(a, b Neighbor[P]) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return a.ID - b.ID
	})
	return out, nil
}
