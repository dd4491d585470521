// Licensed to sjy-dv under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. sjy-dv licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package pivot filters range-query candidates with precomputed distances to
// a few pivot points. For every pivot p the triangle inequality bounds
// |d(q,p) - d(x,p)| <= d(q,x), so only points whose pivot distance lies in
// [d(q,p)-r, d(q,p)+r] can be within r of q. The answer is a superset of the
// true result; callers recompute exact distances.
package pivot

import (
	"bytes"
	"context"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/btree"
	"github.com/google/orderedcode"
	"github.com/pkg/errors"
	"github.com/sjy-dv/simjoin/pkg/gomath"
	"github.com/sjy-dv/simjoin/pkg/sampling"
	"golang.org/x/sync/errgroup"
)

const (
	degree        = 32
	slack         = 1e-9
	ctxCheckEvery = 1024
)

type DistanceFunc[P any] func(a, b P) (float64, error)

type item struct {
	key []byte
	id  uint32
}

func (it *item) Less(bi btree.Item) bool {
	if bi == nil {
		return false
	}
	return bytes.Compare(it.key, bi.(*item).key) < 0
}

type Index[P any] struct {
	points []P
	dist   DistanceFunc[P]
	pivots []int
	trees  []*btree.BTree
}

type Options struct {
	Pivots int
	Seed   uint64
	// ParallelThreshold is the point count from which the per-pivot trees
	// are built concurrently. Zero uses gomath.DefaultParallelThreshold;
	// negative builds them one after another.
	ParallelThreshold int
	// Routines caps concurrent tree builds. Zero uses
	// gomath.DefaultNumRoutines.
	Routines int
}

// Build picks up to opts.Pivots distinct pivots at random and orders every
// point by its distance to each of them. dist must be safe for concurrent
// use once the point count reaches the parallel threshold.
func Build[P any](ctx context.Context, points []P, dist DistanceFunc[P], opts Options) (*Index[P], error) {
	if dist == nil {
		return nil, errors.New("pivot: nil distance function")
	}
	if uint64(len(points)) > math.MaxUint32 {
		return nil, errors.Errorf("pivot: %d points exceed the id space", len(points))
	}
	if opts.ParallelThreshold == 0 {
		opts.ParallelThreshold = gomath.DefaultParallelThreshold
	}
	if opts.Routines == 0 {
		opts.Routines = gomath.DefaultNumRoutines
	}
	ix := &Index[P]{points: points, dist: dist}
	perm := sampling.New(len(points), opts.Seed, 0)
	for len(ix.pivots) < opts.Pivots {
		p := perm.Next()
		if p == sampling.Exhausted {
			break
		}
		ix.pivots = append(ix.pivots, p)
	}
	ix.trees = make([]*btree.BTree, len(ix.pivots))

	g, gctx := errgroup.WithContext(ctx)
	limit := 1
	if opts.ParallelThreshold > 0 && len(points) >= opts.ParallelThreshold {
		limit = gomath.MaxInt(1, opts.Routines)
	}
	g.SetLimit(limit)
	for i, p := range ix.pivots {
		g.Go(func() error {
			tree, err := buildTree(gctx, points, dist, points[p])
			ix.trees[i] = tree
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ix, nil
}

func buildTree[P any](ctx context.Context, points []P, dist DistanceFunc[P], pivot P) (*btree.BTree, error) {
	tree := btree.New(degree)
	for id, pt := range points {
		if id%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		d, err := dist(pivot, pt)
		if err != nil {
			return nil, err
		}
		key, err := orderedcode.Append(nil, d, uint64(id))
		if err != nil {
			return nil, errors.Wrapf(err, "encoding pivot key %v", d)
		}
		tree.ReplaceOrInsert(&item{key: key, id: uint32(id)})
	}
	return tree, nil
}

func (ix *Index[P]) Len() int {
	return len(ix.points)
}

func (ix *Index[P]) Pivots() []int {
	return append([]int(nil), ix.pivots...)
}

// Candidates returns the ids of points that may lie within radius of q.
func (ix *Index[P]) Candidates(q P, radius float64) (*roaring.Bitmap, error) {
	if len(ix.trees) == 0 {
		all := roaring.New()
		all.AddRange(0, uint64(len(ix.points)))
		return all, nil
	}
	var result *roaring.Bitmap
	for i, tree := range ix.trees {
		dq, err := ix.dist(q, ix.points[ix.pivots[i]])
		if err != nil {
			return nil, err
		}
		bm, err := scan(tree, dq-radius-slack, dq+radius+slack)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = bm
		} else {
			result.And(bm)
		}
		if result.IsEmpty() {
			break
		}
	}
	return result, nil
}

func scan(tree *btree.BTree, lo, hi float64) (*roaring.Bitmap, error) {
	loKey, err := orderedcode.Append(nil, lo)
	if err != nil {
		return nil, err
	}
	hiKey, err := orderedcode.Append(nil, hi, uint64(math.MaxUint64))
	if err != nil {
		return nil, err
	}
	bm := roaring.New()
	tree.AscendGreaterOrEqual(&item{key: loKey}, func(bi btree.Item) bool {
		it := bi.(*item)
		if bytes.Compare(it.key, hiKey) > 0 {
			return false
		}
		bm.Add(it.id)
		return true
	})
	return bm, nil
}
