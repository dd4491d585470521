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

package queue

import (
	"container/heap"
	"slices"
)

type Item struct {
	ID       int
	Distance float64
	Index    int
}

// worse orders items by distance, then by id, so ties always resolve to the
// lower id.
func worse(a, b *Item) bool {
	if a.Distance != b.Distance {
		return a.Distance > b.Distance
	}
	return a.ID > b.ID
}

// PriorityQueue is a min-heap on (distance, id) when Order is false and a
// max-heap when Order is true.
type PriorityQueue struct {
	Order bool
	Items []*Item
}

func (pq PriorityQueue) Len() int { return len(pq.Items) }

func (pq PriorityQueue) Less(i, j int) bool {
	if !pq.Order {
		return worse(pq.Items[j], pq.Items[i])
	}
	return worse(pq.Items[i], pq.Items[j])
}

func (pq PriorityQueue) Swap(i, j int) {
	pq.Items[i], pq.Items[j] = pq.Items[j], pq.Items[i]
	pq.Items[i].Index = i
	pq.Items[j].Index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(pq.Items)
	item := x.(*Item)
	item.Index = n
	pq.Items = append(pq.Items, item)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := pq.Items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	pq.Items = old[0 : n-1]
	return item
}

func (pq *PriorityQueue) Top() interface{} {
	if len(pq.Items) == 0 {
		return nil
	}
	return pq.Items[0]
}

// Bounded keeps the Cap best items seen so far.
type Bounded struct {
	Cap int
	pq  PriorityQueue
}

func NewBounded(capacity int) *Bounded {
	b := &Bounded{Cap: capacity, pq: PriorityQueue{Order: true}}
	heap.Init(&b.pq)
	return b
}

func (b *Bounded) Len() int { return b.pq.Len() }

func (b *Bounded) Full() bool { return b.pq.Len() >= b.Cap }

// Worst is the distance an item must beat to enter a full queue.
func (b *Bounded) Worst() float64 {
	top, ok := b.pq.Top().(*Item)
	if !ok {
		return 0
	}
	return top.Distance
}

// Offer inserts the item when there is room or when it beats the current
// worst item. It reports whether the item was kept.
func (b *Bounded) Offer(id int, distance float64) bool {
	if b.Cap <= 0 {
		return false
	}
	item := &Item{ID: id, Distance: distance}
	if b.pq.Len() < b.Cap {
		heap.Push(&b.pq, item)
		return true
	}
	if !worse(b.pq.Items[0], item) {
		return false
	}
	b.pq.Items[0] = item
	item.Index = 0
	heap.Fix(&b.pq, 0)
	return true
}

// Sorted returns the kept items from best to worst.
func (b *Bounded) Sorted() []Item {
	out := make([]Item, 0, b.pq.Len())
	for _, it := range b.pq.Items {
		out = append(out, *it)
	}
	slices.SortFunc(out, func(x, y Item) int {
		if worse(&y, &x) {
			return -1
		}
		if worse(&x, &y) {
			return 1
		}
		return 0
	})
	return out
}
