// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mergeorder

import (
	"container/heap"
)

// candidate is the next unmerged row of one input batch.
type candidate struct {
	batIdx int
	row    int64
}

// mergeHeap pops the smallest candidate first. Candidates comparing equal pop
// in batch arrival order, which keeps the merge stable.
type mergeHeap struct {
	items []candidate
	cmp   func(a, b candidate) int
}

var _ heap.Interface = new(mergeHeap)

func newMergeHeap(capacity int, cmp func(a, b candidate) int) *mergeHeap {
	return &mergeHeap{
		items: make([]candidate, 0, capacity),
		cmp:   cmp,
	}
}

func (h *mergeHeap) Len() int {
	return len(h.items)
}

func (h *mergeHeap) Less(i, j int) bool {
	if r := h.cmp(h.items[i], h.items[j]); r != 0 {
		return r < 0
	}
	return h.items[i].batIdx < h.items[j].batIdx
}

func (h *mergeHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *mergeHeap) Push(x any) {
	h.items = append(h.items, x.(candidate))
}

func (h *mergeHeap) Pop() any {
	n := len(h.items) - 1
	x := h.items[n]
	h.items = h.items[:n]
	return x
}
