// Copyright (c) 2026 The chaind developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"container/heap"
)

// PriorityQueue implements a generic priority queue using container/heap
// ordered by a comparison function.  It is not safe for concurrent access.
// The zero value is NOT ready to use; use NewPriorityQueue to create an
// instance.
type PriorityQueue[T any] struct {
	impl *heapImpl[T]
}

// NewPriorityQueue creates a new priority queue with the given comparison
// function where less(a, b) returns true if a has higher priority than b.
func NewPriorityQueue[T any](less func(a, b T) bool, capacity int) *PriorityQueue[T] {
	return &PriorityQueue[T]{
		impl: &heapImpl[T]{
			items: make([]T, 0, capacity),
			less:  less,
		},
	}
}

// Push adds an item to the priority queue.
func (pq *PriorityQueue[T]) Push(item T) {
	heap.Push(pq.impl, item)
}

// Pop removes and returns the highest priority item from the queue.
// Returns false if the queue is empty.
func (pq *PriorityQueue[T]) Pop() (T, bool) {
	if pq.impl.Len() == 0 {
		var zero T
		return zero, false
	}
	return heap.Pop(pq.impl).(T), true
}

// Peek returns the highest priority item without removing it.
// Returns false if the queue is empty.
func (pq *PriorityQueue[T]) Peek() (T, bool) {
	if pq.impl.Len() == 0 {
		var zero T
		return zero, false
	}
	return pq.impl.items[0], true
}

// Len returns the number of items in the priority queue.
func (pq *PriorityQueue[T]) Len() int {
	return pq.impl.Len()
}

// Sorted returns all items in priority order without modifying the queue.
func (pq *PriorityQueue[T]) Sorted() []T {
	tmp := &heapImpl[T]{
		items: make([]T, len(pq.impl.items)),
		less:  pq.impl.less,
	}
	copy(tmp.items, pq.impl.items)

	sorted := make([]T, 0, len(tmp.items))
	for tmp.Len() > 0 {
		sorted = append(sorted, heap.Pop(tmp).(T))
	}
	return sorted
}

// heapImpl implements heap.Interface to integrate with container/heap.
type heapImpl[T any] struct {
	items []T
	less  func(a, b T) bool
}

func (h *heapImpl[T]) Len() int {
	return len(h.items)
}

func (h *heapImpl[T]) Less(i, j int) bool {
	return h.less(h.items[i], h.items[j])
}

func (h *heapImpl[T]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *heapImpl[T]) Push(x any) {
	h.items = append(h.items, x.(T))
}

func (h *heapImpl[T]) Pop() any {
	n := len(h.items) - 1
	item := h.items[n]
	var zero T
	h.items[n] = zero
	h.items = h.items[:n]
	return item
}

var _ heap.Interface = (*heapImpl[int])(nil)
