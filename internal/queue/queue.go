// Package queue holds items produced on one goroutine until another takes
// them in a batch: swipe events recorded during a replay, count increments
// waiting for the next storage flush.
package queue

import "sync"

// Queue is a FIFO safe for concurrent use. The zero value is ready to use.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// New returns an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends items at the back.
func (q *Queue[T]) Push(items ...T) {
	q.mu.Lock()
	q.items = append(q.items, items...)
	q.mu.Unlock()
}

// Requeue puts items back at the front, ahead of anything pushed since they
// were drained, keeping their order.
func (q *Queue[T]) Requeue(items ...T) {
	if len(items) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	merged := make([]T, 0, len(items)+len(q.items))
	merged = append(merged, items...)
	q.items = append(merged, q.items...)
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain takes every queued item in order. It returns nil when the queue is
// empty. The returned slice is never touched by the queue again.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}
