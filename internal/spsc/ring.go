// Package spsc provides a bounded lock-free single-producer single-consumer
// ring. The producer publishes with a release store of its cursor and the
// consumer observes it with an acquire load, so the element write is visible
// before the cursor advance. Cursors are free-running; indices are masked.
package spsc

import (
	"errors"
	"sync/atomic"
)

// CacheLineSize is the assumed CPU cache line width, used to pad the
// producer and consumer cursors apart so they never share a line.
const CacheLineSize = 64

// ErrCapacity is returned for capacities that are not a power of two.
var ErrCapacity = errors.New("spsc: capacity must be a power of two")

// Ring is safe for exactly one pushing goroutine and one popping goroutine.
// Items are copied by value; no blocking, no retries.
type Ring[T any] struct {
	buf  []T
	mask uint64

	_    [CacheLineSize - 8]byte
	head atomic.Uint64 // producer cursor: next slot to write
	_    [CacheLineSize - 8]byte
	tail atomic.Uint64 // consumer cursor: next slot to read
	_    [CacheLineSize - 8]byte
}

// New allocates a ring with the given power-of-two capacity.
func New[T any](capacity int) (*Ring[T], error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, ErrCapacity
	}
	return &Ring[T]{
		buf:  make([]T, capacity),
		mask: uint64(capacity - 1),
	}, nil
}

// Push appends one item. It reports false when the ring is full; the
// producer decides what to do with the loss.
func (r *Ring[T]) Push(v T) bool {
	head := r.head.Load()
	tail := r.tail.Load()
	if head-tail > r.mask {
		return false
	}
	r.buf[head&r.mask] = v
	r.head.Store(head + 1)
	return true
}

// Pop removes the oldest item. It reports false when the ring is empty.
func (r *Ring[T]) Pop() (T, bool) {
	tail := r.tail.Load()
	head := r.head.Load()
	if tail == head {
		var zero T
		return zero, false
	}
	v := r.buf[tail&r.mask]
	r.tail.Store(tail + 1)
	return v, true
}

// Empty reports whether the ring currently holds no items.
func (r *Ring[T]) Empty() bool {
	return r.tail.Load() == r.head.Load()
}

// Len returns the number of buffered items. Exact only when called from
// one of the two ring endpoints.
func (r *Ring[T]) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// Cap returns the ring capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }
