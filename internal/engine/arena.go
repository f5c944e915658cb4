package engine

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/matchgate/matchgate/internal/book"
	"github.com/matchgate/matchgate/internal/platform"
)

// ErrArenaExhausted is returned by Alloc once the bump index passes the
// arena capacity. There is no reclamation: exhaustion is a sizing error,
// surfaced to the caller rather than silently wrapped.
var ErrArenaExhausted = errors.New("engine: order arena exhausted")

// Arena is the pre-allocated order store. Allocation is a bump of the next
// index; records are never moved or freed, so order pointers stay valid for
// the arena's lifetime. Order slots are cache-line sized, so adjacent live
// orders never false-share.
type Arena struct {
	slots  []book.Order
	next   atomic.Uint64
	mapped []byte // non-nil when backed by an explicit mapping
}

// NewArena reserves capacity order slots up front. With hugePages set the
// slots live in an mmap'd huge-page region (falling back to regular pages),
// otherwise on the Go heap.
func NewArena(capacity int, hugePages bool) (*Arena, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("engine: arena capacity %d", capacity)
	}
	a := &Arena{}
	if hugePages {
		size := capacity * int(unsafe.Sizeof(book.Order{}))
		buf, err := platform.MapPages(size, true)
		if err != nil {
			return nil, err
		}
		a.mapped = buf
		a.slots = unsafe.Slice((*book.Order)(unsafe.Pointer(&buf[0])), capacity)
	} else {
		a.slots = make([]book.Order, capacity)
	}
	return a, nil
}

// Alloc takes the next free slot. The returned order is zeroed.
func (a *Arena) Alloc() (*book.Order, error) {
	idx := a.next.Add(1) - 1
	if idx >= uint64(len(a.slots)) {
		return nil, ErrArenaExhausted
	}
	return &a.slots[idx], nil
}

// Allocated returns the number of slots handed out so far.
func (a *Arena) Allocated() uint64 {
	n := a.next.Load()
	if n > uint64(len(a.slots)) {
		return uint64(len(a.slots))
	}
	return n
}

// Cap returns the arena capacity.
func (a *Arena) Cap() int { return len(a.slots) }

// Close releases the backing mapping, if any. No order pointer may be used
// afterwards.
func (a *Arena) Close() error {
	if a.mapped == nil {
		return nil
	}
	buf := a.mapped
	a.mapped = nil
	a.slots = nil
	return platform.UnmapPages(buf)
}
