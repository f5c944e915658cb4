package engine

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocSequence(t *testing.T) {
	a, err := NewArena(4, false)
	require.NoError(t, err)
	defer a.Close()

	seen := map[*struct{}]bool{}
	for i := 0; i < 4; i++ {
		o, err := a.Alloc()
		require.NoError(t, err)
		assert.Zero(t, o.ID, "fresh slot must be zeroed")
		key := (*struct{})(unsafe.Pointer(o))
		assert.False(t, seen[key], "slots must be distinct")
		seen[key] = true
	}
	assert.Equal(t, uint64(4), a.Allocated())
}

func TestArenaExhaustion(t *testing.T) {
	a, err := NewArena(2, false)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Alloc()
	require.NoError(t, err)
	_, err = a.Alloc()
	require.NoError(t, err)

	_, err = a.Alloc()
	assert.ErrorIs(t, err, ErrArenaExhausted)
	// Exhaustion is sticky; Allocated stays clamped to capacity.
	_, err = a.Alloc()
	assert.ErrorIs(t, err, ErrArenaExhausted)
	assert.Equal(t, uint64(2), a.Allocated())
}

func TestArenaSlotsAreCacheLineAligned(t *testing.T) {
	a, err := NewArena(8, false)
	require.NoError(t, err)
	defer a.Close()

	first, err := a.Alloc()
	require.NoError(t, err)
	second, err := a.Alloc()
	require.NoError(t, err)

	stride := uintptr(unsafe.Pointer(second)) - uintptr(unsafe.Pointer(first))
	assert.Equal(t, uintptr(64), stride, "adjacent orders must not share a cache line")
}

func TestArenaRejectsZeroCapacity(t *testing.T) {
	_, err := NewArena(0, false)
	assert.Error(t, err)
}

func TestArenaMappedBacking(t *testing.T) {
	a, err := NewArena(16, true)
	require.NoError(t, err)

	o, err := a.Alloc()
	require.NoError(t, err)
	o.ID = 42
	assert.Equal(t, uint64(42), o.ID)

	require.NoError(t, a.Close())
}
