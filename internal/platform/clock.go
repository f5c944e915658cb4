// Package platform isolates the host-specific helpers the engine treats as
// opaque services: core pinning, NUMA placement, large-page memory and the
// nanosecond clock. Non-Linux builds get stubs.
package platform

import "time"

// NowNanos returns a nanosecond timestamp. time.Now carries a monotonic
// reading, so differences between two calls are immune to wall-clock steps.
func NowNanos() uint64 {
	return uint64(time.Now().UnixNano())
}
