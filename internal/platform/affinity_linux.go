//go:build linux

package platform

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const mpolBind = 2 // MPOL_BIND

// PinToCore restricts the calling thread to one CPU core. Callers should
// hold runtime.LockOSThread for the pin to mean anything.
func PinToCore(core int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("platform: pin to core %d: %w", core, err)
	}
	return nil
}

// BindNUMANode binds future memory allocation of the calling thread to one
// NUMA node via set_mempolicy(MPOL_BIND).
func BindNUMANode(node int) error {
	if node < 0 || node >= 64 {
		return fmt.Errorf("platform: numa node %d out of range", node)
	}
	mask := uint64(1) << uint(node)
	_, _, errno := unix.Syscall(unix.SYS_SET_MEMPOLICY,
		uintptr(mpolBind), uintptr(unsafe.Pointer(&mask)), 64)
	if errno != 0 {
		return fmt.Errorf("platform: bind numa node %d: %w", node, errno)
	}
	return nil
}
