//go:build linux

package platform

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MapPages maps anonymous memory for a long-lived arena. With huge enabled
// it first tries MAP_HUGETLB and falls back to regular pages when the host
// has no huge pages reserved.
func MapPages(size int, huge bool) ([]byte, error) {
	prot := unix.PROT_READ | unix.PROT_WRITE
	flags := unix.MAP_PRIVATE | unix.MAP_ANONYMOUS
	if huge {
		if buf, err := unix.Mmap(-1, 0, size, prot, flags|unix.MAP_HUGETLB); err == nil {
			return buf, nil
		}
	}
	buf, err := unix.Mmap(-1, 0, size, prot, flags)
	if err != nil {
		return nil, fmt.Errorf("platform: mmap %d bytes: %w", size, err)
	}
	return buf, nil
}

// UnmapPages releases a mapping returned by MapPages.
func UnmapPages(buf []byte) error {
	if buf == nil {
		return nil
	}
	return unix.Munmap(buf)
}
