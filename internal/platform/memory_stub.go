//go:build !linux

package platform

// MapPages falls back to a heap allocation where mmap is unavailable.
func MapPages(size int, huge bool) ([]byte, error) {
	return make([]byte, size), nil
}

func UnmapPages(buf []byte) error { return nil }
