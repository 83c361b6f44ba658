//go:build unix

package mmap

import (
	"errors"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

func osMap(f *os.File, size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, unix.Munmap, nil
}

var advice = [...]int{
	Normal:     unix.MADV_NORMAL,
	Sequential: unix.MADV_SEQUENTIAL,
	Random:     unix.MADV_RANDOM,
	WillNeed:   unix.MADV_WILLNEED,
}

func osAdvise(data []byte, a Advice) error {
	if len(data) == 0 || a < 0 || int(a) >= len(advice) {
		return nil
	}
	// Container buffers start on 8-byte, not page, boundaries.
	if err := unix.Madvise(pageAlign(data), advice[a]); err != nil && !errors.Is(err, unix.EINVAL) {
		return err
	}
	return nil
}

// pageAlign widens data to start on a page boundary. Mappings are page
// aligned, so the widened slice stays inside the mapping.
func pageAlign(data []byte) []byte {
	p := unsafe.Pointer(unsafe.SliceData(data))
	pad := int(uintptr(p) % uintptr(os.Getpagesize()))
	if pad == 0 {
		return data
	}
	return unsafe.Slice((*byte)(unsafe.Add(p, -pad)), len(data)+pad)
}
