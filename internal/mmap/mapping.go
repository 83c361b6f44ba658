package mmap

import (
	"errors"
	"io"
	"math"
	"os"
	"sync/atomic"
)

var (
	// ErrClosed is returned by every accessor after Close.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrTooLarge is returned when the file does not fit the address space.
	ErrTooLarge = errors.New("mmap: file too large to map")
	// ErrOutOfBounds is returned for negative offsets and sections past the end.
	ErrOutOfBounds = errors.New("mmap: out of bounds")
)

// Advice is an access hint passed to the kernel.
type Advice int

const (
	Normal Advice = iota
	// Sequential suits whole-document reads: header, then each buffer in order.
	Sequential
	// Random suits lookups into tables of an already parsed document.
	Random
	// WillNeed prefetches a section that is about to be decoded.
	WillNeed
)

// Mapping is a read-only view of a whole file.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	unmap  func([]byte) error
}

// Open maps the file at path. An empty file yields an empty mapping.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	switch {
	case size == 0:
		return &Mapping{}, nil
	case size > math.MaxInt:
		return nil, ErrTooLarge
	}

	data, unmap, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data, unmap: unmap}, nil
}

// Close unmaps the file. Calling it again is a no-op.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) || m.unmap == nil {
		return nil
	}
	return m.unmap(m.data)
}

// Bytes returns the mapped file, or nil after Close. The slice must not be
// used once the mapping is closed.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the file size.
func (m *Mapping) Size() int64 { return int64(len(m.data)) }

// Advise hints how the whole file will be read.
func (m *Mapping) Advise(a Advice) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return osAdvise(m.data, a)
}

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrOutOfBounds
	}
	if off >= m.Size() {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
