package mmap

import "bytes"

// Region is a section of a Mapping, typically one container buffer. It
// borrows the mapping's memory.
type Region struct {
	m    *Mapping
	data []byte
}

// Section returns the n bytes at off, clamped to the end of the file.
func (m *Mapping) Section(off, n int64) (*Region, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	size := m.Size()
	if off < 0 || n < 0 || off > size {
		return nil, ErrOutOfBounds
	}
	end := off + n
	if end > size || end < off {
		end = size
	}
	return &Region{m: m, data: m.data[off:end]}, nil
}

// Bytes returns the section, or nil once the mapping is closed.
func (r *Region) Bytes() []byte {
	if r.m.closed.Load() {
		return nil
	}
	return r.data
}

// Len returns the section length.
func (r *Region) Len() int64 { return int64(len(r.data)) }

// Advise hints how the section will be read. Unaligned sections are
// accepted; the kernel applies the hint to the covering pages.
func (r *Region) Advise(a Advice) error {
	if r.m.closed.Load() {
		return ErrClosed
	}
	return osAdvise(r.data, a)
}

// Reader returns a reader over the section.
func (r *Region) Reader() (*bytes.Reader, error) {
	data := r.Bytes()
	if data == nil && len(r.data) > 0 {
		return nil, ErrClosed
	}
	return bytes.NewReader(data), nil
}
