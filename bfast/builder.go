package bfast

import (
	"bytes"
	"fmt"
	"io"
)

// Component is a body that knows its size before it is written.
//
// WriteTo must write exactly Size bytes; the container checks this and fails
// with ErrSizeMismatch otherwise.
type Component interface {
	io.WriterTo
	Size() int64
}

// Bytes is a Component backed by an in-memory buffer.
type Bytes []byte

// Size implements Component.
func (b Bytes) Size() int64 { return int64(len(b)) }

// WriteTo implements Component.
func (b Bytes) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b)
	return int64(n), err
}

type funcComponent struct {
	size int64
	fn   func(io.Writer) error
}

func (f funcComponent) Size() int64 { return f.size }

func (f funcComponent) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := f.fn(cw)
	return cw.n, err
}

// Builder accumulates named components and writes them as one container.
// A Builder is itself a Component, which is how containers nest.
//
// Builder is not safe for concurrent use.
type Builder struct {
	names      []string
	components []Component
	index      map[string]int
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[string]int)}
}

// Add appends a named component. Names must be unique within one container.
func (b *Builder) Add(name string, c Component) error {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if _, ok := b.index[name]; ok {
		return &ContainerError{Name: name, Err: ErrDuplicateEntry}
	}
	if c == nil {
		c = Bytes(nil)
	}
	b.index[name] = len(b.names)
	b.names = append(b.names, name)
	b.components = append(b.components, c)
	return nil
}

// AddBytes appends a named in-memory body.
func (b *Builder) AddBytes(name string, data []byte) error {
	return b.Add(name, Bytes(data))
}

// AddFunc appends a body produced by fn, which must write exactly size bytes.
func (b *Builder) AddFunc(name string, size int64, fn func(io.Writer) error) error {
	return b.Add(name, funcComponent{size: size, fn: fn})
}

// Len returns the number of entries added so far.
func (b *Builder) Len() int {
	return len(b.names)
}

// Names returns the entry names in insertion order.
func (b *Builder) Names() []string {
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}

// Entries computes the header entries for the current components.
func (b *Builder) Entries() []Entry {
	entries := make([]Entry, len(b.names))
	var offset uint64
	for i, name := range b.names {
		size := uint64(max(b.components[i].Size(), 0))
		entries[i] = Entry{Name: name, Offset: offset, Length: size}
		offset = Align(offset + size)
	}
	return entries
}

// Size implements Component. It is the full container size, header included.
func (b *Builder) Size() int64 {
	h := Header{Entries: b.Entries(), DataStart: headerSize(b.names)}
	return h.Size()
}

// WriteTo implements io.WriterTo. It writes the header followed by every
// component in insertion order, each padded to the alignment boundary.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	entries := b.Entries()
	header, err := encodeHeader(entries)
	if err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}
	if _, err := cw.Write(header); err != nil {
		return cw.n, err
	}
	dataStart := cw.n

	var zeros [Alignment]byte
	for i, c := range b.components {
		e := entries[i]
		if pad := int64(e.Offset) - (cw.n - dataStart); pad > 0 {
			if _, err := cw.Write(zeros[:pad]); err != nil {
				return cw.n, err
			}
		}

		before := cw.n
		if _, err := c.WriteTo(cw); err != nil {
			return cw.n, fmt.Errorf("bfast: writing %q: %w", e.Name, err)
		}
		if written := cw.n - before; written != int64(e.Length) {
			return cw.n, &ContainerError{
				Name:   e.Name,
				Offset: before,
				Err:    fmt.Errorf("%w: declared %d bytes, wrote %d", ErrSizeMismatch, e.Length, written),
			}
		}
	}

	if len(entries) > 0 {
		if pad := int64(entries[len(entries)-1].End()) - (cw.n - dataStart); pad > 0 {
			if _, err := cw.Write(zeros[:pad]); err != nil {
				return cw.n, err
			}
		}
	}
	return cw.n, nil
}

// Bytes serializes the container into memory.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(int(b.Size()))
	if _, err := b.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
