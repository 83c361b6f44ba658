package bfast

import (
	"errors"
	"fmt"
	"io"
)

// Reader provides random access to the entries of a container.
// It is safe for concurrent use if the underlying io.ReaderAt is.
type Reader struct {
	ra     io.ReaderAt
	size   int64
	header *Header
	index  map[string]int
}

// NewReader parses the header of the container stored in ra[0:size].
//
// Only the header is read; bodies are fetched on demand. It fails with
// ErrTruncatedStream if size is smaller than the declared bodies.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	h, err := readHeader(io.NewSectionReader(ra, 0, size), size)
	if err != nil {
		return nil, err
	}
	if end := uint64(h.DataStart) + h.minimalEnd(); end > uint64(size) {
		var name string
		if len(h.Entries) > 0 {
			name = h.Entries[len(h.Entries)-1].Name
		}
		return nil, truncated(name, size, fmt.Errorf("declared %d bytes, have %d", end, size))
	}

	index := make(map[string]int, len(h.Entries))
	for i, e := range h.Entries {
		// First entry wins on duplicate names.
		if _, ok := index[e.Name]; !ok {
			index[e.Name] = i
		}
	}

	return &Reader{
		ra:     ra,
		size:   size,
		header: h,
		index:  index,
	}, nil
}

// Header returns the parsed header.
func (r *Reader) Header() *Header {
	return r.header
}

// Entries returns the entries in container order.
func (r *Reader) Entries() []Entry {
	return r.header.Entries
}

// Len returns the number of entries.
func (r *Reader) Len() int {
	return len(r.header.Entries)
}

// Lookup returns the entry with the given name.
func (r *Reader) Lookup(name string) (Entry, bool) {
	i, ok := r.index[name]
	if !ok {
		return Entry{}, false
	}
	return r.header.Entries[i], true
}

// Section returns a reader over the body of the named entry.
func (r *Reader) Section(name string) (*io.SectionReader, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, &ContainerError{Name: name, Err: ErrEntryNotFound}
	}
	return r.EntrySection(e), nil
}

// EntrySection returns a reader over the body of e, which must come from
// this Reader's header.
func (r *Reader) EntrySection(e Entry) *io.SectionReader {
	return io.NewSectionReader(r.ra, r.header.DataStart+int64(e.Offset), int64(e.Length))
}

// Bytes reads the body of the named entry into memory.
func (r *Reader) Bytes(name string) ([]byte, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, &ContainerError{Name: name, Err: ErrEntryNotFound}
	}
	return r.EntryBytes(e)
}

// EntryBytes reads the body of e into memory.
func (r *Reader) EntryBytes(e Entry) ([]byte, error) {
	buf := make([]byte, e.Length)
	n, err := r.EntrySection(e).ReadAt(buf, 0)
	if n == len(buf) {
		return buf, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return nil, truncated(e.Name, r.header.DataStart+int64(e.Offset)+int64(n), nil)
	}
	return nil, err
}

// Sub parses the body of the named entry as a nested container.
func (r *Reader) Sub(name string) (*Reader, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, &ContainerError{Name: name, Err: ErrEntryNotFound}
	}
	return r.EntrySub(e)
}

// EntrySub parses the body of e as a nested container.
func (r *Reader) EntrySub(e Entry) (*Reader, error) {
	sub, err := NewReader(r.EntrySection(e), int64(e.Length))
	if err != nil {
		return nil, fmt.Errorf("bfast: nested container %q: %w", e.Name, err)
	}
	return sub, nil
}
