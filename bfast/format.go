package bfast

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/vimgo/internal/conv"
)

const (
	// Alignment is the byte alignment of the header end and of every body.
	Alignment = 8

	// MaxEntries bounds the entry count accepted by readers.
	MaxEntries = 1 << 24

	// MaxNameLength bounds the byte length of an entry name accepted by readers.
	MaxNameLength = 1 << 16

	entryFixedSize = 4 + 8 + 8

	maxDataSize = math.MaxInt64 - Alignment
)

var byteOrder = binary.LittleEndian

// Entry describes one named body in a container.
type Entry struct {
	Name string
	// Offset is relative to the start of the data section.
	Offset uint64
	// Length is the exact body length, excluding padding.
	Length uint64
}

// End returns the aligned end of the entry within the data section.
func (e Entry) End() uint64 {
	return Align(e.Offset + e.Length)
}

// Align rounds n up to the next multiple of Alignment.
func Align(n uint64) uint64 {
	return (n + Alignment - 1) &^ (Alignment - 1)
}

// Header is a parsed container header.
type Header struct {
	Entries []Entry
	// DataStart is the absolute offset of the data section.
	DataStart int64
}

// DataSize returns the size of the data section including trailing padding.
func (h *Header) DataSize() uint64 {
	if len(h.Entries) == 0 {
		return 0
	}
	return h.Entries[len(h.Entries)-1].End()
}

// Size returns the total size of the container, header included.
func (h *Header) Size() int64 {
	return h.DataStart + int64(h.DataSize())
}

// minimalEnd is the smallest stream size that still holds every body.
func (h *Header) minimalEnd() uint64 {
	if len(h.Entries) == 0 {
		return 0
	}
	last := h.Entries[len(h.Entries)-1]
	return last.Offset + last.Length
}

// headerSize returns the aligned size of a header holding the given names.
func headerSize(names []string) int64 {
	n := int64(4)
	for _, name := range names {
		n += entryFixedSize + int64(len(name))
	}
	return int64(Align(uint64(n)))
}

// encodeHeader serializes entries into an aligned header.
func encodeHeader(entries []Entry) ([]byte, error) {
	count, err := conv.IntToUint32(len(entries))
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, 64)
	buf = byteOrder.AppendUint32(buf, count)
	for _, e := range entries {
		nameLen, err := conv.IntToUint32(len(e.Name))
		if err != nil {
			return nil, err
		}
		buf = byteOrder.AppendUint32(buf, nameLen)
		buf = append(buf, e.Name...)
		buf = byteOrder.AppendUint64(buf, e.Offset)
		buf = byteOrder.AppendUint64(buf, e.Length)
	}
	for len(buf)%Alignment != 0 {
		buf = append(buf, 0)
	}
	return buf, nil
}

// ReadHeader parses a container header from r and consumes the padding that
// follows it, leaving r positioned at the start of the data section.
func ReadHeader(r io.Reader) (*Header, error) {
	return readHeader(r, -1)
}

// maxEntryPrealloc caps the entry slice capacity taken from an untrusted count.
const maxEntryPrealloc = 1024

// readHeader is ReadHeader for a container known to span limit bytes.
// A negative limit means unknown.
func readHeader(r io.Reader, limit int64) (*Header, error) {
	var scratch [entryFixedSize]byte
	var pos int64

	read := func(p []byte, name string) error {
		n, err := io.ReadFull(r, p)
		pos += int64(n)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return truncated(name, pos, nil)
			}
			return err
		}
		return nil
	}

	if err := read(scratch[:4], ""); err != nil {
		return nil, err
	}
	count := byteOrder.Uint32(scratch[:4])
	if count > MaxEntries {
		return nil, malformed("", 0, "entry count %d exceeds %d", count, MaxEntries)
	}

	if limit >= 0 && 4+int64(count)*entryFixedSize > limit {
		return nil, truncated("", limit, fmt.Errorf("%d entries need at least %d bytes, have %d", count, 4+int64(count)*entryFixedSize, limit))
	}

	h := &Header{Entries: make([]Entry, 0, min(count, maxEntryPrealloc))}
	var prevEnd uint64
	for i := uint32(0); i < count; i++ {
		if err := read(scratch[:4], ""); err != nil {
			return nil, err
		}
		nameLen := byteOrder.Uint32(scratch[:4])
		if nameLen > MaxNameLength {
			return nil, malformed("", pos, "entry %d name length %d exceeds %d", i, nameLen, MaxNameLength)
		}
		name := make([]byte, nameLen)
		if err := read(name, ""); err != nil {
			return nil, err
		}
		if err := read(scratch[:16], string(name)); err != nil {
			return nil, err
		}
		e := Entry{
			Name:   string(name),
			Offset: byteOrder.Uint64(scratch[:8]),
			Length: byteOrder.Uint64(scratch[8:16]),
		}
		if err := validateEntry(e, prevEnd, i); err != nil {
			return nil, err
		}
		prevEnd = e.End()
		h.Entries = append(h.Entries, e)
	}

	padding := int64(Align(uint64(pos))) - pos
	if padding > 0 {
		if err := read(scratch[:padding], ""); err != nil {
			return nil, err
		}
	}
	h.DataStart = pos
	return h, nil
}

func validateEntry(e Entry, prevEnd uint64, index uint32) error {
	if e.Offset%Alignment != 0 {
		return malformed(e.Name, 0, "entry %d offset %d is not %d-byte aligned", index, e.Offset, Alignment)
	}
	if e.Offset < prevEnd {
		return malformed(e.Name, 0, "entry %d offset %d overlaps previous entry ending at %d", index, e.Offset, prevEnd)
	}
	if e.Offset > maxDataSize || e.Length > maxDataSize-e.Offset {
		return malformed(e.Name, 0, "entry %d range [%d, +%d) overflows", index, e.Offset, e.Length)
	}
	return nil
}

// String renders the header for diagnostics.
func (h *Header) String() string {
	return fmt.Sprintf("bfast{entries=%d, dataStart=%d, size=%d}", len(h.Entries), h.DataStart, h.Size())
}
