package bfast

import (
	"errors"
	"fmt"
	"io"
)

// StreamFunc is called once per entry by ReadStream. body yields exactly
// size bytes; any bytes the callback leaves unread are skipped.
type StreamFunc func(name string, size int64, body io.Reader) error

// ReadStream reads a container sequentially from r, invoking fn for each
// entry in order. Only the header is held in memory.
//
// On return r is positioned after the last body, before its trailing padding.
func ReadStream(r io.Reader, fn StreamFunc) error {
	return readStream(r, -1, fn)
}

// ReadStreamSize is ReadStream for a container known to span size bytes,
// such as a nested entry. It fails with ErrTruncatedStream before calling fn
// if the header declares bodies ending past size.
func ReadStreamSize(r io.Reader, size int64, fn StreamFunc) error {
	return readStream(io.LimitReader(r, size), size, fn)
}

func readStream(r io.Reader, limit int64, fn StreamFunc) error {
	h, err := readHeader(r, limit)
	if err != nil {
		return err
	}
	if limit >= 0 {
		if end := uint64(h.DataStart) + h.minimalEnd(); end > uint64(limit) {
			e := h.Entries[len(h.Entries)-1]
			return truncated(e.Name, limit, fmt.Errorf("declared %d bytes, have %d", end, limit))
		}
	}

	var pos uint64 // relative to the data section
	for _, e := range h.Entries {
		if gap := e.Offset - pos; gap > 0 {
			if err := skip(r, int64(gap)); err != nil {
				return truncated(e.Name, h.DataStart+int64(pos), err)
			}
		}

		length := int64(e.Length)
		body := &countingReader{r: io.LimitReader(r, length)}
		if err := fn(e.Name, length, body); err != nil {
			return err
		}
		if rest := length - body.n; rest > 0 {
			if err := skip(body, rest); err != nil {
				return truncated(e.Name, h.DataStart+int64(e.Offset)+body.n, err)
			}
		}
		if body.n != length {
			return truncated(e.Name, h.DataStart+int64(e.Offset)+body.n, nil)
		}
		pos = e.Offset + e.Length
	}
	return nil
}

// skip discards n bytes, reporting io.ErrUnexpectedEOF if r ends early.
func skip(r io.Reader, n int64) error {
	copied, err := io.CopyN(io.Discard, r, n)
	if err != nil && errors.Is(err, io.EOF) && copied < n {
		return io.ErrUnexpectedEOF
	}
	return err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
