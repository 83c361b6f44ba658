package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error that satisfies errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// ErrClosed is returned when writing to a finished blob.
var ErrClosed = errors.New("blobstore: blob closed")

// BlobStore reads and writes immutable blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create starts a streaming write. The blob becomes visible on Close.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Put writes a whole blob atomically.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the sorted names starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a blob.
type Blob interface {
	// ReadAt has io.ReaderAt semantics.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// ReadRange streams up to n bytes from off. It returns io.EOF when off
	// is at or past the end.
	ReadRange(ctx context.Context, off, n int64) (io.ReadCloser, error)
	// Size returns the size of the blob in bytes.
	Size() int64
	Close() error
}

// WritableBlob is a blob being written.
type WritableBlob interface {
	io.Writer
	io.Closer
	// Sync flushes buffered data where the backend supports it.
	Sync() error
}

// Aborter is implemented by WritableBlobs that can discard a write in
// progress. After Abort nothing becomes visible.
type Aborter interface {
	Abort() error
}

// Abort discards w when it supports it and closes it otherwise.
func Abort(w WritableBlob) error {
	if a, ok := w.(Aborter); ok {
		return a.Abort()
	}
	return w.Close()
}

// Mappable is an optional interface for Blobs whose content is already in
// memory.
type Mappable interface {
	// Bytes returns the underlying bytes, valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// IsNotFound reports whether err means a missing blob.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

type readerAt struct {
	ctx  context.Context
	blob Blob
}

func (r readerAt) ReadAt(p []byte, off int64) (int, error) {
	return r.blob.ReadAt(r.ctx, p, off)
}

// ReaderAt adapts b to io.ReaderAt. Every read uses ctx.
func ReaderAt(ctx context.Context, b Blob) io.ReaderAt {
	if m, ok := b.(Mappable); ok {
		if data, err := m.Bytes(); err == nil {
			return bytes.NewReader(data)
		}
	}
	return readerAt{ctx: ctx, blob: b}
}

// ReadAll returns the whole content of b. Mappable blobs are returned
// without copying.
func ReadAll(ctx context.Context, b Blob) ([]byte, error) {
	if m, ok := b.(Mappable); ok {
		return m.Bytes()
	}
	if b.Size() == 0 {
		return []byte{}, nil
	}
	rc, err := b.ReadRange(ctx, 0, b.Size())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data := make([]byte, b.Size())
	if _, err := io.ReadFull(rc, data); err != nil {
		return nil, fmt.Errorf("blobstore: read: %w", err)
	}
	return data, nil
}

// Copy streams the blob name from src into dst.
func Copy(ctx context.Context, dst, src BlobStore, name string) (int64, error) {
	b, err := src.Open(ctx, name)
	if err != nil {
		return 0, err
	}
	defer func() { _ = b.Close() }()

	w, err := dst.Create(ctx, name)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(w, io.NewSectionReader(ReaderAt(ctx, b), 0, b.Size()))
	if err != nil {
		_ = w.Close()
		return n, err
	}
	return n, w.Close()
}

// rangeOf clamps [off, off+n) to size and reports io.EOF for an empty
// result at or past the end.
func rangeOf(off, n, size int64) (int64, int64, error) {
	if off < 0 || n < 0 {
		return 0, 0, fmt.Errorf("blobstore: invalid range %d+%d", off, n)
	}
	if off >= size {
		return 0, 0, io.EOF
	}
	end := off + n
	if end > size || end < off {
		end = size
	}
	return off, end, nil
}

// readAtBytes implements ReadAt over an in-memory slice.
func readAtBytes(data, p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("blobstore: negative offset %d", off)
	}
	if off >= int64(len(data)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
