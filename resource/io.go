package resource

import (
	"context"
	"io"
)

// RateLimitedWriter wraps an io.Writer with rate limiting.
type RateLimitedWriter struct {
	ctx context.Context
	w   io.Writer
	rc  *Controller
}

// NewRateLimitedWriter creates a new RateLimitedWriter.
func NewRateLimitedWriter(ctx context.Context, w io.Writer, rc *Controller) *RateLimitedWriter {
	return &RateLimitedWriter{ctx: ctx, w: w, rc: rc}
}

func (w *RateLimitedWriter) Write(p []byte) (n int, err error) {
	if err := w.rc.AcquireIO(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.w.Write(p)
}

// RateLimitedReader wraps an io.Reader with rate limiting.
// Tokens are taken for the bytes actually read, after the read returns.
type RateLimitedReader struct {
	ctx context.Context
	r   io.Reader
	rc  *Controller
}

// NewRateLimitedReader creates a new RateLimitedReader.
func NewRateLimitedReader(ctx context.Context, r io.Reader, rc *Controller) *RateLimitedReader {
	return &RateLimitedReader{ctx: ctx, r: r, rc: rc}
}

func (r *RateLimitedReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := r.r.Read(p)
	if werr := r.rc.AcquireIO(r.ctx, n); werr != nil {
		return n, werr
	}
	return n, err
}

// RateLimitedReaderAt wraps an io.ReaderAt with rate limiting.
type RateLimitedReaderAt struct {
	ctx context.Context
	ra  io.ReaderAt
	rc  *Controller
}

// NewRateLimitedReaderAt creates a new RateLimitedReaderAt.
func NewRateLimitedReaderAt(ctx context.Context, ra io.ReaderAt, rc *Controller) *RateLimitedReaderAt {
	return &RateLimitedReaderAt{ctx: ctx, ra: ra, rc: rc}
}

func (r *RateLimitedReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := r.ra.ReadAt(p, off)
	if werr := r.rc.AcquireIO(r.ctx, n); werr != nil {
		return n, werr
	}
	return n, err
}
