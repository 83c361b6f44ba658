package vimgo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/hupe1980/vimgo/archive"
	"github.com/hupe1980/vimgo/blobstore"
	"github.com/hupe1980/vimgo/document"
	"github.com/hupe1980/vimgo/resource"
	"github.com/hupe1980/vimgo/scene"
)

// Open reads the document stored under name. Compressed envelopes written
// with WithCompression are detected and unpacked.
func Open(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (*document.Document, error) {
	o := applyOptions(opts)
	return openWith(ctx, store, name, o)
}

// OpenFile reads a document from the local file system.
func OpenFile(ctx context.Context, path string, opts ...Option) (*document.Document, error) {
	store, name := localStore(path)
	return Open(ctx, store, name, opts...)
}

// OpenScene reads a document and expands it into a scene.
func OpenScene(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (*scene.Scene, error) {
	o := applyOptions(opts)
	doc, err := openWith(ctx, store, name, o)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	sceneOpts := append([]scene.Option{scene.WithLogger(o.logger.Logger)}, o.sceneOptions...)
	sc, err := scene.LoadScene(ctx, doc, sceneOpts...)
	nodes := 0
	if sc != nil {
		nodes = len(sc.Nodes)
	}
	o.metricsCollector.RecordExpand(nodes, time.Since(start), err)
	if err != nil {
		return nil, translateError("expand", name, err)
	}
	return sc, nil
}

// Save writes src under name. src is typically a *document.DocumentBuilder
// or a *document.Document.
func Save(ctx context.Context, store blobstore.BlobStore, name string, src io.WriterTo, opts ...Option) error {
	o := applyOptions(opts)
	start := time.Now()

	n, err := save(ctx, store, name, src, o)
	err = translateError("save", name, err)

	o.metricsCollector.RecordSave(n, time.Since(start), err)
	o.logger.LogSave(ctx, name, n, time.Since(start), err)
	return err
}

// SaveFile writes src to a local file. The file appears atomically.
func SaveFile(ctx context.Context, path string, src io.WriterTo, opts ...Option) error {
	store, name := localStore(path)
	return Save(ctx, store, name, src, opts...)
}

func localStore(path string) (*blobstore.LocalStore, string) {
	return blobstore.NewLocalStore(filepath.Dir(path)), filepath.ToSlash(filepath.Base(path))
}

func openWith(ctx context.Context, store blobstore.BlobStore, name string, o options) (*document.Document, error) {
	start := time.Now()

	doc, size, err := load(ctx, store, name, o)
	err = translateError("open", name, err)

	o.metricsCollector.RecordLoad(size, time.Since(start), err)
	o.logger.LogLoad(ctx, name, size, time.Since(start), err)
	return doc, err
}

func load(ctx context.Context, store blobstore.BlobStore, name string, o options) (*document.Document, int64, error) {
	rc := o.controller
	if err := rc.AcquireLoad(ctx); err != nil {
		return nil, 0, err
	}
	defer rc.ReleaseLoad()

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = blob.Close() }()

	size := blob.Size()
	if err := rc.AcquireMemory(ctx, size); err != nil {
		return nil, size, err
	}
	defer rc.ReleaseMemory(size)

	ra := resource.NewRateLimitedReaderAt(ctx, blobstore.ReaderAt(ctx, blob), rc)

	compressed, err := isArchive(ra, size)
	if err != nil {
		return nil, size, err
	}
	if !compressed {
		doc, err := document.Read(ra, size, o.documentOptions()...)
		return doc, size, err
	}

	o.logger.DebugContext(ctx, "decompressing document", "name", name)
	raw, err := archive.Decompress(io.NewSectionReader(ra, 0, size))
	if err != nil {
		return nil, size, err
	}
	doc, err := document.ReadBytes(raw, o.documentOptions()...)
	return doc, size, err
}

func isArchive(ra io.ReaderAt, size int64) (bool, error) {
	prefix := make([]byte, min(size, archive.HeaderSize))
	n, err := ra.ReadAt(prefix, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return archive.IsArchive(prefix[:n]), nil
}

func save(ctx context.Context, store blobstore.BlobStore, name string, src io.WriterTo, o options) (int64, error) {
	if src == nil {
		return 0, ErrNilSource
	}

	rc := o.controller
	if err := rc.AcquireLoad(ctx); err != nil {
		return 0, err
	}
	defer rc.ReleaseLoad()

	var buf bytes.Buffer
	if _, err := src.WriteTo(&buf); err != nil {
		return 0, err
	}
	payload := buf.Bytes()

	if o.compression != archive.None {
		var packed bytes.Buffer
		h, err := archive.CompressBytes(&packed, payload, o.compression)
		if err != nil {
			return 0, err
		}
		o.logger.DebugContext(ctx, "compressed document",
			"name", name,
			"algorithm", h.Algorithm.String(),
			"raw_size", h.RawSize,
			"size", packed.Len(),
		)
		payload = packed.Bytes()
	}

	size := int64(len(payload))
	if err := rc.AcquireMemory(ctx, size); err != nil {
		return 0, err
	}
	defer rc.ReleaseMemory(size)

	w, err := store.Create(ctx, name)
	if err != nil {
		return 0, err
	}
	if _, err := resource.NewRateLimitedWriter(ctx, w, rc).Write(payload); err != nil {
		_ = blobstore.Abort(w)
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return size, nil
}
