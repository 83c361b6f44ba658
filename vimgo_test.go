package vimgo

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vimgo/archive"
	"github.com/hupe1980/vimgo/blobstore"
	"github.com/hupe1980/vimgo/document"
	"github.com/hupe1980/vimgo/g3d"
	"github.com/hupe1980/vimgo/math3d"
	"github.com/hupe1980/vimgo/resource"
	"github.com/hupe1980/vimgo/scene"
	"github.com/hupe1980/vimgo/testutil"
)

func sampleBuilder(t *testing.T) *document.DocumentBuilder {
	t.Helper()
	db := document.NewDocumentBuilder()

	elements := db.Table(document.TableElement)
	require.NoError(t, document.AddColumn(elements, "Id", []int32{7, 8}))
	require.NoError(t, elements.AddStringColumn("Name", []string{"Wall", "Door"}))

	levels := db.Table(document.TableLevel)
	require.NoError(t, levels.AddNumericColumn("Elevation", []float64{0, 3.5}))
	require.NoError(t, levels.AddStringColumn("Name", []string{"Ground", "First"}))

	g := &g3d.GeometryBuilder{}
	g.AddVertex(math3d.Vector3{})
	g.AddVertex(math3d.Vector3{X: 1})
	g.AddVertex(math3d.Vector3{Y: 1})
	g.AddFace(0, 1, 2)
	gi, err := db.AddGeometry(g)
	require.NoError(t, err)

	db.AddNode(math3d.Identity(), gi, -1, -1)
	db.AddNode(math3d.Translation(math3d.Vector3{X: 5}), -1, 0, -1)
	db.AddAsset("readme.txt", []byte("hello"))
	return db
}

func levelNames(t *testing.T, doc *document.Document) []string {
	t.Helper()
	levels, err := doc.Table(document.TableLevel)
	require.NoError(t, err)
	names, err := levels.Strings("Name")
	require.NoError(t, err)
	return names
}

func TestSaveAndOpen(t *testing.T) {
	ctx := context.Background()

	for _, alg := range []archive.Algorithm{archive.None, archive.Zstd, archive.LZ4} {
		t.Run(alg.String(), func(t *testing.T) {
			store := blobstore.NewMemoryStore()
			require.NoError(t, Save(ctx, store, "tower.vim", sampleBuilder(t), WithCompression(alg)))

			b, err := store.Open(ctx, "tower.vim")
			require.NoError(t, err)
			prefix := make([]byte, 4)
			_, err = b.ReadAt(ctx, prefix, 0)
			require.NoError(t, err)
			assert.Equal(t, alg != archive.None, archive.IsArchive(prefix))

			doc, err := Open(ctx, store, "tower.vim")
			require.NoError(t, err)
			assert.Equal(t, []string{"Ground", "First"}, levelNames(t, doc))
			assert.Len(t, doc.Nodes(), 2)

			data, ok := doc.Asset("readme.txt")
			require.True(t, ok)
			assert.Equal(t, "hello", string(data))
		})
	}
}

func TestSaveDocument(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	doc, err := sampleBuilder(t).Build()
	require.NoError(t, err)
	require.NoError(t, Save(ctx, store, "copy.vim", doc))

	reopened, err := Open(ctx, store, "copy.vim")
	require.NoError(t, err)
	assert.Equal(t, levelNames(t, doc), levelNames(t, reopened))
}

func TestOpenFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "models", "tower.vim")

	require.NoError(t, SaveFile(ctx, path, sampleBuilder(t), WithCompression(archive.Zstd)))

	doc, err := OpenFile(ctx, path, WithSkipGeometry(), WithSkipAssets())
	require.NoError(t, err)
	assert.Equal(t, []string{"Ground", "First"}, levelNames(t, doc))
	assert.Len(t, doc.Nodes(), 2)
	_, err = doc.Geometry()
	assert.ErrorIs(t, err, document.ErrGeometryNotLoaded)
	assert.Empty(t, doc.Assets())
}

func TestOpen_NotFound(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}

	_, err := Open(ctx, blobstore.NewMemoryStore(), "missing.vim", WithMetricsCollector(metrics))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	var oe *OpenError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "open", oe.Op)
	assert.Equal(t, "missing.vim", oe.Name)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.LoadCount)
	assert.Equal(t, int64(1), stats.LoadErrors)

	_, err = OpenFile(ctx, filepath.Join(t.TempDir(), "nope.vim"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen_Malformed(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Put(ctx, "bad.vim", []byte{1, 2, 3}))

	_, err := Open(ctx, store, "bad.vim")
	assert.ErrorIs(t, err, ErrTruncatedStream)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestOpen_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, Save(ctx, store, "z.vim", sampleBuilder(t), WithCompression(archive.None)))

	var packed bytes.Buffer
	raw, err := blobstore.ReadAll(ctx, mustOpen(t, store, "z.vim"))
	require.NoError(t, err)
	_, err = archive.CompressBytes(&packed, raw, archive.LZ4)
	require.NoError(t, err)
	corrupt := packed.Bytes()
	corrupt[20] ^= 0xff // inside the digest
	require.NoError(t, store.Put(ctx, "z.vim", corrupt))

	_, err = Open(ctx, store, "z.vim")
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func mustOpen(t *testing.T, store blobstore.BlobStore, name string) blobstore.Blob {
	t.Helper()
	b, err := store.Open(context.Background(), name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestSave_Nil(t *testing.T) {
	err := Save(context.Background(), blobstore.NewMemoryStore(), "x.vim", nil)
	assert.ErrorIs(t, err, ErrNilSource)
}

func TestOpenScene(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, Save(ctx, store, "tower.vim", sampleBuilder(t)))

	metrics := &BasicMetricsCollector{}
	sc, err := OpenScene(ctx, store, "tower.vim",
		WithMetricsCollector(metrics),
		WithSceneOptions(scene.WithConcurrency(1)),
	)
	require.NoError(t, err)
	require.Len(t, sc.Nodes, 2)
	assert.Equal(t, int32(0), sc.Nodes[1].Geometry)
	assert.True(t, sc.Nodes[1].Transform.ApproxEqual(math3d.Translation(math3d.Vector3{X: 5}), 1e-9))

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.LoadCount)
	assert.Equal(t, int64(1), stats.ExpandCount)
	assert.Equal(t, int64(2), stats.ExpandNodes)
	assert.Positive(t, stats.LoadBytes)
}

func TestResourceController(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	rc := resource.NewController(resource.Config{
		MaxConcurrentLoads: 1,
		MemoryLimitBytes:   1 << 20,
		IOLimitBytesPerSec: 1 << 30,
	})

	require.NoError(t, Save(ctx, store, "tower.vim", sampleBuilder(t), WithResourceController(rc)))
	_, err := Open(ctx, store, "tower.vim", WithResourceController(rc))
	require.NoError(t, err)

	assert.Zero(t, rc.ActiveLoads())
	assert.Zero(t, rc.MemoryUsage())
	assert.Positive(t, rc.IOBytes())

	// A held slot blocks the next load until ctx expires.
	require.True(t, rc.TryAcquireLoad())
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Open(canceled, store, "tower.vim", WithResourceController(rc))
	assert.ErrorIs(t, err, context.Canceled)
	rc.ReleaseLoad()
}

func TestLogging(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := blobstore.NewMemoryStore()
	require.NoError(t, Save(ctx, store, "tower.vim", sampleBuilder(t), WithLogger(logger)))
	_, err := Open(ctx, store, "tower.vim", WithLogger(logger.WithTable("ignored")))
	require.NoError(t, err)
	_, _ = Open(ctx, store, "missing.vim", WithLogger(logger))

	out := buf.String()
	assert.Contains(t, out, `"msg":"document saved"`)
	assert.Contains(t, out, `"msg":"document loaded"`)
	assert.Contains(t, out, `"msg":"load failed"`)
	assert.Contains(t, out, `"table":"ignored"`)
}

func TestRandomDocuments(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	db := testutil.NewRNG(4711).Document(testutil.DefaultDocumentConfig())

	var plain bytes.Buffer
	_, err := db.WriteTo(&plain)
	require.NoError(t, err)
	want, err := document.ReadBytes(plain.Bytes())
	require.NoError(t, err)
	var wantBytes bytes.Buffer
	_, err = want.WriteTo(&wantBytes)
	require.NoError(t, err)

	for _, alg := range []archive.Algorithm{archive.None, archive.Zstd, archive.LZ4} {
		name := "random-" + alg.String() + ".vim"
		require.NoError(t, Save(ctx, store, name, db, WithCompression(alg)))

		got, err := Open(ctx, store, name)
		require.NoError(t, err)
		var gotBytes bytes.Buffer
		_, err = got.WriteTo(&gotBytes)
		require.NoError(t, err)
		assert.Equal(t, wantBytes.Bytes(), gotBytes.Bytes(), alg.String())
	}
}
