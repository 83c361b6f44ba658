// Package vimgo reads and writes VIM documents: columnar BIM/CAD scenes made
// of entity tables, a global string table, geometry buffers and a scene graph
// of instanced nodes.
//
// # Quick Start
//
// Local files:
//
//	ctx := context.Background()
//	doc, _ := vimgo.OpenFile(ctx, "./tower.vim")
//	levels, _ := doc.Table("Rvt.Level")
//	names, _ := levels.Strings("Name")
//
// Blob stores (S3, MinIO, memory):
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("models/"))
//	doc, _ := vimgo.Open(ctx, store, "tower.vim", vimgo.WithSkipGeometry())
//
// # Writing
//
// Documents are assembled with document.DocumentBuilder and saved plain or
// inside a compressed envelope:
//
//	db := document.NewDocumentBuilder()
//	_ = db.Table("Rvt.Level").AddNumericColumn("Elevation", []float64{0, 3.5})
//	_ = vimgo.SaveFile(ctx, "./tower.vim.zst", db, vimgo.WithCompression(archive.Zstd))
//
// Open detects the envelope and decompresses transparently.
//
// # Scenes
//
// OpenScene loads a document and expands its instanced node graph into
// world-placed nodes with element lookups:
//
//	sc, _ := vimgo.OpenScene(ctx, store, "tower.vim")
//	for _, n := range sc.NodesForElement(42) {
//	    fmt.Println(n.Transform, n.Geometry)
//	}
//
// # Limits
//
// A resource.Controller bounds concurrent loads, buffered bytes and blob
// throughput:
//
//	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 64 << 20})
//	doc, _ := vimgo.Open(ctx, store, "tower.vim", vimgo.WithResourceController(rc))
package vimgo
