package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vimgo"
	"github.com/hupe1980/vimgo/archive"
	"github.com/hupe1980/vimgo/document"
	"github.com/hupe1980/vimgo/g3d"
	"github.com/hupe1980/vimgo/math3d"
)

func writeDocument(t *testing.T, levelElement int32) string {
	t.Helper()
	db := document.NewDocumentBuilder()

	elements := db.Table(document.TableElement)
	require.NoError(t, document.AddColumn(elements, "Id", []int32{7, 8}))

	levels := db.Table(document.TableLevel)
	require.NoError(t, levels.AddNumericColumn("Elevation", []float64{0}))
	require.NoError(t, levels.AddStringColumn("Name", []string{"Ground"}))
	require.NoError(t, levels.AddIndexColumn(document.TableElement, "Element", []int32{levelElement}))

	g := &g3d.GeometryBuilder{}
	g.AddVertex(math3d.Vector3{})
	g.AddVertex(math3d.Vector3{X: 1})
	g.AddVertex(math3d.Vector3{Y: 1})
	g.AddFace(0, 1, 2)
	gi, err := db.AddGeometry(g)
	require.NoError(t, err)

	db.AddNode(math3d.Identity(), gi, -1, -1)
	db.AddNode(math3d.Translation(math3d.Vector3{X: 2}), -1, 0, -1)
	db.AddNode(math3d.Translation(math3d.Vector3{Y: 3}), -1, 0, -1)
	db.AddAsset("textures/brick.png", []byte("png"))

	path := filepath.Join(t.TempDir(), "tower.vim")
	require.NoError(t, vimgo.SaveFile(context.Background(), path, db, vimgo.WithCompression(archive.Zstd)))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestInfo(t *testing.T) {
	path := writeDocument(t, 0)

	out, _, err := execute(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "tower.vim")
	assert.Contains(t, out, "objectmodel")
	assert.Contains(t, out, "mode:")

	out, _, err = execute(t, "--json", "info", path)
	require.NoError(t, err)
	var r infoReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "tower.vim", r.Name)
	assert.Equal(t, 3, r.Nodes)
	assert.Equal(t, 1, r.Geometries)
	assert.Equal(t, 3, r.Vertices)
	assert.Equal(t, 1, r.Assets)
	assert.Positive(t, r.Size)
	assert.Empty(t, r.Skipped)
}

func TestInfo_SkipGeometry(t *testing.T) {
	path := writeDocument(t, 0)

	out, _, err := execute(t, "--json", "--skip-geometry", "info", path)
	require.NoError(t, err)
	var r infoReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, 3, r.Nodes)
	assert.Zero(t, r.Geometries)
	assert.Contains(t, r.Skipped, document.BufferGeometry)
}

func TestTables(t *testing.T) {
	path := writeDocument(t, 0)

	out, _, err := execute(t, "tables", path)
	require.NoError(t, err)
	assert.Contains(t, out, document.TableLevel)
	assert.Contains(t, out, document.TableElement)

	out, _, err = execute(t, "--json", "tables", path)
	require.NoError(t, err)
	var rows []tableReport
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	var level tableReport
	for _, r := range rows {
		if r.Name == document.TableLevel {
			level = r
		}
	}
	assert.Equal(t, tableReport{Name: document.TableLevel, Rows: 1, Index: 1, Numeric: 1, String: 1}, level)
}

func TestValidate(t *testing.T) {
	out, _, err := execute(t, "validate", writeDocument(t, 1))
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	// 2 == rows of Rvt.Element passes the default check only.
	bounded := writeDocument(t, 2)
	_, _, err = execute(t, "validate", bounded)
	require.NoError(t, err)

	out, _, err = execute(t, "--strict", "--json", "validate", bounded)
	require.ErrorIs(t, err, errInvalid)
	var r validateReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.False(t, r.Valid)
	require.Len(t, r.Errors, 1)

	_, _, err = execute(t, "validate", writeDocument(t, 9))
	assert.ErrorIs(t, err, errInvalid)
}

func TestNodes(t *testing.T) {
	path := writeDocument(t, 0)

	out, _, err := execute(t, "--limit", "1", "nodes", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 more")

	out, _, err = execute(t, "--json", "nodes", path)
	require.NoError(t, err)
	var nodes []nodeReport
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	require.Len(t, nodes, 3)
	assert.Equal(t, int32(0), nodes[2].Geometry)
	assert.Equal(t, math3d.Vector3{Y: 3}, nodes[2].Transform.Translation())
}

func TestSchema(t *testing.T) {
	path := writeDocument(t, 0)

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			out, _, err := execute(t, "--format", format, "schema", path)
			require.NoError(t, err)
			assert.Contains(t, out, "Rvt.Level")
			assert.Contains(t, out, "Elevation")
		})
	}

	_, _, err := execute(t, "--format", "xml", "schema", path)
	assert.ErrorIs(t, err, errUsage)
}

func TestAssets(t *testing.T) {
	path := writeDocument(t, 0)

	out, _, err := execute(t, "assets", path)
	require.NoError(t, err)
	assert.Contains(t, out, "textures/brick.png")
	assert.Contains(t, out, "3 B")
}

func TestUsageErrors(t *testing.T) {
	path := writeDocument(t, 0)

	_, stderr, err := execute(t)
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, stderr, "Commands:")

	_, _, err = execute(t, "explode", path)
	assert.ErrorIs(t, err, errUsage)

	_, _, err = execute(t, "--bogus", "info", path)
	assert.ErrorIs(t, err, errUsage)

	_, _, err = execute(t, "info", "s3://bucket-only")
	assert.ErrorIs(t, err, errUsage)

	_, stderr, err = execute(t, "--help")
	assert.NoError(t, err)
	assert.Contains(t, stderr, "--skip-geometry")

	_, _, err = execute(t, "info", filepath.Join(t.TempDir(), "missing.vim"))
	assert.ErrorIs(t, err, vimgo.ErrNotFound)
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in, dir, name string
	}{
		{"tower.vim", ".", "tower.vim"},
		{"models/tower.vim", "models", "tower.vim"},
		{"/tower.vim", "/", "tower.vim"},
		{`C:\models\tower.vim`, `C:\models`, "tower.vim"},
	}
	for _, tt := range tests {
		dir, name := splitPath(tt.in)
		assert.Equal(t, tt.dir, dir, tt.in)
		assert.Equal(t, tt.name, name, tt.in)
	}
}
