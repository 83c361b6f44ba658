package document

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/vimgo/bfast"
	"github.com/hupe1980/vimgo/g3d"
	"github.com/hupe1980/vimgo/math3d"
	"github.com/hupe1980/vimgo/strtable"
)

// DocumentBuilder accumulates tables, assets, geometry and nodes and writes
// them as a VIM file. It is not safe for concurrent use.
type DocumentBuilder struct {
	header    Header
	useColors bool
	logger    *slog.Logger

	tables     map[string]*TableBuilder
	tableOrder []*TableBuilder

	assets     map[string]int
	assetOrder []Asset

	geometries []*g3d.GeometryBuilder
	nodes      []Node
}

// NewDocumentBuilder creates an empty builder writing the current header.
func NewDocumentBuilder(opts ...Option) *DocumentBuilder {
	o := applyOptions(opts)
	return &DocumentBuilder{
		header:    o.header,
		useColors: o.useColors,
		logger:    o.logger,
		tables:    make(map[string]*TableBuilder),
		assets:    make(map[string]int),
	}
}

// SetHeader replaces the header to write.
func (db *DocumentBuilder) SetHeader(h Header) { db.header = h }

// UseColors controls whether per-vertex colors are written.
func (db *DocumentBuilder) UseColors(enabled bool) { db.useColors = enabled }

// Table returns the named table, creating it if needed.
func (db *DocumentBuilder) Table(name string) *TableBuilder {
	if tb, ok := db.tables[name]; ok {
		return tb
	}
	tb := NewTableBuilder(name)
	db.tables[name] = tb
	db.tableOrder = append(db.tableOrder, tb)
	return tb
}

// CreateTable creates a table and fails if it already exists.
func (db *DocumentBuilder) CreateTable(name string) (*TableBuilder, error) {
	if _, ok := db.tables[name]; ok {
		return nil, &TableError{Table: name, Err: ErrDuplicateTable}
	}
	return db.Table(name), nil
}

// Tables returns the table builders in creation order.
func (db *DocumentBuilder) Tables() []*TableBuilder { return db.tableOrder }

// AddAsset adds a named blob. The first asset added under a name wins.
func (db *DocumentBuilder) AddAsset(name string, data []byte) {
	if _, ok := db.assets[name]; ok {
		return
	}
	db.assets[name] = len(db.assetOrder)
	db.assetOrder = append(db.assetOrder, Asset{Name: name, Data: data})
}

// AddGeometry finishes g and appends it, returning its geometry index.
func (db *DocumentBuilder) AddGeometry(g *g3d.GeometryBuilder) (int32, error) {
	if err := g.Finish(); err != nil {
		return -1, fmt.Errorf("geometry %d: %w", len(db.geometries), err)
	}
	db.geometries = append(db.geometries, g)
	return int32(len(db.geometries) - 1), nil
}

// Geometries returns the geometries added so far.
func (db *DocumentBuilder) Geometries() []*g3d.GeometryBuilder { return db.geometries }

// AddNode appends a scene node and returns its index.
func (db *DocumentBuilder) AddNode(transform math3d.Matrix4x4, geometry, instance, parent int32) int32 {
	db.nodes = append(db.nodes, Node{
		Parent:    parent,
		Geometry:  geometry,
		Instance:  instance,
		Transform: transform,
	})
	return int32(len(db.nodes) - 1)
}

// Nodes returns the nodes added so far.
func (db *DocumentBuilder) Nodes() []Node { return db.nodes }

// computeGeometryTable rebuilds the Vim.Geometry table from the geometries.
func (db *DocumentBuilder) computeGeometryTable() error {
	tb := db.Table(TableGeometry)
	tb.Clear()

	boxes := make([]math3d.AABox, len(db.geometries))
	vertexCounts := make([]int, len(db.geometries))
	faceCounts := make([]int, len(db.geometries))
	for i, g := range db.geometries {
		boxes[i] = g.Box()
		vertexCounts[i] = len(g.Vertices)
		faceCounts[i] = g.NumFaces()
	}
	if err := tb.AddAABoxColumn("Box", boxes); err != nil {
		return err
	}
	if err := AddColumn(tb, "VertexCount", vertexCounts); err != nil {
		return err
	}
	return AddColumn(tb, "FaceCount", faceCounts)
}

// StringTable interns every string of every table: the empty string first,
// then each table's strings in table creation order.
func (db *DocumentBuilder) StringTable() *strtable.Builder {
	sb := strtable.NewBuilder()
	for _, tb := range db.tableOrder {
		sb.InternAll(tb.Strings())
	}
	return sb
}

// Component returns the document as a bfast container. The geometry table
// is recomputed.
func (db *DocumentBuilder) Component() (*bfast.Builder, error) {
	if err := db.computeGeometryTable(); err != nil {
		return nil, err
	}

	sb := db.StringTable()
	tables := make([]*SerializableTable, len(db.tableOrder))
	for i, tb := range db.tableOrder {
		t, err := tb.Build(sb)
		if err != nil {
			return nil, err
		}
		tables[i] = t
	}

	geometry, err := g3d.NewWriter(db.geometries, db.useColors)
	if err != nil {
		return nil, err
	}

	if db.logger != nil {
		db.logger.Debug("building document",
			"header", db.header.String(),
			"tables", len(tables),
			"strings", sb.Len(),
			"geometries", len(db.geometries),
			"nodes", len(db.nodes),
			"assets", len(db.assetOrder))
	}

	p := &parts{
		header:   db.header,
		assets:   db.assetOrder,
		tables:   tables,
		strings:  sb.Pack(),
		geometry: geometry,
		nodes:    db.nodes,
	}
	return p.container()
}

// WriteTo serializes the document.
func (db *DocumentBuilder) WriteTo(w io.Writer) (int64, error) {
	c, err := db.Component()
	if err != nil {
		return 0, err
	}
	return c.WriteTo(w)
}

// Build serializes the document and reads it back.
func (db *DocumentBuilder) Build(opts ...Option) (*Document, error) {
	var buf bytes.Buffer
	if _, err := db.WriteTo(&buf); err != nil {
		return nil, err
	}
	if db.logger != nil {
		opts = append([]Option{WithLogger(db.logger)}, opts...)
	}
	return ReadBytes(buf.Bytes(), opts...)
}
