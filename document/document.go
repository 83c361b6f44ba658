package document

import (
	"fmt"
	"io"
	"sync"

	"github.com/hupe1980/vimgo/bfast"
	"github.com/hupe1980/vimgo/g3d"
	"github.com/hupe1980/vimgo/strtable"
)

// Asset is a named binary blob such as a texture.
type Asset struct {
	Name string
	Data []byte
}

// Document is a fully read VIM file. It is immutable.
type Document struct {
	header  Header
	strings *strtable.Table

	// header buffer as read, written back verbatim
	headerText string

	tables     map[string]*EntityTable
	tableOrder []*EntityTable

	assets     map[string]int
	assetOrder []Asset

	geometryRaw  []byte
	geometryOnce sync.Once
	geometry     *g3d.G3D
	geometryErr  error

	nodes []Node

	// buffers that were present but skipped by load options
	skipped []string
}

// Header returns the parsed file header.
func (d *Document) Header() Header { return d.header }

// StringTable returns the shared string table.
func (d *Document) StringTable() *strtable.Table { return d.strings }

// String resolves a string id.
func (d *Document) String(id int32) (string, error) { return d.strings.Get(id) }

// Table looks up a table by name or key: "Rvt.Element", "table:Rvt.Element"
// and "Element" are equivalent.
func (d *Document) Table(name string) (*EntityTable, error) {
	t, ok := d.tables[TableKey(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return t, nil
}

// HasTable reports whether a table exists.
func (d *Document) HasTable(name string) bool {
	_, ok := d.tables[TableKey(name)]
	return ok
}

// Tables returns the tables in file order.
func (d *Document) Tables() []*EntityTable { return d.tableOrder }

// Asset returns an asset by full name.
func (d *Document) Asset(name string) ([]byte, bool) {
	i, ok := d.assets[name]
	if !ok {
		return nil, false
	}
	return d.assetOrder[i].Data, true
}

// Assets returns the assets in file order.
func (d *Document) Assets() []Asset { return d.assetOrder }

// Texture returns a texture by name without the texture prefix.
func (d *Document) Texture(name string) ([]byte, bool) {
	return d.Asset(TexturePrefix + name)
}

// Textures returns the texture assets in file order.
func (d *Document) Textures() []Asset {
	var out []Asset
	for _, a := range d.assetOrder {
		if IsTexture(a.Name) {
			out = append(out, a)
		}
	}
	return out
}

// Nodes returns the flat scene node array. The slice must not be modified.
func (d *Document) Nodes() []Node { return d.nodes }

// GeometryBytes returns the raw geometry buffer, or nil when skipped.
func (d *Document) GeometryBytes() []byte { return d.geometryRaw }

// Geometry parses the geometry buffer on first use.
func (d *Document) Geometry() (*g3d.G3D, error) {
	if d.geometryRaw == nil {
		return nil, ErrGeometryNotLoaded
	}
	d.geometryOnce.Do(func() {
		d.geometry, d.geometryErr = g3d.Read(d.geometryRaw)
	})
	return d.geometry, d.geometryErr
}

// Skipped returns the names of buffers that were present but not loaded.
func (d *Document) Skipped() []string { return d.skipped }

// Container returns the document as a bfast container. Buffers skipped at
// load time are omitted.
func (d *Document) Container() (*bfast.Builder, error) {
	tables := make([]*SerializableTable, len(d.tableOrder))
	for i, t := range d.tableOrder {
		tables[i] = t.serializable()
	}
	parts := &parts{
		header:     d.header,
		headerText: d.headerText,
		assets:     d.assetOrder,
		tables:     tables,
		strings:    d.strings.Pack(),
		nodes:      d.nodes,
	}
	if d.geometryRaw != nil {
		parts.geometry = bfast.Bytes(d.geometryRaw)
	}
	return parts.container()
}

// WriteTo re-serializes the document.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	c, err := d.Container()
	if err != nil {
		return 0, err
	}
	return c.WriteTo(w)
}
