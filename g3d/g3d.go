package g3d

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/hupe1980/vimgo/bfast"
	"github.com/hupe1980/vimgo/column"
	"github.com/hupe1980/vimgo/math3d"
)

// MetaName is the name of the header entry.
const MetaName = "meta"

var (
	// ErrAttributeSize is returned when an attribute's byte length is not a
	// multiple of its element size.
	ErrAttributeSize = errors.New("g3d: attribute size is not a multiple of its element size")

	// ErrMeshOutOfRange is returned by Mesh for an unknown geometry index.
	ErrMeshOutOfRange = errors.New("g3d: mesh index out of range")
)

// Attribute is one raw attribute array.
type Attribute struct {
	Descriptor Descriptor
	Data       []byte
}

// Len returns the number of elements.
func (a Attribute) Len() int {
	return len(a.Data) / a.Descriptor.ElementSize()
}

// G3D is a parsed geometry buffer. Attribute data aliases the input bytes.
type G3D struct {
	Header     Header
	Attributes []Attribute

	byName map[string]int
}

// Read parses a geometry buffer. Entries whose names are not attribute
// descriptors are ignored.
func Read(data []byte) (*G3D, error) {
	r, err := bfast.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("g3d: %w", err)
	}
	entries := r.Entries()
	if len(entries) == 0 || entries[0].Name != MetaName {
		return nil, fmt.Errorf("%w: first entry is not %q", ErrInvalidHeader, MetaName)
	}

	meta := data[r.Header().DataStart+int64(entries[0].Offset):]
	header, err := ParseHeader(meta[:min(len(meta), int(entries[0].Length))])
	if err != nil {
		return nil, err
	}

	g := &G3D{
		Header: header,
		byName: make(map[string]int, len(entries)-1),
	}
	for _, e := range entries[1:] {
		d, err := ParseDescriptor(e.Name)
		if err != nil {
			continue
		}
		start := r.Header().DataStart + int64(e.Offset)
		body := data[start : start+int64(e.Length)]
		if len(body)%d.ElementSize() != 0 {
			return nil, fmt.Errorf("%w: %s has %d bytes", ErrAttributeSize, e.Name, len(body))
		}
		if _, dup := g.byName[e.Name]; dup {
			continue
		}
		g.byName[e.Name] = len(g.Attributes)
		g.Attributes = append(g.Attributes, Attribute{Descriptor: d, Data: body})
	}
	return g, nil
}

// Attribute returns the attribute with the given descriptor string.
func (g *G3D) Attribute(name string) (Attribute, bool) {
	i, ok := g.byName[name]
	if !ok {
		return Attribute{}, false
	}
	return g.Attributes[i], true
}

func (g *G3D) int32s(name string) []int32 {
	a, ok := g.Attribute(name)
	if !ok {
		return nil
	}
	return column.DecodeInt32s(a.Data)
}

func (g *G3D) float32s(name string) []float32 {
	a, ok := g.Attribute(name)
	if !ok {
		return nil
	}
	return column.DecodeFloat32s(a.Data)
}

// Positions returns all vertex positions.
func (g *G3D) Positions() []math3d.Vector3 {
	f := g.float32s(Position)
	out := make([]math3d.Vector3, len(f)/3)
	for i := range out {
		out[i] = math3d.Vector3{X: f[i*3], Y: f[i*3+1], Z: f[i*3+2]}
	}
	return out
}

// UVs returns all vertex texture coordinates.
func (g *G3D) UVs() []math3d.Vector2 {
	f := g.float32s(UV)
	out := make([]math3d.Vector2, len(f)/2)
	for i := range out {
		out[i] = math3d.Vector2{X: f[i*2], Y: f[i*2+1]}
	}
	return out
}

// Colors returns all vertex colors, or nil when the buffer has none.
func (g *G3D) Colors() []math3d.Vector4 {
	f := g.float32s(Color)
	if f == nil {
		return nil
	}
	out := make([]math3d.Vector4, len(f)/4)
	for i := range out {
		out[i] = math3d.Vector4{X: f[i*4], Y: f[i*4+1], Z: f[i*4+2], W: f[i*4+3]}
	}
	return out
}

// Indices returns the global corner indices.
func (g *G3D) Indices() []int32 { return g.int32s(Index) }

// MaterialIDs returns the per-face material ids.
func (g *G3D) MaterialIDs() []int32 { return g.int32s(MaterialID) }

// GroupIDs returns the per-face group ids.
func (g *G3D) GroupIDs() []int32 { return g.int32s(GroupID) }

// IndexOffsets returns the first corner of every geometry.
func (g *G3D) IndexOffsets() []int32 { return g.int32s(IndexOffset) }

// VertexOffsets returns the first vertex of every geometry.
func (g *G3D) VertexOffsets() []int32 { return g.int32s(VertexOffset) }

// NumMeshes returns the number of geometries.
func (g *G3D) NumMeshes() int {
	a, ok := g.Attribute(VertexOffset)
	if !ok {
		return 0
	}
	return a.Len()
}

// NumVertices returns the total vertex count.
func (g *G3D) NumVertices() int {
	a, ok := g.Attribute(Position)
	if !ok {
		return 0
	}
	return a.Len()
}

// NumCorners returns the total corner count.
func (g *G3D) NumCorners() int {
	a, ok := g.Attribute(Index)
	if !ok {
		return 0
	}
	return a.Len()
}

// Mesh is one geometry with indices relative to its own vertices.
type Mesh struct {
	Vertices    []math3d.Vector3
	UVs         []math3d.Vector2
	Colors      []math3d.Vector4
	Indices     []int32
	MaterialIDs []int32
	GroupIDs    []int32
}

// NumFaces returns the triangle count.
func (m *Mesh) NumFaces() int {
	return len(m.Indices) / 3
}

// Box returns the bounding box of the vertices.
func (m *Mesh) Box() math3d.AABox {
	return math3d.BoxFromPoints(m.Vertices)
}

// Mesh extracts geometry i.
func (g *G3D) Mesh(i int) (*Mesh, error) {
	vOffsets, iOffsets := g.VertexOffsets(), g.IndexOffsets()
	if i < 0 || i >= len(vOffsets) || i >= len(iOffsets) {
		return nil, fmt.Errorf("%w: %d of %d", ErrMeshOutOfRange, i, len(vOffsets))
	}

	vStart, vEnd := int(vOffsets[i]), g.NumVertices()
	if i+1 < len(vOffsets) {
		vEnd = int(vOffsets[i+1])
	}
	iStart, iEnd := int(iOffsets[i]), g.NumCorners()
	if i+1 < len(iOffsets) {
		iEnd = int(iOffsets[i+1])
	}
	if vStart < 0 || vStart > vEnd || vEnd > g.NumVertices() || iStart < 0 || iStart > iEnd || iEnd > g.NumCorners() {
		return nil, fmt.Errorf("%w: mesh %d has invalid offsets", ErrMeshOutOfRange, i)
	}

	m := &Mesh{Vertices: g.Positions()[vStart:vEnd]}
	if uvs := g.UVs(); len(uvs) >= vEnd {
		m.UVs = uvs[vStart:vEnd]
	}
	if colors := g.Colors(); len(colors) >= vEnd {
		m.Colors = colors[vStart:vEnd]
	}

	global := g.Indices()[iStart:iEnd]
	m.Indices = make([]int32, len(global))
	for k, idx := range global {
		m.Indices[k] = idx - int32(vStart)
	}

	fStart, fEnd := iStart/3, iEnd/3
	if ids := g.MaterialIDs(); len(ids) >= fEnd {
		m.MaterialIDs = ids[fStart:fEnd]
	}
	if ids := g.GroupIDs(); len(ids) >= fEnd {
		m.GroupIDs = ids[fStart:fEnd]
	}
	return m, nil
}

// Meshes extracts every geometry.
func (g *G3D) Meshes() ([]*Mesh, error) {
	out := make([]*Mesh, g.NumMeshes())
	for i := range out {
		m, err := g.Mesh(i)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}
