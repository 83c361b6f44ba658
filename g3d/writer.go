package g3d

import (
	"io"

	"github.com/hupe1980/vimgo/bfast"
	"github.com/hupe1980/vimgo/column"
	"github.com/hupe1980/vimgo/math3d"
)

// Writer serializes a list of meshes in the legacy concatenated layout.
// It is a bfast.Component, so it can be embedded directly in a document.
type Writer struct {
	Header    Header
	UseColors bool

	geometries []*GeometryBuilder
	container  *bfast.Builder
}

// NewWriter prepares the container for the given meshes. The meshes must
// already be finished and must not change until the writer has been written.
func NewWriter(geometries []*GeometryBuilder, useColors bool) (*Writer, error) {
	w := &Writer{
		Header:     DefaultHeader,
		UseColors:  useColors,
		geometries: geometries,
	}
	if err := w.build(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) build() error {
	var numVertices, numCorners, numFaces int
	for _, g := range w.geometries {
		numVertices += len(g.Vertices)
		numCorners += len(g.Indices)
		numFaces += g.NumFaces()
	}

	c := bfast.NewBuilder()
	add := func(name string, elems int, fn func(io.Writer) error) error {
		d, err := ParseDescriptor(name)
		if err != nil {
			return err
		}
		return c.AddFunc(name, int64(elems*d.ElementSize()), fn)
	}

	if err := c.AddBytes(MetaName, w.Header.Bytes()); err != nil {
		return err
	}
	if err := add(Position, numVertices, w.writePositions); err != nil {
		return err
	}
	if err := add(Index, numCorners, w.writeIndices); err != nil {
		return err
	}
	if err := add(UV, numVertices, w.writeUVs); err != nil {
		return err
	}
	if err := add(MaterialID, numFaces, w.perFace(func(g *GeometryBuilder) []int32 { return g.MaterialIDs })); err != nil {
		return err
	}
	if err := add(GroupID, numFaces, w.perFace(func(g *GeometryBuilder) []int32 { return g.GroupIDs })); err != nil {
		return err
	}
	if err := add(IndexOffset, len(w.geometries), w.writeOffsets(func(g *GeometryBuilder) int { return len(g.Indices) })); err != nil {
		return err
	}
	if err := add(VertexOffset, len(w.geometries), w.writeOffsets(func(g *GeometryBuilder) int { return len(g.Vertices) })); err != nil {
		return err
	}
	if w.UseColors {
		if err := add(Color, numVertices, w.writeColors); err != nil {
			return err
		}
	}
	w.container = c
	return nil
}

// Size implements bfast.Component.
func (w *Writer) Size() int64 {
	return w.container.Size()
}

// WriteTo implements bfast.Component.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	return w.container.WriteTo(out)
}

func (w *Writer) writePositions(out io.Writer) error {
	for _, g := range w.geometries {
		buf := make([]float32, 0, len(g.Vertices)*3)
		for _, v := range g.Vertices {
			buf = append(buf, v.X, v.Y, v.Z)
		}
		if _, err := out.Write(column.Float32Bytes(buf)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeUVs(out io.Writer) error {
	for _, g := range w.geometries {
		buf := make([]float32, 0, len(g.Vertices)*2)
		for i := range g.Vertices {
			var uv math3d.Vector2
			if i < len(g.UVs) {
				uv = g.UVs[i]
			}
			buf = append(buf, uv.X, uv.Y)
		}
		if _, err := out.Write(column.Float32Bytes(buf)); err != nil {
			return err
		}
	}
	return nil
}

// writeColors pads meshes without colors with transparent black.
func (w *Writer) writeColors(out io.Writer) error {
	for _, g := range w.geometries {
		buf := make([]float32, 0, len(g.Vertices)*4)
		for i := range g.Vertices {
			var c math3d.Vector4
			if i < len(g.Colors) {
				c = g.Colors[i]
			}
			buf = append(buf, c.X, c.Y, c.Z, c.W)
		}
		if _, err := out.Write(column.Float32Bytes(buf)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeIndices(out io.Writer) error {
	var offset int32
	for _, g := range w.geometries {
		buf := make([]int32, len(g.Indices))
		for i, idx := range g.Indices {
			buf[i] = idx + offset
		}
		if _, err := out.Write(column.Int32Bytes(buf)); err != nil {
			return err
		}
		offset += int32(len(g.Vertices))
	}
	return nil
}

// perFace writes exactly NumFaces values per mesh, padding with -1.
func (w *Writer) perFace(get func(*GeometryBuilder) []int32) func(io.Writer) error {
	return func(out io.Writer) error {
		for _, g := range w.geometries {
			ids := get(g)
			buf := make([]int32, g.NumFaces())
			for i := range buf {
				buf[i] = -1
				if i < len(ids) {
					buf[i] = ids[i]
				}
			}
			if _, err := out.Write(column.Int32Bytes(buf)); err != nil {
				return err
			}
		}
		return nil
	}
}

func (w *Writer) writeOffsets(count func(*GeometryBuilder) int) func(io.Writer) error {
	return func(out io.Writer) error {
		buf := make([]int32, len(w.geometries))
		var offset int32
		for i, g := range w.geometries {
			buf[i] = offset
			offset += int32(count(g))
		}
		_, err := out.Write(column.Int32Bytes(buf))
		return err
	}
}
