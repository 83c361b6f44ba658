package g3d

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vimgo/math3d"
)

// ErrInvalidGeometry is returned by GeometryBuilder.Finish.
var ErrInvalidGeometry = errors.New("g3d: invalid geometry")

// GeometryBuilder accumulates one triangle mesh. Indices are relative to the
// builder's own vertices.
type GeometryBuilder struct {
	Vertices    []math3d.Vector3
	UVs         []math3d.Vector2
	Colors      []math3d.Vector4
	Indices     []int32
	MaterialIDs []int32
	GroupIDs    []int32
}

// AddVertex appends a vertex and returns its index.
func (b *GeometryBuilder) AddVertex(v math3d.Vector3) int32 {
	b.Vertices = append(b.Vertices, v)
	return int32(len(b.Vertices) - 1)
}

// AddUV appends a texture coordinate.
func (b *GeometryBuilder) AddUV(uv math3d.Vector2) {
	b.UVs = append(b.UVs, uv)
}

// AddColor appends a vertex color.
func (b *GeometryBuilder) AddColor(c math3d.Vector4) {
	b.Colors = append(b.Colors, c)
}

// AddFace appends a triangle.
func (b *GeometryBuilder) AddFace(a, c, d int32) {
	b.Indices = append(b.Indices, a, c, d)
}

// AddMaterialID sets the material of the next face.
func (b *GeometryBuilder) AddMaterialID(id int32) {
	b.MaterialIDs = append(b.MaterialIDs, id)
}

// AddGroupID sets the group of the next face.
func (b *GeometryBuilder) AddGroupID(id int32) {
	b.GroupIDs = append(b.GroupIDs, id)
}

// NumFaces returns the triangle count.
func (b *GeometryBuilder) NumFaces() int {
	return len(b.Indices) / 3
}

// Box returns the bounding box of the vertices.
func (b *GeometryBuilder) Box() math3d.AABox {
	return math3d.BoxFromPoints(b.Vertices)
}

// Finish pads missing UVs with zero vectors and missing material and group
// ids with -1, then validates the mesh.
func (b *GeometryBuilder) Finish() error {
	for len(b.UVs) < len(b.Vertices) {
		b.UVs = append(b.UVs, math3d.Vector2{})
	}
	faces := b.NumFaces()
	for len(b.MaterialIDs) < faces {
		b.MaterialIDs = append(b.MaterialIDs, -1)
	}
	for len(b.GroupIDs) < faces {
		b.GroupIDs = append(b.GroupIDs, -1)
	}
	return b.Validate()
}

// Validate checks the attribute counts and index range.
func (b *GeometryBuilder) Validate() error {
	if len(b.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrInvalidGeometry, len(b.Indices))
	}
	if len(b.UVs) != len(b.Vertices) {
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrInvalidGeometry, len(b.UVs), len(b.Vertices))
	}
	if len(b.Colors) > len(b.Vertices) {
		return fmt.Errorf("%w: %d colors for %d vertices", ErrInvalidGeometry, len(b.Colors), len(b.Vertices))
	}
	faces := b.NumFaces()
	if len(b.MaterialIDs) != faces {
		return fmt.Errorf("%w: %d material ids for %d faces", ErrInvalidGeometry, len(b.MaterialIDs), faces)
	}
	if len(b.GroupIDs) != faces {
		return fmt.Errorf("%w: %d group ids for %d faces", ErrInvalidGeometry, len(b.GroupIDs), faces)
	}
	for i, idx := range b.Indices {
		if idx < 0 || int(idx) >= len(b.Vertices) {
			return fmt.Errorf("%w: index %d at corner %d outside [0, %d)", ErrInvalidGeometry, idx, i, len(b.Vertices))
		}
	}
	return nil
}
