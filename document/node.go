package document

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/vimgo/math3d"
)

// NodeSize is the on-disk size of a Node: three int32 and sixteen float32.
const NodeSize = 3*4 + 16*4

// Node is one scene graph record.
type Node struct {
	// Parent is the parent node index, or -1 for a root.
	Parent int32
	// Geometry is the geometry index, or -1.
	Geometry int32
	// Instance is the index of the node whose subtree this node reuses,
	// or -1.
	Instance int32
	// Transform is row-major.
	Transform math3d.Matrix4x4
}

// DefaultNode is a root node without geometry or instance.
func DefaultNode() Node {
	return Node{Parent: -1, Geometry: -1, Instance: -1, Transform: math3d.Identity()}
}

// IsInstance reports whether the node reuses another node's subtree.
func (n Node) IsInstance() bool {
	return n.Instance >= 0
}

// EncodeNodes returns the packed little-endian records.
func EncodeNodes(nodes []Node) []byte {
	out := make([]byte, len(nodes)*NodeSize)
	for i, n := range nodes {
		b := out[i*NodeSize:]
		binary.LittleEndian.PutUint32(b[0:], uint32(n.Parent))
		binary.LittleEndian.PutUint32(b[4:], uint32(n.Geometry))
		binary.LittleEndian.PutUint32(b[8:], uint32(n.Instance))
		for j, f := range n.Transform {
			binary.LittleEndian.PutUint32(b[12+j*4:], math.Float32bits(f))
		}
	}
	return out
}

// DecodeNodes parses packed node records.
func DecodeNodes(data []byte) ([]Node, error) {
	if len(data)%NodeSize != 0 {
		return nil, fmt.Errorf("%w: nodes buffer of %d bytes is not a multiple of %d", ErrSizeMismatch, len(data), NodeSize)
	}
	nodes := make([]Node, len(data)/NodeSize)
	for i := range nodes {
		b := data[i*NodeSize:]
		n := &nodes[i]
		n.Parent = int32(binary.LittleEndian.Uint32(b[0:]))
		n.Geometry = int32(binary.LittleEndian.Uint32(b[4:]))
		n.Instance = int32(binary.LittleEndian.Uint32(b[8:]))
		for j := range n.Transform {
			n.Transform[j] = math.Float32frombits(binary.LittleEndian.Uint32(b[12+j*4:]))
		}
	}
	return nodes, nil
}
