package g3d

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Attribute descriptors of the legacy VIM geometry layout.
const (
	Position     = "g3d:vertex:position:0:float32:3"
	Index        = "g3d:corner:index:0:int32:1"
	UV           = "g3d:vertex:uv:0:float32:2"
	MaterialID   = "g3d:face:materialid:0:int32:1"
	GroupID      = "g3d:face:groupid:0:int32:1"
	IndexOffset  = "g3d:group:indexoffset:0:int32:1"
	VertexOffset = "g3d:group:vertexoffset:0:int32:1"
	Color        = "g3d:vertex:color:0:float32:4"
)

// LegacyAttributes lists the attributes written for every document, in order.
var LegacyAttributes = []string{Position, Index, UV, MaterialID, GroupID, IndexOffset, VertexOffset}

// ErrInvalidDescriptor is returned for malformed attribute names.
var ErrInvalidDescriptor = errors.New("g3d: invalid attribute descriptor")

var dataTypeSizes = map[string]int{
	"uint8":   1,
	"int8":    1,
	"int16":   2,
	"uint16":  2,
	"int32":   4,
	"uint32":  4,
	"float32": 4,
	"int64":   8,
	"uint64":  8,
	"float64": 8,
}

// Descriptor is a parsed attribute name.
type Descriptor struct {
	Association string
	Semantic    string
	Index       int
	DataType    string
	Arity       int
}

// ParseDescriptor parses "g3d:<association>:<semantic>:<index>:<datatype>:<arity>".
func ParseDescriptor(s string) (Descriptor, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 6 || parts[0] != "g3d" {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrInvalidDescriptor, s)
	}
	index, err := strconv.Atoi(parts[3])
	if err != nil || index < 0 {
		return Descriptor{}, fmt.Errorf("%w: %q: bad index", ErrInvalidDescriptor, s)
	}
	if _, ok := dataTypeSizes[parts[4]]; !ok {
		return Descriptor{}, fmt.Errorf("%w: %q: unknown data type %q", ErrInvalidDescriptor, s, parts[4])
	}
	arity, err := strconv.Atoi(parts[5])
	if err != nil || arity <= 0 {
		return Descriptor{}, fmt.Errorf("%w: %q: bad arity", ErrInvalidDescriptor, s)
	}
	return Descriptor{
		Association: parts[1],
		Semantic:    parts[2],
		Index:       index,
		DataType:    parts[4],
		Arity:       arity,
	}, nil
}

func (d Descriptor) String() string {
	return fmt.Sprintf("g3d:%s:%s:%d:%s:%d", d.Association, d.Semantic, d.Index, d.DataType, d.Arity)
}

// ElementSize returns the byte size of one element (data type size × arity).
func (d Descriptor) ElementSize() int {
	return dataTypeSizes[d.DataType] * d.Arity
}
