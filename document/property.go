package document

import (
	"encoding/binary"
	"fmt"
)

// PropertySize is the on-disk size of a Property.
const PropertySize = 12

// Property is a sparse name/value pair attached to one row. Name and Value
// are string table ids.
type Property struct {
	EntityIndex int32
	Name        int32
	Value       int32
}

// ResolvedProperty is a Property with its strings looked up.
type ResolvedProperty struct {
	EntityIndex int32
	Name        string
	Value       string
}

func encodeProperties(props []Property) []byte {
	out := make([]byte, len(props)*PropertySize)
	for i, p := range props {
		b := out[i*PropertySize:]
		binary.LittleEndian.PutUint32(b[0:], uint32(p.EntityIndex))
		binary.LittleEndian.PutUint32(b[4:], uint32(p.Name))
		binary.LittleEndian.PutUint32(b[8:], uint32(p.Value))
	}
	return out
}

func decodeProperties(data []byte) ([]Property, error) {
	if len(data)%PropertySize != 0 {
		return nil, fmt.Errorf("%w: properties buffer of %d bytes is not a multiple of %d", ErrSizeMismatch, len(data), PropertySize)
	}
	props := make([]Property, len(data)/PropertySize)
	for i := range props {
		b := data[i*PropertySize:]
		props[i] = Property{
			EntityIndex: int32(binary.LittleEndian.Uint32(b[0:])),
			Name:        int32(binary.LittleEndian.Uint32(b[4:])),
			Value:       int32(binary.LittleEndian.Uint32(b[8:])),
		}
	}
	return props, nil
}
