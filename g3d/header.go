package g3d

import (
	"errors"
	"fmt"
)

// HeaderSize is the byte length of the meta entry.
const HeaderSize = 8

// ErrInvalidHeader is returned when the meta entry is missing or malformed.
var ErrInvalidHeader = errors.New("g3d: invalid header")

// Header is the meta entry of a G3D.
type Header struct {
	MagicA        byte
	MagicB        byte
	UnitA         byte
	UnitB         byte
	UpAxis        byte
	ForwardVector byte
	Handedness    byte
	Padding       byte
}

// DefaultHeader is meters, Z up, right-handed.
var DefaultHeader = Header{
	MagicA: 0x63,
	MagicB: 0xD0,
	UnitA:  'm',
	UpAxis: 2,
}

// Bytes returns the 8-byte encoding.
func (h Header) Bytes() []byte {
	return []byte{h.MagicA, h.MagicB, h.UnitA, h.UnitB, h.UpAxis, h.ForwardVector, h.Handedness, h.Padding}
}

// ParseHeader decodes and validates a meta entry.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrInvalidHeader, len(b))
	}
	h := Header{b[0], b[1], b[2], b[3], b[4], b[5], b[6], b[7]}
	if h.MagicA != DefaultHeader.MagicA || h.MagicB != DefaultHeader.MagicB {
		return Header{}, fmt.Errorf("%w: magic 0x%02x%02x", ErrInvalidHeader, h.MagicA, h.MagicB)
	}
	if h.UpAxis > 2 || h.ForwardVector > 2 || h.Handedness > 1 {
		return Header{}, fmt.Errorf("%w: axis settings %d/%d/%d", ErrInvalidHeader, h.UpAxis, h.ForwardVector, h.Handedness)
	}
	return h, nil
}
