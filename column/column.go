package column

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Column is an immutable named array of one kind.
// Index and String columns use Int32s; Numeric columns use Float64s.
type Column struct {
	Key    Key
	ints   []int32
	floats []float64
}

// NewIndex creates an index column. Values are row indices or -1.
func NewIndex(name string, values []int32) Column {
	return Column{Key: Key{Kind: Index, Name: name}, ints: values}
}

// NewString creates a string column of string-table ids.
func NewString(name string, ids []int32) Column {
	return Column{Key: Key{Kind: String, Name: name}, ints: ids}
}

// NewNumeric creates a numeric column.
func NewNumeric(name string, values []float64) Column {
	return Column{Key: Key{Kind: Numeric, Name: name}, floats: values}
}

// Name returns the column name without its kind prefix.
func (c Column) Name() string {
	return c.Key.Name
}

// Kind returns the column kind.
func (c Column) Kind() Kind {
	return c.Key.Kind
}

// Len returns the number of rows.
func (c Column) Len() int {
	if c.Key.Kind == Numeric {
		return len(c.floats)
	}
	return len(c.ints)
}

// Int32s returns the values of an Index or String column, nil otherwise.
// The slice must not be modified.
func (c Column) Int32s() []int32 {
	return c.ints
}

// Float64s returns the values of a Numeric column, nil otherwise.
// The slice must not be modified.
func (c Column) Float64s() []float64 {
	return c.floats
}

// Size returns the encoded byte length. Column implements bfast.Component.
func (c Column) Size() int64 {
	return int64(c.Len()) * int64(c.Key.Kind.Stride())
}

// WriteTo writes the packed little-endian values.
func (c Column) WriteTo(w io.Writer) (int64, error) {
	var n int
	var err error
	if c.Key.Kind == Numeric {
		n, err = w.Write(float64Bytes(c.floats))
	} else {
		n, err = w.Write(int32Bytes(c.ints))
	}
	return int64(n), err
}

// Decode interprets data as a column of the given key.
//
// It fails with ErrSizeMismatch if the length is not a multiple of the
// element stride. On little-endian hosts aligned input is reinterpreted in
// place, so the caller must not modify data afterwards.
func Decode(key Key, data []byte) (Column, error) {
	stride := key.Kind.Stride()
	if len(data)%stride != 0 {
		return Column{}, &Error{
			Column: key.EntryName(),
			Err:    fmt.Errorf("%w: %d bytes, stride %d", ErrSizeMismatch, len(data), stride),
		}
	}

	switch key.Kind {
	case Numeric:
		return Column{Key: key, floats: DecodeFloat64s(data)}, nil
	case Index, String:
		return Column{Key: key, ints: DecodeInt32s(data)}, nil
	default:
		return Column{}, &Error{Column: key.EntryName(), Err: fmt.Errorf("unknown column kind %d", key.Kind)}
	}
}

// DecodeInt32s interprets data as packed little-endian int32 values.
// Trailing bytes that do not form a full element are ignored.
func DecodeInt32s(data []byte) []int32 {
	n := len(data) / 4
	if v, ok := viewInt32s(data[:n*4]); ok {
		return v
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}

// DecodeFloat32s interprets data as packed little-endian float32 values.
func DecodeFloat32s(data []byte) []float32 {
	n := len(data) / 4
	if v, ok := viewFloat32s(data[:n*4]); ok {
		return v
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}

// DecodeFloat64s interprets data as packed little-endian float64 values.
func DecodeFloat64s(data []byte) []float64 {
	n := len(data) / 8
	if v, ok := viewFloat64s(data[:n*8]); ok {
		return v
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return out
}

// Int32Bytes returns the little-endian encoding of values.
// On little-endian hosts the result aliases values.
func Int32Bytes(values []int32) []byte {
	return int32Bytes(values)
}

// Float32Bytes returns the little-endian encoding of values.
// On little-endian hosts the result aliases values.
func Float32Bytes(values []float32) []byte {
	return float32Bytes(values)
}

// Float64Bytes returns the little-endian encoding of values.
// On little-endian hosts the result aliases values.
func Float64Bytes(values []float64) []byte {
	return float64Bytes(values)
}

// CheckRowCount verifies that every column has the same length and returns
// it. No columns means zero rows.
func CheckRowCount(cols []Column) (int, error) {
	if len(cols) == 0 {
		return 0, nil
	}
	rows := cols[0].Len()
	for _, c := range cols[1:] {
		if c.Len() != rows {
			return 0, &Error{
				Column: c.Key.EntryName(),
				Err:    fmt.Errorf("%w: has %d rows, expected %d", ErrRowCountMismatch, c.Len(), rows),
			}
		}
	}
	return rows, nil
}
