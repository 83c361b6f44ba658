package column

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// littleEndian reports whether the host stores integers little-endian, in
// which case on-disk arrays can be reinterpreted without copying.
var littleEndian = func() bool {
	var probe uint16 = 0x0001
	return *(*byte)(unsafe.Pointer(&probe)) == 1
}()

func aligned(data []byte, align uintptr) bool {
	return uintptr(unsafe.Pointer(unsafe.SliceData(data)))%align == 0
}

func viewInt32s(data []byte) ([]int32, bool) {
	if len(data) == 0 {
		return []int32{}, true
	}
	if !littleEndian || !aligned(data, unsafe.Alignof(int32(0))) {
		return nil, false
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&data[0])), len(data)/4), true
}

func viewFloat32s(data []byte) ([]float32, bool) {
	if len(data) == 0 {
		return []float32{}, true
	}
	if !littleEndian || !aligned(data, unsafe.Alignof(float32(0))) {
		return nil, false
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), len(data)/4), true
}

func viewFloat64s(data []byte) ([]float64, bool) {
	if len(data) == 0 {
		return []float64{}, true
	}
	if !littleEndian || !aligned(data, unsafe.Alignof(float64(0))) {
		return nil, false
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), len(data)/8), true
}

func int32Bytes(values []int32) []byte {
	if len(values) == 0 {
		return nil
	}
	if littleEndian {
		return unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), len(values)*4)
	}
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(v))
	}
	return out
}

func float32Bytes(values []float32) []byte {
	if len(values) == 0 {
		return nil
	}
	if littleEndian {
		return unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), len(values)*4)
	}
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func float64Bytes(values []float64) []byte {
	if len(values) == 0 {
		return nil
	}
	if littleEndian {
		return unsafe.Slice((*byte)(unsafe.Pointer(&values[0])), len(values)*8)
	}
	out := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(v))
	}
	return out
}
