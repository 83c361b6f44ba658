package column

// Number is any Go numeric type that can be widened to a numeric column.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Widen converts values to float64, the only on-disk numeric type.
func Widen[T Number](values []T) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// FromBools converts booleans to 1.0 and 0.0.
func FromBools(values []bool) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v {
			out[i] = 1
		}
	}
	return out
}

// Bool reports whether a numeric column value encodes true.
func Bool(v float64) bool {
	return v != 0
}
