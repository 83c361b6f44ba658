package math3d

import "math"

// Vector2 is a single-precision 2D vector.
type Vector2 struct{ X, Y float32 }

// Vector3 is a single-precision 3D vector.
type Vector3 struct{ X, Y, Z float32 }

// Vector4 is a single-precision 4D vector.
type Vector4 struct{ X, Y, Z, W float32 }

// DVector2 is a double-precision 2D vector.
type DVector2 struct{ X, Y float64 }

// DVector3 is a double-precision 3D vector.
type DVector3 struct{ X, Y, Z float64 }

// DVector4 is a double-precision 4D vector.
type DVector4 struct{ X, Y, Z, W float64 }

// Add returns v+o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v-o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v*s.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Min returns the component-wise minimum.
func (v Vector3) Min(o Vector3) Vector3 {
	return Vector3{min(v.X, o.X), min(v.Y, o.Y), min(v.Z, o.Z)}
}

// Max returns the component-wise maximum.
func (v Vector3) Max(o Vector3) Vector3 {
	return Vector3{max(v.X, o.X), max(v.Y, o.Y), max(v.Z, o.Z)}
}

// Length returns the Euclidean length.
func (v Vector3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// ToDouble widens v to double precision.
func (v Vector3) ToDouble() DVector3 {
	return DVector3{float64(v.X), float64(v.Y), float64(v.Z)}
}

// Transform applies m to the point v (w = 1).
func (v Vector3) Transform(m Matrix4x4) Vector3 {
	return Vector3{
		v.X*m[0] + v.Y*m[4] + v.Z*m[8] + m[12],
		v.X*m[1] + v.Y*m[5] + v.Z*m[9] + m[13],
		v.X*m[2] + v.Y*m[6] + v.Z*m[10] + m[14],
	}
}
