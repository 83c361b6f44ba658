package math3d

import "math"

// Matrix4x4 is a row-major single-precision 4x4 matrix (row-vector convention).
// Element (r, c) is at index r*4+c.
type Matrix4x4 [16]float32

// Identity returns the identity matrix.
func Identity() Matrix4x4 {
	return Matrix4x4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a matrix translating by t.
func Translation(t Vector3) Matrix4x4 {
	m := Identity()
	m[12], m[13], m[14] = t.X, t.Y, t.Z
	return m
}

// Scaling returns a matrix scaling by s.
func Scaling(s Vector3) Matrix4x4 {
	m := Identity()
	m[0], m[5], m[10] = s.X, s.Y, s.Z
	return m
}

// At returns element (r, c).
func (m Matrix4x4) At(r, c int) float32 {
	return m[r*4+c]
}

// Mul returns m*o. Under the row-vector convention this applies m first.
func (m Matrix4x4) Mul(o Matrix4x4) Matrix4x4 {
	var out Matrix4x4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = m[r*4]*o[c] + m[r*4+1]*o[4+c] + m[r*4+2]*o[8+c] + m[r*4+3]*o[12+c]
		}
	}
	return out
}

// Translation returns the translation component.
func (m Matrix4x4) Translation() Vector3 {
	return Vector3{m[12], m[13], m[14]}
}

// IsIdentity reports whether m is exactly the identity.
func (m Matrix4x4) IsIdentity() bool {
	return m == Identity()
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Matrix4x4) ApproxEqual(o Matrix4x4, eps float32) bool {
	for i := range m {
		if d := m[i] - o[i]; d > eps || d < -eps {
			return false
		}
	}
	return true
}

// Determinant returns the determinant, computed in double precision.
func (m Matrix4x4) Determinant() float64 {
	_, det := m.cofactors()
	return det
}

// Invert returns the inverse of m. It reports false when m is singular or
// contains non-finite values.
func (m Matrix4x4) Invert() (Matrix4x4, bool) {
	cof, det := m.cofactors()
	if math.IsNaN(det) || math.IsInf(det, 0) || math.Abs(det) < math.SmallestNonzeroFloat32 {
		return Matrix4x4{}, false
	}

	inv := 1 / det
	var out Matrix4x4
	for i, c := range cof {
		v := float32(c * inv)
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return Matrix4x4{}, false
		}
		out[i] = v
	}
	return out, true
}

// cofactors returns the adjugate (transposed cofactor matrix) and the
// determinant, both in double precision.
func (m Matrix4x4) cofactors() ([16]float64, float64) {
	var a [16]float64
	for i, v := range m {
		a[i] = float64(v)
	}

	s0 := a[0]*a[5] - a[4]*a[1]
	s1 := a[0]*a[6] - a[4]*a[2]
	s2 := a[0]*a[7] - a[4]*a[3]
	s3 := a[1]*a[6] - a[5]*a[2]
	s4 := a[1]*a[7] - a[5]*a[3]
	s5 := a[2]*a[7] - a[6]*a[3]

	c5 := a[10]*a[15] - a[14]*a[11]
	c4 := a[9]*a[15] - a[13]*a[11]
	c3 := a[9]*a[14] - a[13]*a[10]
	c2 := a[8]*a[15] - a[12]*a[11]
	c1 := a[8]*a[14] - a[12]*a[10]
	c0 := a[8]*a[13] - a[12]*a[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0

	var adj [16]float64
	adj[0] = a[5]*c5 - a[6]*c4 + a[7]*c3
	adj[1] = -a[1]*c5 + a[2]*c4 - a[3]*c3
	adj[2] = a[13]*s5 - a[14]*s4 + a[15]*s3
	adj[3] = -a[9]*s5 + a[10]*s4 - a[11]*s3

	adj[4] = -a[4]*c5 + a[6]*c2 - a[7]*c1
	adj[5] = a[0]*c5 - a[2]*c2 + a[3]*c1
	adj[6] = -a[12]*s5 + a[14]*s2 - a[15]*s1
	adj[7] = a[8]*s5 - a[10]*s2 + a[11]*s1

	adj[8] = a[4]*c4 - a[5]*c2 + a[7]*c0
	adj[9] = -a[0]*c4 + a[1]*c2 - a[3]*c0
	adj[10] = a[12]*s4 - a[13]*s2 + a[15]*s0
	adj[11] = -a[8]*s4 + a[9]*s2 - a[11]*s0

	adj[12] = -a[4]*c3 + a[5]*c1 - a[6]*c0
	adj[13] = a[0]*c3 - a[1]*c1 + a[2]*c0
	adj[14] = -a[12]*s3 + a[13]*s1 - a[14]*s0
	adj[15] = a[8]*s3 - a[9]*s1 + a[10]*s0

	return adj, det
}
