// Package math3d provides the small set of vector, box and matrix types the
// VIM format stores on disk.
//
// Matrices use the row-vector convention: a point p is transformed as p*M,
// translation lives in the fourth row, and M = Local.Mul(Parent) composes a
// local transform under its parent. Storage is row-major float32, matching
// the 64-byte transform of a serialized scene node.
package math3d
