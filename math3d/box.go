package math3d

import "math"

// AABox is a single-precision axis-aligned bounding box.
type AABox struct{ Min, Max Vector3 }

// DAABox is a double-precision axis-aligned bounding box.
type DAABox struct{ Min, Max DVector3 }

// EmptyBox returns the box that contains nothing; merging any point into it
// yields a box around that point.
func EmptyBox() AABox {
	inf := float32(math.Inf(1))
	return AABox{
		Min: Vector3{inf, inf, inf},
		Max: Vector3{-inf, -inf, -inf},
	}
}

// BoxFromPoints returns the smallest box containing every point.
// No points gives EmptyBox.
func BoxFromPoints(points []Vector3) AABox {
	b := EmptyBox()
	for _, p := range points {
		b = b.MergePoint(p)
	}
	return b
}

// MergePoint grows the box to contain p.
func (b AABox) MergePoint(p Vector3) AABox {
	return AABox{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Merge returns the union of two boxes.
func (b AABox) Merge(o AABox) AABox {
	return AABox{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// IsEmpty reports whether the box contains no points.
func (b AABox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Center returns the midpoint of the box.
func (b AABox) Center() Vector3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extent returns Max-Min.
func (b AABox) Extent() Vector3 {
	return b.Max.Sub(b.Min)
}

// ToDouble widens the box to double precision.
func (b AABox) ToDouble() DAABox {
	return DAABox{Min: b.Min.ToDouble(), Max: b.Max.ToDouble()}
}
