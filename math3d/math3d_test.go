package math3d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix_Mul(t *testing.T) {
	t.Run("identity is neutral", func(t *testing.T) {
		m := Translation(Vector3{1, 2, 3})
		assert.Equal(t, m, m.Mul(Identity()))
		assert.Equal(t, m, Identity().Mul(m))
	})

	t.Run("row-vector composition applies left first", func(t *testing.T) {
		scale := Scaling(Vector3{2, 2, 2})
		move := Translation(Vector3{10, 0, 0})

		p := Vector3{1, 0, 0}
		assert.Equal(t, Vector3{12, 0, 0}, p.Transform(scale.Mul(move)))
		assert.Equal(t, Vector3{22, 0, 0}, p.Transform(move.Mul(scale)))
	})
}

func TestMatrix_Invert(t *testing.T) {
	t.Run("affine", func(t *testing.T) {
		m := Scaling(Vector3{2, 4, 0.5}).Mul(Translation(Vector3{1, -2, 3}))
		inv, ok := m.Invert()
		require.True(t, ok)
		assert.True(t, m.Mul(inv).ApproxEqual(Identity(), 1e-6))
		assert.True(t, inv.Mul(m).ApproxEqual(Identity(), 1e-6))
	})

	t.Run("rotation", func(t *testing.T) {
		c, s := float32(math.Cos(0.3)), float32(math.Sin(0.3))
		rot := Matrix4x4{
			c, s, 0, 0,
			-s, c, 0, 0,
			0, 0, 1, 0,
			5, 6, 7, 1,
		}
		inv, ok := rot.Invert()
		require.True(t, ok)
		assert.True(t, rot.Mul(inv).ApproxEqual(Identity(), 1e-5))
	})

	t.Run("singular", func(t *testing.T) {
		m := Scaling(Vector3{1, 0, 1})
		assert.Zero(t, m.Determinant())
		_, ok := m.Invert()
		assert.False(t, ok)

		var zero Matrix4x4
		_, ok = zero.Invert()
		assert.False(t, ok)
	})

	t.Run("non-finite", func(t *testing.T) {
		m := Identity()
		m[0] = float32(math.NaN())
		_, ok := m.Invert()
		assert.False(t, ok)
	})
}

func TestMatrix_Accessors(t *testing.T) {
	m := Translation(Vector3{1, 2, 3})
	assert.Equal(t, Vector3{1, 2, 3}, m.Translation())
	assert.Equal(t, float32(2), m.At(3, 1))
	assert.False(t, m.IsIdentity())
	assert.True(t, Identity().IsIdentity())
	assert.InDelta(t, 1.0, Identity().Determinant(), 1e-12)
}

func TestBox(t *testing.T) {
	assert.True(t, EmptyBox().IsEmpty())
	assert.True(t, BoxFromPoints(nil).IsEmpty())

	b := BoxFromPoints([]Vector3{{1, 5, -1}, {-2, 0, 3}, {0, 1, 0}})
	assert.False(t, b.IsEmpty())
	assert.Equal(t, Vector3{-2, 0, -1}, b.Min)
	assert.Equal(t, Vector3{1, 5, 3}, b.Max)
	assert.Equal(t, Vector3{3, 5, 4}, b.Extent())
	assert.Equal(t, Vector3{-0.5, 2.5, 1}, b.Center())

	merged := b.Merge(AABox{Min: Vector3{0, 0, 0}, Max: Vector3{10, 1, 1}})
	assert.Equal(t, float32(10), merged.Max.X)
	assert.Equal(t, DVector3{-2, 0, -1}, b.ToDouble().Min)
}

func TestVector(t *testing.T) {
	v := Vector3{3, 4, 0}
	assert.InDelta(t, 5.0, float64(v.Length()), 1e-6)
	assert.Equal(t, Vector3{4, 6, 2}, v.Add(Vector3{1, 2, 2}))
	assert.Equal(t, Vector3{2, 2, -2}, v.Sub(Vector3{1, 2, 2}))
}
