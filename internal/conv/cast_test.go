//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint32(t *testing.T) {
	t.Run("valid zero", func(t *testing.T) {
		got, err := IntToUint32(0)
		assert.NoError(t, err)
		assert.Equal(t, uint32(0), got)
	})

	t.Run("invalid negative", func(t *testing.T) {
		_, err := IntToUint32(-1)
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("valid max int32", func(t *testing.T) {
		got, err := IntToUint32(math.MaxInt32)
		assert.NoError(t, err)
		assert.Equal(t, uint32(math.MaxInt32), got)
	})
}

func TestIntToInt32(t *testing.T) {
	got, err := IntToInt32(-5)
	require.NoError(t, err)
	assert.Equal(t, int32(-5), got)

	_, err = IntToInt32(math.MaxInt32 + 1)
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestUint64Conversions(t *testing.T) {
	n, err := Uint64ToInt(42)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = Uint64ToInt(math.MaxUint64)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Uint64ToInt64(math.MaxUint64)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Int64ToUint64(-1)
	assert.ErrorIs(t, err, ErrOverflow)

	v, err := Uint32ToInt(math.MaxUint32)
	require.NoError(t, err)
	assert.Equal(t, math.MaxUint32, v)
}
