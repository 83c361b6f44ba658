package document

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vimgo/bfast"
	"github.com/hupe1980/vimgo/column"
)

// declaredHeader encodes a single-entry container header claiming length
// bytes for name, with no body after it.
func declaredHeader(name string, length uint64) []byte {
	buf := binary.LittleEndian.AppendUint32(nil, 1)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(name)))
	buf = append(buf, name...)
	buf = binary.LittleEndian.AppendUint64(buf, 0)
	buf = binary.LittleEndian.AppendUint64(buf, length)
	for len(buf)%bfast.Alignment != 0 {
		buf = append(buf, 0)
	}
	return buf
}

// withNested builds a valid document container whose buffer holds a
// nested container with an entry claiming far more bytes than it has.
func withNested(t *testing.T, buffer, nested, entry string) []byte {
	t.Helper()
	inner := bfast.NewBuilder()
	require.NoError(t, inner.AddBytes(nested, declaredHeader(entry, 1<<62)))

	c := bfast.NewBuilder()
	require.NoError(t, c.AddBytes(BufferHeader, []byte(CurrentHeader().String())))
	require.NoError(t, c.Add(buffer, inner))
	require.NoError(t, c.AddBytes(BufferStrings, []byte{0}))
	data, err := c.Bytes()
	require.NoError(t, err)
	return data
}

func TestReadOversizedLengths(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"top-level buffer", declaredHeader(BufferStrings, 1<<62)},
		{"table column", withNested(t, BufferEntities, TablePrefix+"Rvt.Element", "numeric:X")},
		{"table properties", withNested(t, BufferEntities, TablePrefix+"Rvt.Element", column.PropertiesName)},
	}

	// The assets buffer is itself the container of asset entries.
	assets := bfast.NewBuilder()
	require.NoError(t, assets.AddBytes(BufferAssets, declaredHeader(TexturePrefix+"brick.png", 1<<62)))
	data, err := assets.Bytes()
	require.NoError(t, err)
	tests = append(tests, struct {
		name string
		data []byte
	}{"asset", data})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				_, err := ReadBytes(tt.data)
				assert.ErrorIs(t, err, bfast.ErrTruncatedStream)
			})
			require.NotPanics(t, func() {
				_, err := ReadFrom(bytes.NewReader(tt.data))
				assert.ErrorIs(t, err, bfast.ErrTruncatedStream)
			})
		})
	}
}

func TestReadOversizedTableError(t *testing.T) {
	data := withNested(t, BufferEntities, TablePrefix+"Rvt.Element", "numeric:X")
	_, err := ReadBytes(data)
	var te *TableError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "Rvt.Element", te.Table)
}

func TestReadAll(t *testing.T) {
	got, err := readAll("x", 5, bytes.NewReader([]byte("hello world")))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	got, err = readAll("empty", 0, bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = readAll("short", 8, bytes.NewReader([]byte("abc")))
	assert.ErrorIs(t, err, bfast.ErrTruncatedStream)

	_, err = readAll("huge", 1<<62, bytes.NewReader([]byte("abc")))
	assert.ErrorIs(t, err, bfast.ErrTruncatedStream)

	big := bytes.Repeat([]byte{7}, maxPrealloc+3)
	got, err = readAll("big", int64(len(big)), bytes.NewReader(big))
	require.NoError(t, err)
	assert.Equal(t, len(big), len(got))
	assert.Equal(t, byte(7), got[len(got)-1])
}

func TestHeaderRoundTripVerbatim(t *testing.T) {
	for _, text := range []string{"vim:0.9:objectmodel:3.5.0", "vim:0.9:objectmodel:2.0", "vim:1:objectmodel:9.9"} {
		t.Run(text, func(t *testing.T) {
			c := bfast.NewBuilder()
			require.NoError(t, c.AddBytes(BufferHeader, []byte(text)))
			data, err := c.Bytes()
			require.NoError(t, err)

			doc, err := ReadBytes(data)
			require.NoError(t, err)

			var buf bytes.Buffer
			_, err = doc.WriteTo(&buf)
			require.NoError(t, err)

			r, err := bfast.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
			require.NoError(t, err)
			got, err := r.Bytes(BufferHeader)
			require.NoError(t, err)
			assert.Equal(t, text, string(got))
		})
	}
}
