package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader("vim:0.9:objectmodel:3.5.0")
	require.NoError(t, err)
	assert.Equal(t, Version{0, 9, 0}, h.FileVersion)
	assert.Equal(t, Version{3, 5, 0}, h.ObjectModelVersion)
	assert.Equal(t, "vim:0.9:objectmodel:3.5.0", h.String())
	assert.Equal(t, SupportedHeaders[len(SupportedHeaders)-1], CurrentHeader().String())

	other, err := ParseHeader("vim:1:objectmodel:9.9")
	require.NoError(t, err)
	assert.Equal(t, "vim:1.0.0:objectmodel:9.9.0", other.String())

	for _, s := range []string{"", "vim:0.9:objectmodel", "bim:0.9:objectmodel:3.5.0", "vim:0.9:model:3.5.0", "vim:0.9:objectmodel:3.5.0:x"} {
		_, err := ParseHeader(s)
		assert.ErrorIs(t, err, ErrMalformedHeader, s)
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"", Version{}},
		{"2", Version{Major: 2}},
		{"2.1", Version{Major: 2, Minor: 1}},
		{"2.1.7", Version{2, 1, 7}},
		{"2.x.7", Version{Major: 2, Patch: 7}},
		{"2.1.7.9", Version{2, 1, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVersion(tt.in))
		})
	}

	assert.Equal(t, -1, Version{3, 0, 0}.Compare(Version{3, 1, 0}))
	assert.Equal(t, 1, Version{3, 0, 1}.Compare(Version{3, 0, 0}))
	assert.Zero(t, Version{3, 0, 1}.Compare(Version{3, 0, 1}))
}

func TestSupportedHeaders(t *testing.T) {
	current := CurrentHeader()
	assert.Equal(t, Version{3, 5, 0}, current.ObjectModelVersion)
	assert.True(t, current.IsSupported())

	for _, s := range SupportedHeaders {
		h, err := ParseHeader(s)
		require.NoError(t, err)
		assert.True(t, h.IsSupported(), s)
	}

	old, err := ParseHeader("vim:0.9:objectmodel:1.0")
	require.NoError(t, err)
	assert.False(t, old.IsSupported())
}

func TestExpansionMode(t *testing.T) {
	legacy, err := ParseHeader("vim:0.9:objectmodel:2.0")
	require.NoError(t, err)
	assert.Equal(t, WorldSpaceGeometry, legacy.ExpansionMode())
	assert.Equal(t, LocalGeometry, CurrentHeader().ExpansionMode())
	assert.Equal(t, "local", LocalGeometry.String())
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Rvt.Element", SimplifiedName("table:Rvt.Element"))
	assert.Equal(t, "Level", SimplifiedName("Rvt.Level:Level"))
	assert.Equal(t, "Plain", SimplifiedName("Plain"))

	assert.Equal(t, "Element", TableKey("Rvt.Element"))
	assert.Equal(t, "Element", TableKey("table:Rvt.Element"))
	assert.Equal(t, "Element", TableKey("Element"))

	table, field, err := SplitIndexName("Rvt.Level:Level")
	require.NoError(t, err)
	assert.Equal(t, "Rvt.Level", table)
	assert.Equal(t, "Level", field)
	for _, bad := range []string{"Level", "a:b:c"} {
		_, _, err := SplitIndexName(bad)
		assert.ErrorIs(t, err, ErrMalformedColumnName)
	}

	assert.True(t, IsTextureExtension(".PNG"))
	assert.True(t, IsTextureExtension(".jpeg"))
	assert.False(t, IsTextureExtension(".gif"))
	assert.True(t, IsTexture(`textures\brick.png`))
	assert.Equal(t, "brick.png", TextureFileName(`textures\sub/brick.png`))
	assert.Equal(t, "brick.png", TextureFileName("brick.png"))
	assert.Equal(t, `dir\`, TextureFileName(`dir\`))
	assert.Equal(t, ".png", TextureExtension(`textures\brick.png`))
}

func TestNodes(t *testing.T) {
	nodes := []Node{
		DefaultNode(),
		{Parent: 0, Geometry: 3, Instance: -1, Transform: [16]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}},
	}
	data := EncodeNodes(nodes)
	assert.Len(t, data, 2*NodeSize)
	assert.Equal(t, 76, NodeSize)

	got, err := DecodeNodes(data)
	require.NoError(t, err)
	assert.Equal(t, nodes, got)
	assert.False(t, got[0].IsInstance())

	_, err = DecodeNodes(data[:75])
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestProperties(t *testing.T) {
	props := []Property{{EntityIndex: 1, Name: 2, Value: 3}, {EntityIndex: -1, Name: 0, Value: 7}}
	data := encodeProperties(props)
	assert.Len(t, data, 24)

	got, err := decodeProperties(data)
	require.NoError(t, err)
	assert.Equal(t, props, got)

	_, err = decodeProperties(data[:13])
	assert.ErrorIs(t, err, ErrSizeMismatch)
}
