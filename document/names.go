package document

import (
	"fmt"
	"path"
	"strings"
)

// Top-level buffer names, in write order.
const (
	BufferHeader   = "header"
	BufferAssets   = "assets"
	BufferEntities = "entities"
	BufferStrings  = "strings"
	BufferGeometry = "geometry"
	BufferNodes    = "nodes"
)

// TablePrefix prefixes every entry of the entities container.
const TablePrefix = "table:"

// Well-known table names.
const (
	TableGeometry  = "Vim.Geometry"
	TableNode      = "Vim.Node"
	TableDocuments = "Vim.Documents"
	TableAssets    = "Vim.Assets"

	TableMaterial         = "Rvt.Material"
	TableFamily           = "Rvt.Family"
	TableFamilyInstance   = "Rvt.FamilyInstance"
	TableFamilyType       = "Rvt.FamilyType"
	TableElement          = "Rvt.Element"
	TableFace             = "Rvt.Face"
	TableCategory         = "Rvt.Category"
	TableLevel            = "Rvt.Level"
	TablePhase            = "Rvt.Phase"
	TableRoom             = "Rvt.Room"
	TableView             = "Rvt.View"
	TableCamera           = "Rvt.Camera"
	TableWorkset          = "Rvt.Workset"
	TableDesignOption     = "Rvt.DesignOption"
	TableAssemblyInstance = "Rvt.AssemblyInstance"
	TableGroup            = "Rvt.Group"
	TableModel            = "Rvt.Model"
)

// ComputedTables are rebuilt by DocumentBuilder on every write and are never
// copied between documents.
var ComputedTables = map[string]bool{
	TableGeometry: true,
}

// NonBIMTables hold structural data rather than building information.
var NonBIMTables = map[string]bool{
	TableGeometry:  true,
	TableNode:      true,
	TableDocuments: true,
	TableAssets:    true,
	TableMaterial:  true,
}

// TexturePrefix prefixes texture asset names.
const TexturePrefix = `textures\`

var textureExtensions = []string{".png", ".jpg", ".jpeg", ".bmp"}

// SimplifiedName strips everything up to and including the first ':'.
// "table:Rvt.Element" becomes "Rvt.Element" and "Rvt.Level:Level" becomes
// "Level".
func SimplifiedName(s string) string {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// TableKey returns the lookup key of a table name: the part after the last
// '.' or ':'. "Rvt.Element" and "table:Rvt.Element" both map to "Element".
func TableKey(name string) string {
	return name[strings.LastIndexAny(name, ".:")+1:]
}

// SplitIndexName splits an index column name into related table and field.
func SplitIndexName(name string) (table, field string, err error) {
	parts := strings.Split(name, ":")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedColumnName, name)
	}
	return parts[0], parts[1], nil
}

// IndexColumnName joins a related table and a field name.
func IndexColumnName(relatedTable, field string) string {
	return relatedTable + ":" + field
}

// IsTextureExtension reports whether ext (with leading dot) is a texture
// file extension. The comparison ignores case.
func IsTextureExtension(ext string) bool {
	for _, t := range textureExtensions {
		if strings.EqualFold(ext, t) {
			return true
		}
	}
	return false
}

// IsTexture reports whether an asset name denotes a texture.
func IsTexture(assetName string) bool {
	return strings.HasPrefix(assetName, TexturePrefix)
}

// TextureFileName returns the part of an asset name after the last forward
// or backward slash.
func TextureFileName(assetName string) string {
	i := strings.LastIndexAny(assetName, `/\`)
	if i < 0 || i >= len(assetName)-1 {
		return assetName
	}
	return assetName[i+1:]
}

// TextureExtension returns the extension of a texture asset name.
func TextureExtension(assetName string) string {
	return path.Ext(TextureFileName(assetName))
}
