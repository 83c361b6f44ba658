package column

import (
	"fmt"
	"strings"
)

// Kind identifies the element type and meaning of a column.
type Kind uint8

const (
	// Index columns are int32 relations into another table.
	Index Kind = iota + 1
	// Numeric columns are float64 values.
	Numeric
	// String columns are int32 ids into the string table.
	String
)

// Entry name prefixes used inside a serialized table.
const (
	IndexPrefix   = "index:"
	NumericPrefix = "numeric:"
	StringPrefix  = "string:"

	// PropertiesName is the table entry holding the property records.
	PropertiesName = "properties"
)

// Kinds lists every column kind in serialization order.
var Kinds = [...]Kind{Numeric, Index, String}

func (k Kind) String() string {
	switch k {
	case Index:
		return "index"
	case Numeric:
		return "numeric"
	case String:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind parses "index", "numeric" or "string".
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := ParseKind(k.String()); !ok {
		return nil, fmt.Errorf("column: invalid kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("column: unknown kind %q", text)
	}
	*k = parsed
	return nil
}

// Prefix returns the entry name prefix of the kind.
func (k Kind) Prefix() string {
	return k.String() + ":"
}

// Stride returns the byte size of one element.
func (k Kind) Stride() int {
	if k == Numeric {
		return 8
	}
	return 4
}

// Key identifies a column within a table. Two columns of different kinds
// never collide even when they share a name.
type Key struct {
	Kind Kind
	Name string
}

// EntryName returns the prefixed name used inside a serialized table.
func (k Key) EntryName() string {
	return k.Kind.Prefix() + k.Name
}

func (k Key) String() string {
	return k.EntryName()
}

// ParseEntryName maps a serialized table entry name to a column key. It
// reports false for the properties entry and for unknown prefixes.
func ParseEntryName(name string) (Key, bool) {
	switch {
	case strings.HasPrefix(name, IndexPrefix):
		return Key{Kind: Index, Name: name[len(IndexPrefix):]}, true
	case strings.HasPrefix(name, NumericPrefix):
		return Key{Kind: Numeric, Name: name[len(NumericPrefix):]}, true
	case strings.HasPrefix(name, StringPrefix):
		return Key{Kind: String, Name: name[len(StringPrefix):]}, true
	default:
		return Key{}, false
	}
}
