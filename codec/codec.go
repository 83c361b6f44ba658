// Package codec centralizes the encodings used for schema snapshots,
// manifests and CLI output.
//
// Persisted snapshots record the codec name, so a codec change is a
// breaking change for bytes written by older codecs.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Names lists the built-in codec names accepted by ByName.
var Names = []string{"json", "go-json", "cbor", "yaml"}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	case "cbor":
		return CBOR{}, true
	case "yaml", "yml":
		return YAML{}, true
	default:
		return nil, false
	}
}

// Indenter is implemented by codecs with a human-readable layout.
type Indenter interface {
	MarshalIndent(v any) ([]byte, error)
}

// Indent encodes v with c, indented when c implements Indenter. Binary
// codecs fall back to Marshal.
func Indent(c Codec, v any) ([]byte, error) {
	if c == nil {
		c = Default
	}
	if i, ok := c.(Indenter); ok {
		return i.MarshalIndent(v)
	}
	return c.Marshal(v)
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
