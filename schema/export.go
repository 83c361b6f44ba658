package schema

import (
	"fmt"
	"io"

	"github.com/hupe1980/vimgo/codec"
)

// Export writes s to w encoded with c. A nil codec selects codec.Default.
// The output is compact and stable for a given schema.
func Export(w io.Writer, s VimSchema, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}
	return export(w, s, c, c.Marshal)
}

// ExportIndent is Export with the codec's human-readable layout, for
// snapshots kept under version control.
func ExportIndent(w io.Writer, s VimSchema, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}
	return export(w, s, c, func(v any) ([]byte, error) { return codec.Indent(c, v) })
}

func export(w io.Writer, s VimSchema, c codec.Codec, marshal func(any) ([]byte, error)) error {
	data, err := marshal(s)
	if err != nil {
		return fmt.Errorf("schema: encode %s: %w", c.Name(), err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("schema: write: %w", err)
	}
	return nil
}

// Import reads a schema written by Export with the same codec.
func Import(r io.Reader, c codec.Codec) (VimSchema, error) {
	if c == nil {
		c = codec.Default
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return VimSchema{}, fmt.Errorf("schema: read: %w", err)
	}
	var s VimSchema
	if err := c.Unmarshal(data, &s); err != nil {
		return VimSchema{}, fmt.Errorf("schema: decode %s: %w", c.Name(), err)
	}
	return s, nil
}
