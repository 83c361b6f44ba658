package codec

import "encoding/json"

// JSON is the standard-library JSON codec.
//
// Use it when output must match encoding/json exactly, e.g. for
// fixtures compared byte for byte.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// MarshalIndent encodes the value as two-space indented JSON.
func (JSON) MarshalIndent(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }

// Default is the codec used for schema exports and CLI output when none is
// chosen.
var Default Codec = GoJSON{}
