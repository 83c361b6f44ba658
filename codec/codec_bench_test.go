package codec_test

import (
	"testing"

	"github.com/hupe1980/vimgo/codec"
	"github.com/hupe1980/vimgo/schema"
	"github.com/hupe1980/vimgo/testutil"
)

// benchSchema is the schema of a generated document, the largest value the
// codecs encode in practice.
func benchSchema(b *testing.B) schema.VimSchema {
	b.Helper()
	doc, err := testutil.NewRNG(7).Document(testutil.DefaultDocumentConfig()).Build()
	if err != nil {
		b.Fatal(err)
	}
	return schema.FromDocument(doc)
}

func BenchmarkMarshalSchema(b *testing.B) {
	s := benchSchema(b)
	for _, name := range codec.Names {
		c, _ := codec.ByName(name)
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			size := len(codec.MustMarshal(c, s))
			b.SetBytes(int64(size))
			for b.Loop() {
				if _, err := c.Marshal(s); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkUnmarshalSchema(b *testing.B) {
	s := benchSchema(b)
	for _, name := range codec.Names {
		c, _ := codec.ByName(name)
		data := codec.MustMarshal(c, s)
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				var out schema.VimSchema
				if err := c.Unmarshal(data, &out); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
