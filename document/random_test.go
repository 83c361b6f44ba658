package document_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vimgo/document"
	"github.com/hupe1980/vimgo/testutil"
)

func TestRandomDocumentsRoundTrip(t *testing.T) {
	cfg := testutil.DefaultDocumentConfig()
	for _, seed := range []int64{1, 2, 3, 4711} {
		t.Run(fmt.Sprint(seed), func(t *testing.T) {
			db := testutil.NewRNG(seed).Document(cfg)
			var buf bytes.Buffer
			_, err := db.WriteTo(&buf)
			require.NoError(t, err)

			doc, err := document.ReadBytes(buf.Bytes())
			require.NoError(t, err)
			streamed, err := document.ReadFrom(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)

			// Random-access and streaming reads agree.
			var a, b bytes.Buffer
			_, err = doc.WriteTo(&a)
			require.NoError(t, err)
			_, err = streamed.WriteTo(&b)
			require.NoError(t, err)
			assert.Equal(t, a.Bytes(), b.Bytes())

			assert.Equal(t, db.Nodes(), doc.Nodes())
			require.NoError(t, doc.ValidateRelationsStrict())

			elements, err := doc.Table(document.TableElement)
			require.NoError(t, err)
			names, err := elements.Strings("Name")
			require.NoError(t, err)
			require.Len(t, names, cfg.Elements)
			for i, name := range names {
				assert.Equal(t, fmt.Sprintf("Element %d", i), name)
			}
			ids, ok := elements.Numeric("Id")
			require.True(t, ok)
			assert.Equal(t, float64(1000), ids[0])

			props := elements.ResolvedPropertiesOf(0)
			assert.Len(t, props, cfg.Properties)

			levels, err := doc.Table(document.TableLevel)
			require.NoError(t, err)
			elevation, ok := levels.Numeric("Elevation")
			require.True(t, ok)
			assert.Equal(t, []float64{0, 3.5, 7, 10.5}, elevation)
		})
	}
}
