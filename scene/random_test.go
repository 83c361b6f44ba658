package scene_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vimgo/scene"
	"github.com/hupe1980/vimgo/testutil"
)

func TestRandomScenes(t *testing.T) {
	cfg := testutil.DefaultDocumentConfig()
	cfg.Nodes = 200
	cfg.InstanceRatio = 0.4

	for _, seed := range []int64{1, 7, 99, 4711} {
		t.Run(fmt.Sprint(seed), func(t *testing.T) {
			doc, err := testutil.NewRNG(seed).Document(cfg).Build()
			require.NoError(t, err)

			serial, err := scene.LoadScene(context.Background(), doc, scene.WithConcurrency(1))
			require.NoError(t, err)
			parallel, err := scene.LoadScene(context.Background(), doc, scene.WithConcurrency(8))
			require.NoError(t, err)

			assert.Len(t, serial.Nodes, testutil.ExpectedNodeCount(doc.Nodes()))
			assert.Equal(t, serial.Nodes, parallel.Nodes)
			assert.Len(t, serial.Meshes, cfg.Geometries)

			for i, n := range serial.Nodes {
				assert.Equal(t, i, n.Index)
				assert.Less(t, n.Source, len(doc.Nodes()))
				assert.Less(t, int(n.Geometry), cfg.Geometries)
			}
			assert.False(t, serial.Bounds().IsEmpty())
		})
	}
}
