package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	err := c.AcquireMemory(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MemoryUsage())

	err = c.AcquireMemory(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	ok := c.TryAcquireMemory(20)
	assert.False(t, ok)
	assert.Equal(t, int64(90), c.MemoryUsage())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = c.AcquireMemory(ctx, 20)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	err = c.AcquireMemory(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_OversizedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.AcquireMemory(context.Background(), 500))
	assert.Equal(t, int64(500), c.MemoryUsage())
	assert.False(t, c.TryAcquireMemory(1))

	c.ReleaseMemory(500)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.True(t, c.TryAcquireMemory(100))
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	err := c.AcquireMemory(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Loads(t *testing.T) {
	c := NewController(Config{MaxConcurrentLoads: 2})

	require.NoError(t, c.AcquireLoad(context.Background()))
	require.NoError(t, c.AcquireLoad(context.Background()))
	assert.Equal(t, int64(2), c.ActiveLoads())

	assert.False(t, c.TryAcquireLoad())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.AcquireLoad(ctx), context.Canceled)

	c.ReleaseLoad()
	assert.True(t, c.TryAcquireLoad())
	assert.Equal(t, int64(2), c.ActiveLoads())
}

func TestController_Defaults(t *testing.T) {
	c := NewController(Config{})
	assert.Equal(t, int64(DefaultMaxConcurrentLoads), c.Config().MaxConcurrentLoads)
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	ctx := context.Background()

	require.NoError(t, c.AcquireLoad(ctx))
	require.NoError(t, c.AcquireMemory(ctx, 1<<40))
	require.NoError(t, c.AcquireIO(ctx, 1<<20))
	assert.True(t, c.TryAcquireLoad())
	assert.True(t, c.TryAcquireMemory(1))
	c.ReleaseLoad()
	c.ReleaseMemory(1)
	assert.Zero(t, c.MemoryUsage())
	assert.Zero(t, c.IOBytes())
	assert.Equal(t, Config{}, c.Config())
}

func TestController_IOChunksLargeRequests(t *testing.T) {
	// A request larger than the burst would fail a single WaitN.
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})

	require.NoError(t, c.AcquireIO(context.Background(), 1<<20+10))
	assert.Equal(t, int64(1<<20+10), c.IOBytes())
}

func TestController_IOCanceled(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 10})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, c.AcquireIO(ctx, 100))
}
