package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	var c *Cache

	require.NoError(t, c.SetObject(ctx, "k", map[string]int{"a": 1}, time.Minute))
	var out map[string]int
	found, err := c.GetObject(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Remove(ctx, "k"))
	assert.NoError(t, c.Close())

	assert.Nil(t, New(nil, "x:"))
	c, err = Connect(ctx, "", "", 0)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDRESS")
	if os.Getenv("INTEGRATION_TESTS") == "" || addr == "" {
		t.Skip("set INTEGRATION_TESTS=1 and REDIS_ADDRESS to run")
	}
	ctx := context.Background()
	c, err := Connect(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer c.Close()

	type stats struct{ Open int }
	require.NoError(t, c.SetObject(ctx, "test:stats", stats{Open: 3}, time.Minute))
	var got stats
	found, err := c.GetObject(ctx, "test:stats", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, got.Open)

	require.NoError(t, c.Remove(ctx, "test:stats"))
	found, err = c.GetObject(ctx, "test:stats", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
