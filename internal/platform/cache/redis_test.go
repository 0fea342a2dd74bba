package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *TenantCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTenantCache(client, time.Minute)
}

func TestTenantCachePutGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	id, err := c.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Zero(t, id, "miss should return zero")

	require.NoError(t, c.Put(ctx, "abc123", 42))

	id, err = c.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestTenantCacheInvalidate(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", 7))
	require.NoError(t, c.Invalidate(ctx, "k"))

	id, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestTenantCacheNilClient(t *testing.T) {
	var c *TenantCache
	ctx := context.Background()

	id, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, id)
	require.NoError(t, c.Put(ctx, "k", 1))
	require.NoError(t, c.Invalidate(ctx, "k"))
}
