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

type point struct {
	X float64 `json:"x"`
	Y string  `json:"y"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	mc := NewMemoryCache(MemoryConfig{})
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "p", []point{{1.5, "a"}}, time.Minute))
	var got []point
	require.NoError(t, mc.Get(ctx, "p", &got))
	assert.Equal(t, []point{{1.5, "a"}}, got)

	require.NoError(t, mc.Set(ctx, "s", "plain", time.Minute))
	var s string
	require.NoError(t, mc.Get(ctx, "s", &s))
	assert.Equal(t, "plain", s)

	require.NoError(t, mc.Delete(ctx, "s"))
	assert.ErrorIs(t, mc.Get(ctx, "s", &s), ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache(MemoryConfig{})
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	var s string
	assert.ErrorIs(t, mc.Get(ctx, "k", &s), ErrCacheMiss)
}

func TestMemoryCacheEvictsLRU(t *testing.T) {
	mc := NewMemoryCache(MemoryConfig{MaxEntries: 2})
	defer mc.Close()
	ctx := context.Background()

	var s string
	require.NoError(t, mc.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, mc.Set(ctx, "b", "2", time.Minute))
	require.NoError(t, mc.Get(ctx, "a", &s))
	require.NoError(t, mc.Set(ctx, "c", "3", time.Minute))

	assert.Equal(t, 2, mc.Len())
	assert.ErrorIs(t, mc.Get(ctx, "b", &s), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "a", &s))
	assert.NoError(t, mc.Get(ctx, "c", &s))
}

func TestLayeredCacheReadsThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test")
	lc := NewLayeredCache(rc, 16)
	defer lc.Close()
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "k", point{2, "b"}, time.Minute))
	assert.True(t, mr.Exists("test:k"))

	var got point
	require.NoError(t, lc.Get(ctx, "k", &got))
	assert.Equal(t, point{2, "b"}, got)

	// L1 now serves the value even after Redis forgets it.
	mr.Del("test:k")
	got = point{}
	require.NoError(t, lc.Get(ctx, "k", &got))
	assert.Equal(t, "b", got.Y)

	require.NoError(t, lc.Delete(ctx, "k"))
	assert.ErrorIs(t, lc.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestGenerateKeyWithParams(t *testing.T) {
	assert.Equal(t, "candles:BTC/USDT:4h:300", GenerateKeyWithParams("candles", "BTC/USDT", "4h", 300))
}
