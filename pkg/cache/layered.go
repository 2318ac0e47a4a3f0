package cache

import (
	"context"
	"time"
)

// LayeredCache reads through a local LRU (L1) to Redis (L2) and writes to both.
type LayeredCache struct {
	memCache   *MemoryCache
	redisCache *RedisCache
}

// NewLayeredCache puts an LRU of l1Entries in front of redisCache.
func NewLayeredCache(redisCache *RedisCache, l1Entries int) *LayeredCache {
	return &LayeredCache{
		memCache:   NewMemoryCache(MemoryConfig{MaxEntries: l1Entries}),
		redisCache: redisCache,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.redisCache.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.memCache.Set(ctx, key, value, expiration)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.memCache.Get(ctx, key, dest); err == nil {
		return nil
	}

	var raw []byte
	if err := lc.redisCache.Get(ctx, key, &raw); err != nil {
		return err
	}

	// Promote with the remaining Redis lifetime so L1 never outlives L2.
	if ttl := lc.redisCache.TTL(ctx, key); ttl > 0 {
		_ = lc.memCache.Set(ctx, key, raw, ttl)
	}
	return decode(raw, dest)
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.memCache.Delete(ctx, keys...)
	return lc.redisCache.Delete(ctx, keys...)
}

// Close closes both cache layers.
func (lc *LayeredCache) Close() error {
	_ = lc.memCache.Close()
	return lc.redisCache.Close()
}
