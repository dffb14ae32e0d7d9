package feed

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// The index cache holds a single entry: the rendered first page of the
// global feed. All other views compute fresh.
const indexCacheKey = "feed:index"

type ComputeFunc func(ctx context.Context) ([]byte, error)

type PageCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{redis: client, ttl: ttl}
}

// GetOrCompute returns the cached index page verbatim while the entry lives,
// even if posts were written in the interim. On a miss it runs compute and
// stores the result for the configured TTL. The bool reports a cache hit.
func (c *PageCache) GetOrCompute(ctx context.Context, compute ComputeFunc) ([]byte, bool, error) {
	if c.redis == nil {
		body, err := compute(ctx)
		return body, false, err
	}

	val, err := c.redis.Get(ctx, indexCacheKey).Bytes()
	if err == nil {
		return val, true, nil
	}
	if !errors.Is(err, redis.Nil) {
		// A broken cache should not take the feed down with it.
		log.Printf("index cache read error: %v", err)
	}

	body, err := compute(ctx)
	if err != nil {
		return nil, false, err
	}
	if err := c.redis.Set(ctx, indexCacheKey, body, c.ttl).Err(); err != nil {
		log.Printf("index cache store error: %v", err)
	}
	return body, false, nil
}

// Invalidate drops the cached entry unconditionally; the next GetOrCompute
// recomputes from current data.
func (c *PageCache) Invalidate(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Del(ctx, indexCacheKey).Err()
}
