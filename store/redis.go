package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a redis client used as a read-through cache for
// timetable and notification lookups. A nil Cache disables caching.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewCache connects to redis with short timeouts. Cache misses and
// redis outages both fall through to the database.
func NewCache(addr string, ttl time.Duration) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Cache{Client: client, TTL: ttl}
}

// Healthy verifies redis connectivity.
func (c *Cache) Healthy(ctx context.Context) bool {
	if c == nil || c.Client == nil {
		return false
	}
	return c.Client.Ping(ctx).Err() == nil
}

// Get returns the cached value for key, or "" on miss or error.
func (c *Cache) Get(ctx context.Context, key string) string {
	if c == nil || c.Client == nil {
		return ""
	}
	val, err := c.Client.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// Set stores the value under key for the cache TTL. Errors are
// swallowed: the cache is advisory.
func (c *Cache) Set(ctx context.Context, key, value string) {
	if c == nil || c.Client == nil {
		return
	}
	c.Client.Set(ctx, key, value, c.TTL)
}

// Invalidate drops the given keys, used after admin writes.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.Client == nil || len(keys) == 0 {
		return
	}
	c.Client.Del(ctx, keys...)
}
