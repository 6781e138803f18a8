package redis

import (
	"context"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// scanBatch is the COUNT hint passed to SCAN while listing keys.
const scanBatch = 100

// RedisCache implements ports.Cache using a Redis client.
type RedisCache struct {
	r redis.Cmdable
	// optional key prefix to namespace entries
	prefix string
}

// NewRedisCache creates a new Redis-backed cache.
func NewRedisCache(r redis.Cmdable, prefix string) *RedisCache {
	return &RedisCache{r: r, prefix: prefix}
}

func (c *RedisCache) namespaced(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

func (c *RedisCache) stripped(key string) string {
	if c.prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, c.prefix+":")
}

// Get implements Cache.Get.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ns := c.namespaced(key)
	val, err := c.r.Get(ctx, ns).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set implements Cache.Set.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ns := c.namespaced(key)
	if ttl < 0 {
		ttl = 0
	}
	return c.r.Set(ctx, ns, value, ttl).Err()
}

// Delete implements Cache.Delete.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	ns := c.namespaced(key)
	return c.r.Del(ctx, ns).Err()
}

// Keys implements Cache.Keys with SCAN so large keyspaces do not block the server.
// Returned keys are relative to the cache prefix.
func (c *RedisCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	iter := c.r.Scan(ctx, 0, c.namespaced(pattern), scanBatch).Iterator()
	seen := make(map[string]struct{})
	keys := []string{}
	for iter.Next(ctx) {
		k := c.stripped(iter.Val())
		// SCAN may return a key more than once
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// TTL implements Cache.TTL. Redis reports -2 (missing) and -1 (no expiry) as negative durations.
func (c *RedisCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.r.TTL(ctx, c.namespaced(key)).Result()
}
