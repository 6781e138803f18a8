package ports

import (
	"context"
	"time"
)

// Cache defines the key-value cache contract used by the feed service and the caching repositories.
// Implementations should degrade gracefully (returning an error without crashing callers)
// so that application logic can fall back to the source of truth.
type Cache interface {
	// Get returns the raw bytes for key. ok=false if not found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key with TTL (0 or negative means no expiration if supported).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key; absence is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists keys matching a glob-style pattern ("*" wildcard).
	Keys(ctx context.Context, pattern string) ([]string, error)
	// TTL returns the remaining lifetime of key. Values <= 0 mean unknown,
	// missing or non-expiring.
	TTL(ctx context.Context, key string) (time.Duration, error)
}
