package ports

import (
	"context"
	"time"
)

// RateLimitRepository provides low-level atomic operations for rate limiting counters.
// Implementations must be safe for concurrent use.
type RateLimitRepository interface {
	// IncrementWindow atomically increments the counter for clientID in the current fixed
	// window and ensures the key expires after ttl. Returns the updated count and the window start.
	IncrementWindow(ctx context.Context, clientID string, window time.Duration, keyPrefix string, ttl time.Duration) (count int, windowStart time.Time, err error)
}

// RateLimiterService decides whether a client may spend another unit of upstream quota.
type RateLimiterService interface {
	// Allow consumes one request unit for the client and reports whether it is permitted.
	// remaining is the number of further requests allowed in the window, limit the configured
	// requests per window and reset the moment the window rolls over.
	Allow(ctx context.Context, clientID string) (allowed bool, remaining int, limit int, reset time.Time, err error)
}
