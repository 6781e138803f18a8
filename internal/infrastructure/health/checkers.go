// Package health adapts infrastructure clients to the dependency probes reported by /health.
package health

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"

	"github.com/avatarctic/news-dashboard/go/internal/core/ports"
	infraDB "github.com/avatarctic/news-dashboard/go/internal/infrastructure/db"
)

var errNotConnected = errors.New("not connected")

// probe is a named ping. A nil ping means the dependency never connected at startup.
type probe struct {
	name string
	ping func(ctx context.Context) error
}

func (p probe) Name() string { return p.name }

func (p probe) Check(ctx context.Context) error {
	if p.ping == nil {
		return errNotConnected
	}
	return p.ping(ctx)
}

// NewDBHealthChecker probes Postgres. A nil database reports unhealthy.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker {
	p := probe{name: "database"}
	if db != nil {
		p.ping = db.Ping
	}
	return p
}

// NewRedisHealthChecker probes Redis. A nil client reports unhealthy.
func NewRedisHealthChecker(client *redis.Client) ports.HealthChecker {
	p := probe{name: "redis"}
	if client != nil {
		p.ping = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	return p
}
