package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avatarctic/news-dashboard/go/internal/core/ports"
)

// RateLimiterConfig is the refresh quota. Zero fields take the defaults below.
type RateLimiterConfig struct {
	RequestsPerMinute int
	BurstMultiplier   float64
	Window            time.Duration
	KeyPrefix         string
}

func (c RateLimiterConfig) withDefaults() RateLimiterConfig {
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = 10
	}
	if c.BurstMultiplier <= 0 {
		c.BurstMultiplier = 1
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "ratelimit:refresh"
	}
	return c
}

// RateLimiterService counts refresh requests per client in fixed windows. A client
// may exceed the advertised limit up to the burst ceiling before being rejected.
type RateLimiterService struct {
	repo   ports.RateLimitRepository
	cfg    RateLimiterConfig
	burst  int
	logger *logrus.Logger
}

func NewRateLimiterService(repo ports.RateLimitRepository, cfg *RateLimiterConfig, logger *logrus.Logger) *RateLimiterService {
	var c RateLimiterConfig
	if cfg != nil {
		c = *cfg
	}
	c = c.withDefaults()

	burst := int(float64(c.RequestsPerMinute) * c.BurstMultiplier)
	if burst < c.RequestsPerMinute {
		burst = c.RequestsPerMinute
	}
	return &RateLimiterService{repo: repo, cfg: c, burst: burst, logger: logger}
}

// Allow records one request for clientID. On storage errors the request is allowed
// and the error is returned for logging.
func (s *RateLimiterService) Allow(ctx context.Context, clientID string) (bool, int, int, time.Time, error) {
	limit := s.cfg.RequestsPerMinute
	// Keys expire one full window after their own window closes.
	count, windowStart, err := s.repo.IncrementWindow(ctx, clientID, s.cfg.Window, s.cfg.KeyPrefix, 2*s.cfg.Window)
	reset := windowStart.Add(s.cfg.Window)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).WithField("client", clientID).Error("Failed to increment rate limit window")
		}
		return true, s.burst, limit, reset, err
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"client": clientID, "count": count, "burst": s.burst}).Debug("Rate limit window updated")
	}
	if count > s.burst {
		return false, 0, limit, reset, nil
	}
	return true, s.burst - count, limit, reset, nil
}
