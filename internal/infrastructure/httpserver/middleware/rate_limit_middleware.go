package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/news-dashboard/go/internal/core/ports"
)

type RateLimitMiddleware struct {
	rateLimiter ports.RateLimiterService
	logger      *logrus.Logger
}

func NewRateLimitMiddleware(rateLimiter ports.RateLimiterService, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter, logger: logger}
}

// Handler limits refresh traffic per client IP. applies decides whether a request
// consumes quota; nil means every request does. Limiter errors let the request through.
func (r *RateLimitMiddleware) Handler(applies func(c echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r.rateLimiter == nil || (applies != nil && !applies(c)) {
				return next(c)
			}

			clientIP := c.RealIP()
			allowed, remaining, limit, reset, err := r.rateLimiter.Allow(c.Request().Context(), clientIP)
			if err != nil {
				if r.logger != nil {
					r.logger.WithError(err).WithField("client", clientIP).Warn("rate limiter unavailable; allowing request")
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if !allowed {
				if wait := time.Until(reset); wait > 0 {
					h.Set(echo.HeaderRetryAfter, strconv.Itoa(int(wait.Seconds())+1))
				}
				if r.logger != nil {
					r.logger.WithFields(logrus.Fields{"client": clientIP, "path": c.Request().URL.Path, "limit": limit}).Info("refresh rate limit exceeded")
				}
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
