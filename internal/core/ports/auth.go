package ports

import (
	"time"

	"github.com/avatarctic/news-dashboard/go/internal/core/domain/auth"
)

// AdminTokenService issues and validates operator tokens guarding mutating endpoints.
type AdminTokenService interface {
	// Enabled reports whether a signing secret is configured; when false mutating endpoints are open.
	Enabled() bool
	GenerateToken(subject string, ttl time.Duration) (*auth.AdminToken, error)
	ValidateToken(token string) (*auth.Claims, error)
}
