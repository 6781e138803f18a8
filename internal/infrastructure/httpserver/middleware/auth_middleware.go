package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/news-dashboard/go/internal/core/ports"
	"github.com/avatarctic/news-dashboard/go/internal/infrastructure/httpserver/helpers"
)

type AdminMiddleware struct {
	tokens ports.AdminTokenService
	logger *logrus.Logger
}

func NewAdminMiddleware(tokens ports.AdminTokenService, logger *logrus.Logger) *AdminMiddleware {
	return &AdminMiddleware{tokens: tokens, logger: logger}
}

// RequireAdmin validates the bearer operator token. When no signing secret is
// configured the guard lets every request through.
func (m *AdminMiddleware) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.tokens == nil || !m.tokens.Enabled() {
				return next(c)
			}

			tokenString, err := helpers.BearerToken(c)
			if err != nil {
				return err
			}

			claims, err := m.tokens.ValidateToken(tokenString)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"ip": c.RealIP(), "path": c.Request().URL.Path, "error": err.Error()}).Warn("admin token validation failed")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			helpers.SetAdminClaims(c, claims)
			if m.logger != nil {
				m.logger.WithFields(logrus.Fields{"subject": claims.Subject, "path": c.Request().URL.Path}).Debug("admin token validated")
			}
			return next(c)
		}
	}
}
