package helpers

import (
	"github.com/labstack/echo/v4"

	"github.com/avatarctic/news-dashboard/go/internal/core/domain/auth"
)

type ctxKey string

const (
	keyAdminClaims ctxKey = "admin_claims"
)

func SetAdminClaims(c echo.Context, claims *auth.Claims) { c.Set(string(keyAdminClaims), claims) }
func GetAdminClaimsRaw(c echo.Context) (*auth.Claims, bool) {
	v := c.Get(string(keyAdminClaims))
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
