package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AdminRole is the only role the service issues tokens for.
const AdminRole = "admin"

// Claims represents the JWT claims carried by an operator token
type Claims struct {
	Role string `json:"role"`

	jwt.RegisteredClaims
}

// AdminToken is returned when a token is minted
type AdminToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
