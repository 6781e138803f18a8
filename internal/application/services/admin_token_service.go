package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avatarctic/news-dashboard/go/internal/core/domain/auth"
)

var ErrAdminAuthDisabled = errors.New("admin authentication is not configured")

// AdminTokenService signs HS256 operator tokens with a shared secret.
type AdminTokenService struct {
	secret []byte
	now    func() time.Time
}

func NewAdminTokenService(secret string) *AdminTokenService {
	return &AdminTokenService{secret: []byte(secret), now: time.Now}
}

func (s *AdminTokenService) Enabled() bool { return len(s.secret) > 0 }

func (s *AdminTokenService) GenerateToken(subject string, ttl time.Duration) (*auth.AdminToken, error) {
	if !s.Enabled() {
		return nil, ErrAdminAuthDisabled
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := s.now()
	claims := &auth.Claims{
		Role: auth.AdminRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign admin token: %w", err)
	}
	return &auth.AdminToken{AccessToken: signed, ExpiresIn: int64(ttl.Seconds())}, nil
}

func (s *AdminTokenService) ValidateToken(tokenString string) (*auth.Claims, error) {
	if !s.Enabled() {
		return nil, ErrAdminAuthDisabled
	}
	token, err := jwt.ParseWithClaims(tokenString, &auth.Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC (prevent alg confusion)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Role != auth.AdminRole {
		return nil, fmt.Errorf("token role %q is not allowed", claims.Role)
	}
	return claims, nil
}
