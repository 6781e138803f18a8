package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/news-dashboard/go/internal/core/domain/auth"
)

func TestAdminTokenService_RoundTrip(t *testing.T) {
	svc := NewAdminTokenService("s3cret")
	require.True(t, svc.Enabled())

	tok, err := svc.GenerateToken("ops", 10*time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(600), tok.ExpiresIn)

	claims, err := svc.ValidateToken(tok.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "ops", claims.Subject)
	require.Equal(t, auth.AdminRole, claims.Role)
}

func TestAdminTokenService_Disabled(t *testing.T) {
	svc := NewAdminTokenService("")
	require.False(t, svc.Enabled())
	_, err := svc.GenerateToken("ops", time.Minute)
	require.ErrorIs(t, err, ErrAdminAuthDisabled)
	_, err = svc.ValidateToken("anything")
	require.ErrorIs(t, err, ErrAdminAuthDisabled)
}

func TestAdminTokenService_RejectsWrongSecret(t *testing.T) {
	tok, err := NewAdminTokenService("one").GenerateToken("ops", time.Minute)
	require.NoError(t, err)
	_, err = NewAdminTokenService("two").ValidateToken(tok.AccessToken)
	require.Error(t, err)
}

func TestAdminTokenService_RejectsExpired(t *testing.T) {
	svc := NewAdminTokenService("s3cret")
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	tok, err := svc.GenerateToken("ops", time.Minute)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = svc.ValidateToken(tok.AccessToken)
	require.Error(t, err)
}

func TestAdminTokenService_RejectsOtherRole(t *testing.T) {
	svc := NewAdminTokenService("s3cret")
	claims := &auth.Claims{Role: "viewer", RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "ops",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	require.Error(t, err)
}

func TestAdminTokenService_RejectsNoneAlgorithm(t *testing.T) {
	svc := NewAdminTokenService("s3cret")
	claims := &auth.Claims{Role: auth.AdminRole, RegisteredClaims: jwt.RegisteredClaims{Subject: "ops"}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(unsigned)
	require.Error(t, err)
}
