package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService("test-secret", "admin@example.com", string(hash))
}

func TestLogin(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Login(&LoginRequest{Email: "Admin@Example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.True(t, resp.User.IsAdmin)
	assert.Equal(t, "admin@example.com", resp.User.Email)

	claims, err := svc.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "admin@example.com", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)

	_, err = svc.Login(&LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&LoginRequest{Email: "someone@example.com", Password: "s3cret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_NoAdminConfigured(t *testing.T) {
	svc := NewAuthService("test-secret", "", "")
	_, err := svc.Login(&LoginRequest{Email: "admin@example.com", Password: "s3cret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseToken(t *testing.T) {
	svc := newTestAuthService(t)
	resp, err := svc.Login(&LoginRequest{Email: "admin@example.com", Password: "s3cret"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	_, err = svc.ParseToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")
	svc.now = time.Now

	other := NewAuthService("another-secret", "", "")
	_, err = other.ParseToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{IsAdmin: true}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ParseToken(none)
	assert.ErrorIs(t, err, ErrInvalidToken, "unsigned")

	external, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email:            "organizer@example.com",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-42"},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	claims, err := svc.ParseToken(external)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, "u-42", claims.Subject)
}
