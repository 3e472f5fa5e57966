package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.Generate("user-1", "doc@hospital.org", "doctor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "doc@hospital.org", claims.Email)
	assert.Equal(t, "doctor", claims.Role)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute)

	token, err := svc.Generate("user-1", "doc@hospital.org", "doctor")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", time.Hour).Generate("user-1", "a@b.c", "nurse")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	_, err := svc.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDefaultExpiryIsEightHours(t *testing.T) {
	svc := NewJWTService("test-secret", 0)

	token, err := svc.Generate("user-1", "a@b.c", "admin")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 8*time.Hour, lifetime)
}
