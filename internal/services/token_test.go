package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-engine/internal/config"
)

func newTestTokenService(t *testing.T, secret string) TokenService {
	t.Helper()
	svc, err := NewTokenService(config.JWTConfig{Secret: secret, ExpirationHours: 1})
	require.NoError(t, err)
	return svc
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, "test-secret")
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := newTestTokenService(t, "secret-a")
	verifier := newTestTokenService(t, "secret-b")

	token, err := issuer.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t, "test-secret")

	_, err := svc.ValidateToken("")
	assert.Error(t, err)

	_, err = svc.ValidateToken("not.a.jwt")
	assert.Error(t, err)
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(config.JWTConfig{Secret: "", ExpirationHours: 24})
	assert.Error(t, err)
}
