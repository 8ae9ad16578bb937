// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/bookit/internal/config"
	"github.com/carterperez-dev/bookit/internal/core"
)

func newTestManager(t *testing.T, cfg config.JWTConfig) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	cfg.PrivateKeyPath = filepath.Join(dir, "private.pem")
	cfg.PublicKeyPath = filepath.Join(dir, "public.pem")

	require.NoError(t, GenerateKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath))

	manager, err := NewJWTManager(cfg)
	require.NoError(t, err)
	return manager
}

func baseJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SessionExpire: 24 * time.Hour,
		ResetExpire:   10 * time.Minute,
		CookieExpire:  24 * time.Hour,
		Issuer:        "bookit",
		Audience:      "bookit-api",
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	manager := newTestManager(t, baseJWTConfig())

	before := time.Now().Truncate(time.Second)
	token, err := manager.CreateSessionToken("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.False(t, claims.IssuedAt.Before(before))
}

func TestResetTokenRoundTrip(t *testing.T) {
	manager := newTestManager(t, baseJWTConfig())

	token, err := manager.CreateResetToken("user@example.com")
	require.NoError(t, err)

	email, err := manager.VerifyResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	manager := newTestManager(t, baseJWTConfig())

	sessionToken, err := manager.CreateSessionToken("user-123")
	require.NoError(t, err)

	resetToken, err := manager.CreateResetToken("user@example.com")
	require.NoError(t, err)

	_, err = manager.VerifyResetToken(sessionToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	_, err = manager.VerifySessionToken(resetToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestExpiredSessionTokenRejected(t *testing.T) {
	cfg := baseJWTConfig()
	cfg.SessionExpire = -time.Minute
	manager := newTestManager(t, cfg)

	token, err := manager.CreateSessionToken("user-123")
	require.NoError(t, err)

	_, err = manager.VerifySessionToken(token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestGarbageTokenRejected(t *testing.T) {
	manager := newTestManager(t, baseJWTConfig())

	_, err := manager.VerifySessionToken("not.a.token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
	assert.False(t, errors.Is(err, core.ErrTokenExpired))
}

func TestTokenFromForeignKeyRejected(t *testing.T) {
	manager := newTestManager(t, baseJWTConfig())
	other := newTestManager(t, baseJWTConfig())

	token, err := other.CreateSessionToken("user-123")
	require.NoError(t, err)

	_, err = manager.VerifySessionToken(token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}
