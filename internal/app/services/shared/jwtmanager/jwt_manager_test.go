package jwtmanager

import (
	"context"
	"errors"
	"questionnaire-service/internal/app/config"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager(&config.InternalConfig{
		JWT: config.AppJWT{Secret: "test-secret", Issuer: "questionnaire-service", ExpTimeInHour: 1},
	}, zap.NewNop())
	require.NoError(t, err)
	return manager
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, constvars.StatusUnauthorized, customErr.StatusCode)
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	_, err := NewJWTManager(&config.InternalConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t)

	token, err := manager.CreateSessionToken(ctx, "0b6e2f5c-7f5e-4f7a-9a51-1d2b3c4d5e6f")
	require.NoError(t, err)

	sessionID, err := manager.VerifySessionToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "0b6e2f5c-7f5e-4f7a-9a51-1d2b3c4d5e6f", sessionID)
}

func TestVerifySessionTokenRejects(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t)

	t.Run("empty token", func(t *testing.T) {
		_, err := manager.VerifySessionToken(ctx, "")
		assertUnauthorized(t, err)
	})

	t.Run("tampered signature", func(t *testing.T) {
		token, err := manager.CreateSessionToken(ctx, "s1")
		require.NoError(t, err)
		_, err = manager.VerifySessionToken(ctx, token+"x")
		assertUnauthorized(t, err)
	})

	t.Run("signed with another secret", func(t *testing.T) {
		other, err := NewJWTManager(&config.InternalConfig{JWT: config.AppJWT{Secret: "other"}}, zap.NewNop())
		require.NoError(t, err)
		token, err := other.CreateSessionToken(ctx, "s1")
		require.NoError(t, err)
		_, err = manager.VerifySessionToken(ctx, token)
		assertUnauthorized(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		expired := newTestManager(t)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := expired.CreateSessionToken(ctx, "s1")
		require.NoError(t, err)
		_, err = manager.VerifySessionToken(ctx, token)
		assertUnauthorized(t, err)
	})

	t.Run("unsigned token", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			constvars.SessionTokenClaimSessionID: "s1",
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = manager.VerifySessionToken(ctx, token)
		assertUnauthorized(t, err)
	})

	t.Run("missing session claim", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = manager.VerifySessionToken(ctx, token)
		assertUnauthorized(t, err)
	})
}

func TestCreateSessionTokenRequiresSessionID(t *testing.T) {
	_, err := newTestManager(t).CreateSessionToken(context.Background(), " ")
	assert.Error(t, err)
}
