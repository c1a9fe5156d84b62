package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/outsiders/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
}

func newTestJWTService() *JWTService {
	return NewJWTService(testJWTConfig())
}

// sharedSecretService signs access and refresh tokens with the same
// secret, so a token of the wrong type still parses and only the type
// check can reject it.
func sharedSecretService() *JWTService {
	cfg := testJWTConfig()
	cfg.RefreshSecret = cfg.Secret
	return NewJWTService(cfg)
}

func newTestInput() GenerateTokenInput {
	branchID := uuid.New()
	return GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "vendedor1",
		Role:     "vendedor",
		BranchID: &branchID,
	}
}

func issuePair(t *testing.T, svc *JWTService, input GenerateTokenInput) *TokenPair {
	t.Helper()
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	return pair
}

func TestNewJWTService(t *testing.T) {
	t.Run("takes every field from config", func(t *testing.T) {
		cfg := testJWTConfig()
		svc := NewJWTService(cfg)

		assert.Equal(t, []byte(cfg.Secret), svc.accessSecret)
		assert.Equal(t, []byte(cfg.RefreshSecret), svc.refreshSecret)
		assert.Equal(t, cfg.AccessTokenExpiration, svc.accessExpiration)
		assert.Equal(t, cfg.RefreshTokenExpiration, svc.refreshExpiration)
		assert.Equal(t, cfg.Issuer, svc.issuer)
		assert.Equal(t, cfg.MaxRefreshCount, svc.maxRefreshCount)
	})

	t.Run("falls back to the access secret for refresh", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.RefreshSecret = ""

		svc := NewJWTService(cfg)
		assert.Equal(t, []byte(cfg.Secret), svc.refreshSecret)
	})
}

func TestGenerateTokenPair(t *testing.T) {
	pair := issuePair(t, newTestJWTService(), newTestInput())

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.AccessTokenExpiresAt.After(time.Now()))
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken(t *testing.T) {
	t.Run("round-trips the identity claims", func(t *testing.T) {
		svc := newTestJWTService()
		input := newTestInput()
		pair := issuePair(t, svc, input)

		claims, err := svc.ValidateAccessToken(pair.AccessToken)

		require.NoError(t, err)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, input.Username, claims.Username)
		assert.Equal(t, input.Role, claims.Role)
		assert.Equal(t, input.BranchID.String(), claims.BranchID)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)
	})

	t.Run("expired token", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.AccessTokenExpiration = -1 * time.Hour
		svc := NewJWTService(cfg)
		pair := issuePair(t, svc, newTestInput())

		_, err := svc.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := newTestJWTService().ValidateAccessToken("invalid-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token is rejected by type", func(t *testing.T) {
		svc := sharedSecretService()
		pair := issuePair(t, svc, newTestInput())

		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		pair := issuePair(t, newTestJWTService(), newTestInput())

		cfg := testJWTConfig()
		cfg.Secret = "different-secret-key-32-chars!"
		other := NewJWTService(cfg)

		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestValidateRefreshToken(t *testing.T) {
	t.Run("fresh token starts at refresh count zero", func(t *testing.T) {
		svc := newTestJWTService()
		input := newTestInput()
		pair := issuePair(t, svc, input)

		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)

		require.NoError(t, err)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, input.Role, claims.Role)
		assert.Equal(t, TokenTypeRefresh, claims.TokenType)
		assert.Equal(t, 0, claims.RefreshCount)
	})

	t.Run("access token is rejected by type", func(t *testing.T) {
		svc := sharedSecretService()
		pair := issuePair(t, svc, newTestInput())

		_, err := svc.ValidateRefreshToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})
}

func TestRefreshTokenPair(t *testing.T) {
	t.Run("rotates both tokens and keeps role and branch", func(t *testing.T) {
		svc := newTestJWTService()
		input := newTestInput()
		pair := issuePair(t, svc, input)

		newPair, err := svc.RefreshTokenPair(pair.RefreshToken)

		require.NoError(t, err)
		assert.NotEqual(t, pair.AccessToken, newPair.AccessToken)
		assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)

		claims, err := svc.ValidateAccessToken(newPair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, input.Role, claims.Role)
		assert.Equal(t, input.BranchID.String(), claims.BranchID)
	})

	t.Run("counts each refresh", func(t *testing.T) {
		svc := newTestJWTService()
		pair := issuePair(t, svc, newTestInput())

		for want := 1; want <= 2; want++ {
			var err error
			pair, err = svc.RefreshTokenPair(pair.RefreshToken)
			require.NoError(t, err)

			claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
			require.NoError(t, err)
			assert.Equal(t, want, claims.RefreshCount)
		}
	})

	t.Run("stops at the refresh ceiling", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.MaxRefreshCount = 2
		svc := NewJWTService(cfg)
		pair := issuePair(t, svc, newTestInput())

		for i := 0; i < 2; i++ {
			var err error
			pair, err = svc.RefreshTokenPair(pair.RefreshToken)
			require.NoError(t, err)
		}

		_, err := svc.RefreshTokenPair(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := newTestJWTService().RefreshTokenPair("invalid-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		svc := sharedSecretService()
		pair := issuePair(t, svc, newTestInput())

		_, err := svc.RefreshTokenPair(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})
}

func TestClaimsUUIDAccessors(t *testing.T) {
	t.Run("seller token carries user and branch UUIDs", func(t *testing.T) {
		svc := newTestJWTService()
		input := newTestInput()
		pair := issuePair(t, svc, input)

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		userUUID, err := claims.GetUserUUID()
		require.NoError(t, err)
		assert.Equal(t, input.UserID, userUUID)

		branchUUID, ok := claims.GetBranchUUID()
		require.True(t, ok)
		assert.Equal(t, *input.BranchID, branchUUID)
	})

	t.Run("admin token may have no branch", func(t *testing.T) {
		svc := newTestJWTService()
		pair := issuePair(t, svc, GenerateTokenInput{
			UserID:   uuid.New(),
			Username: "admin",
			Role:     "admin",
		})

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		_, ok := claims.GetBranchUUID()
		assert.False(t, ok)
		assert.True(t, claims.IsAdmin())
	})
}
