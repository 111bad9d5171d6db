package auth

import (
	"testing"
	"time"

	"github.com/AhmadFauzanZW/wilopo-cargo/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-access-secret",
		JWTRefreshSecret: "test-refresh-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func TestTokenPairRoundTrip(t *testing.T) {
	cfg := testConfig()

	access, refresh, err := GenerateTokenPair(cfg, "user-1", "demo@wilopocargo.com", "USER")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := ValidateAccessToken(cfg, access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "demo@wilopocargo.com", claims.Email)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, "access", claims.Type)

	refreshClaims, err := ValidateRefreshToken(cfg, refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.Type)
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	cfg := testConfig()

	access, refresh, err := GenerateTokenPair(cfg, "user-1", "demo@wilopocargo.com", "USER")
	require.NoError(t, err)

	// Токены подписаны разными секретами и помечены типом
	_, err = ValidateRefreshToken(cfg, access)
	assert.Error(t, err)
	_, err = ValidateAccessToken(cfg, refresh)
	assert.Error(t, err)
}

func TestRefreshTokensIssuesNewPair(t *testing.T) {
	cfg := testConfig()

	_, refresh, err := GenerateTokenPair(cfg, "user-2", "admin@wilopocargo.com", "ADMIN")
	require.NoError(t, err)

	newAccess, newRefresh, err := RefreshTokens(cfg, refresh)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(cfg, newAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)

	_, err = ValidateRefreshToken(cfg, newRefresh)
	assert.NoError(t, err)
}

func TestValidateAccessTokenGarbage(t *testing.T) {
	cfg := testConfig()

	_, err := ValidateAccessToken(cfg, "not-a-token")
	assert.Error(t, err)

	// Токен, подписанный чужим секретом
	other := testConfig()
	other.JWTSecret = "another-secret"
	access, _, err := GenerateTokenPair(other, "user-3", "x@y.z", "USER")
	require.NoError(t, err)
	_, err = ValidateAccessToken(cfg, access)
	assert.Error(t, err)
}
