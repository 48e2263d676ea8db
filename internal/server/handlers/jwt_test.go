package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateAccessToken(cfg, "user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "syncpad", claims.Issuer)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(testJWTConfig(), "user-123")
	require.NoError(t, err)

	other := JWTConfig{Secret: []byte("different-secret"), TokenTTL: time.Hour}
	_, err = ValidateAccessToken(other, token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	cfg := JWTConfig{Secret: []byte("test-secret"), TokenTTL: -time.Minute}

	token, err := GenerateAccessToken(cfg, "user-123")
	require.NoError(t, err)

	_, err = ValidateAccessToken(cfg, token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	_, err := ValidateAccessToken(testJWTConfig(), "not.a.token")
	assert.Error(t, err)
}
