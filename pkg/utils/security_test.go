package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "secret", "linkup-go", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "linkup-go", claims.Issuer)
}

func TestParseTokenErrors(t *testing.T) {
	token, err := GenerateToken(1, "secret", "linkup-go", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "other")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateToken(1, "secret", "linkup-go", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired, "secret")
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = ParseToken("not-a-token", "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestViewerKeys(t *testing.T) {
	assert.Equal(t, "u:7", UserViewerKey(7))

	k1 := AnonymousViewerKey("device-abc")
	k2 := AnonymousViewerKey("device-abc")
	k3 := AnonymousViewerKey("device-xyz")
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.True(t, strings.HasPrefix(k1, "a:"))
	assert.Len(t, k1, 2+64)
	assert.NotContains(t, k1, "device-abc")
}
