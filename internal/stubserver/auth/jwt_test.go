package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(42, secret, time.Hour)
	require.NoError(t, err)

	userID, err := UserIDFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestTokenRejectedWithWrongSecret(t *testing.T) {
	token, err := GenerateToken(42, []byte("right"), time.Hour)
	require.NoError(t, err)

	_, err = UserIDFromToken(token, []byte("wrong"))
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(42, secret, -time.Minute)
	require.NoError(t, err)

	_, err = UserIDFromToken(token, secret)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := UserIDFromToken("not.a.token", []byte("secret"))
	assert.Error(t, err)
}
