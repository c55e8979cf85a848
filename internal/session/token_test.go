package session

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	token, err := tokens.Issue("catalog-1")
	require.NoError(t, err)

	catalogID, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "catalog-1", catalogID)
}

func TestTokens_Rejected(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	valid, err := tokens.Issue("catalog-1")
	require.NoError(t, err)

	otherKey, err := NewTokens("other-secret", time.Hour).Issue("catalog-1")
	require.NoError(t, err)

	expiredTokens := NewTokens("secret", time.Minute)
	expiredTokens.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredTokens.Issue("catalog-1")
	require.NoError(t, err)

	noClaim, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"catalog_id": "catalog-1",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	testCases := map[string]string{
		"empty":          "",
		"garbage":        "not-a-token",
		"tampered":       valid[:len(valid)-2] + "xx",
		"other key":      otherKey,
		"expired":        expired,
		"missing claim":  noClaim,
		"none algorithm": unsigned,
	}
	for name, token := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
