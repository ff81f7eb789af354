package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *Issuer {
	return NewIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := newTestIssuer()

	tokenStr, err := issuer.SignAccessToken("user-1", "CUSTOMER")
	require.NoError(t, err)

	claims, err := issuer.VerifyAccessToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "CUSTOMER", claims.Role)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	issuer := newTestIssuer()

	tokenStr, err := issuer.SignRefreshToken("user-1", "token-id-1")
	require.NoError(t, err)

	claims, err := issuer.VerifyRefreshToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "token-id-1", claims.TokenID)
}

func TestExpiredAccessToken(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", -time.Second, -time.Second)

	tokenStr, err := issuer.SignAccessToken("user-1", "CUSTOMER")
	require.NoError(t, err)

	_, err = issuer.VerifyAccessToken(tokenStr)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestExpiredRefreshToken(t *testing.T) {
	issuer := NewIssuer("access-secret", "refresh-secret", -time.Second, -time.Second)

	tokenStr, err := issuer.SignRefreshToken("user-1", "token-id-1")
	require.NoError(t, err)

	_, err = issuer.VerifyRefreshToken(tokenStr)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSecretsAreIndependent(t *testing.T) {
	issuer := newTestIssuer()

	accessToken, err := issuer.SignAccessToken("user-1", "CUSTOMER")
	require.NoError(t, err)
	refreshToken, err := issuer.SignRefreshToken("user-1", "token-id-1")
	require.NoError(t, err)

	_, err = issuer.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := newTestIssuer()
	other := NewIssuer("other-access", "other-refresh", 15*time.Minute, 7*24*time.Hour)

	tokenStr, err := other.SignAccessToken("user-1", "CUSTOMER")
	require.NoError(t, err)

	_, err = issuer.VerifyAccessToken(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTamperedTokenRejected(t *testing.T) {
	issuer := newTestIssuer()

	tokenStr, err := issuer.SignAccessToken("user-1", "CUSTOMER")
	require.NoError(t, err)

	tampered := tokenStr[:len(tokenStr)-2] + "xx"
	_, err = issuer.VerifyAccessToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMalformedTokenRejected(t *testing.T) {
	issuer := newTestIssuer()

	for _, tokenStr := range []string{"", "garbage", "a.b.c"} {
		_, err := issuer.VerifyAccessToken(tokenStr)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
