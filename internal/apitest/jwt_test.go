package apitest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	secret := []byte("super-secret")
	now := time.Now()

	tok, err := generateToken(42, tokenAccess, secret, now, time.Hour)
	require.NoError(t, err)

	id, err := parseToken(tok, tokenAccess, secret, now)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestParseToken_Expired(t *testing.T) {
	secret := []byte("secret")
	now := time.Now()

	tok, err := generateToken(1, tokenAccess, secret, now, time.Minute)
	require.NoError(t, err)

	_, err = parseToken(tok, tokenAccess, secret, now.Add(2*time.Minute))
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok, err := generateToken(2, tokenAccess, []byte("right-secret"), time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = parseToken(tok, tokenAccess, []byte("wrong-secret"), time.Now())
	assert.Error(t, err)
}

func TestParseToken_RefreshIsNotAccess(t *testing.T) {
	secret := []byte("secret")
	tok, err := generateToken(3, tokenRefresh, secret, time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = parseToken(tok, tokenAccess, secret, time.Now())
	assert.ErrorIs(t, err, errInvalidToken)
}

func TestNewControlNumber_Format(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		cn := newControlNumber()
		assert.Regexp(t, `^TXN[A-Z0-9]{10}$`, cn)
		seen[cn] = true
	}
	assert.Greater(t, len(seen), 1)
}
