package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestIssueAndParse(t *testing.T) {
	token, err := IssueToken(secret, 42, "guest@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", claims.Email)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestParseTokenErrors(t *testing.T) {
	expired, err := IssueToken(secret, 1, "guest@example.com", -time.Second)
	require.NoError(t, err)
	_, err = ParseToken(secret, expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = ParseToken(secret, "garbage")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	wrongKey, err := IssueToken("other", 1, "guest@example.com", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(secret, wrongKey)
	assert.ErrorIs(t, err, ErrTokenMalformed)

	sign := func(c jwt.Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	noExp := sign(&Claims{Email: "guest@example.com", RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}})
	_, err = ParseToken(secret, noExp)
	assert.ErrorIs(t, err, ErrTokenExpired)

	noEmail := sign(&Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	_, err = ParseToken(secret, noEmail)
	assert.ErrorIs(t, err, ErrTokenMalformed)

	badSub := sign(&Claims{Email: "guest@example.com", RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	claims, err := ParseToken(secret, badSub)
	require.NoError(t, err)
	_, err = claims.UserID()
	assert.ErrorIs(t, err, ErrTokenMalformed)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{Email: "guest@example.com", RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseToken(secret, hs512)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
	assert.True(t, VerifyPassword("secret", hash))
	assert.False(t, VerifyPassword("Secret", hash))
}
