package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenAndParseToken(t *testing.T) {
	secret := "unit-test-secret"

	aToken, rToken, err := GenToken("u1", []byte(secret), time.Minute, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, rToken)

	claims, err := ParseToken(aToken, secret)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserId)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestParseTokenExpired(t *testing.T) {
	secret := "unit-test-secret"

	aToken, _, err := GenToken("u1", []byte(secret), -time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(aToken, secret)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestParseTokenWrongSecret(t *testing.T) {
	aToken, _, err := GenToken("u1", []byte("right"), time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(aToken, "wrong")
	assert.Error(t, err)
}
