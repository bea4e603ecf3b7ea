package jwtlocal

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "super-secret-jwt-token-with-at-least-32-characters"

func sign(t *testing.T, key string, method jwt.SigningMethod, c claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, c).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func validClaims() claims {
	now := time.Now()
	return claims{
		Email: "ana@example.test",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "5d94e981-16c8-4403-8e89-c305a7152c16",
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestNewVerifier_ShortSecret(t *testing.T) {
	_, err := NewVerifier("short", "")
	assert.ErrorIs(t, err, ErrSecretTooShort)
}

func TestVerifier_Verify(t *testing.T) {
	v, err := NewVerifier(secret, "")
	require.NoError(t, err)
	ctx := context.Background()

	c, err := v.Verify(ctx, sign(t, secret, jwt.SigningMethodHS256, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "5d94e981-16c8-4403-8e89-c305a7152c16", c.UserID)
	assert.Equal(t, "ana@example.test", c.Email)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	_, err = v.Verify(ctx, sign(t, secret, jwt.SigningMethodHS256, expired))
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = v.Verify(ctx, sign(t, "another-secret-of-enough-length", jwt.SigningMethodHS256, validClaims()))
	assert.ErrorIs(t, err, ErrInvalidToken)

	anon := validClaims()
	anon.Audience = jwt.ClaimStrings{"anon"}
	_, err = v.Verify(ctx, sign(t, secret, jwt.SigningMethodHS256, anon))
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSub := validClaims()
	noSub.Subject = ""
	_, err = v.Verify(ctx, sign(t, secret, jwt.SigningMethodHS256, noSub))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(ctx, sign(t, secret, jwt.SigningMethodHS512, validClaims()))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
