// Package jwtlocal verifica localmente los access tokens del proveedor de
// identidad (HS256 con el secreto del proyecto), sin ida y vuelta de red.
package jwtlocal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"pet-diary/internal/ports/auth"
)

// Audience es la audiencia de los tokens de usuarios logueados.
const Audience = "authenticated"

var (
	ErrSecretTooShort = errors.New("jwt secret must be at least 16 characters")
	ErrTokenExpired   = errors.New("token expired")
	ErrInvalidToken   = errors.New("invalid token")
)

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret   []byte
	audience string
}

// NewVerifier crea el verificador. audience vacío => Audience.
func NewVerifier(secret, audience string) (*Verifier, error) {
	if len(secret) < 16 {
		return nil, ErrSecretTooShort
	}
	if strings.TrimSpace(audience) == "" {
		audience = Audience
	}
	return &Verifier{secret: []byte(secret), audience: audience}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		strings.TrimSpace(token),
		&claims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.Claims{}, ErrTokenExpired
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return auth.Claims{}, ErrInvalidToken
	}
	if strings.TrimSpace(c.Subject) == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return auth.Claims{
		UserID: c.Subject,
		Email:  c.Email,
	}, nil
}
