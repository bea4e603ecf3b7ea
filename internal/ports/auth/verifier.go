package auth

import "context"

// AuthVerifier verifica un token contra el proveedor de identidad
// (equivale a "get current user") y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
