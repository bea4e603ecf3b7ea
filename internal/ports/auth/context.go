package auth

import "context"

type ctxKey struct{}

// NewContext guarda las claims verificadas del request.
func NewContext(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext devuelve las claims del request, si las hay.
func FromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(Claims)
	return c, ok
}
