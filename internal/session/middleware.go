package session

import (
	"context"
	"net/http"
	"time"

	"pet-diary/internal/middleware"
	"pet-diary/internal/ports/auth"
)

// CookieName es la cookie que identifica la sesión del cliente.
const CookieName = "pd_session"

type ctxKey struct{}

// Middleware resuelve (o abre) la sesión del cliente y deja su Reader en el
// contexto. Si el request no trae token pero la sesión está logueada, el
// usuario de la sesión pasa a ser el usuario del request.
// Debe ir después de middleware.AuthContext.
func Middleware(store *Store, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var s *Session
			if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
				s, _ = store.Get(c.Value)
			}
			if s == nil {
				s = store.Open()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    s.ID(),
					Path:     "/",
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(30 * 24 * time.Hour),
				})
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, s)
			if _, ok := middleware.UserID(ctx); !ok {
				if uid, ok := s.CurrentUserID(); ok {
					ctx = middleware.WithClaims(ctx, auth.Claims{UserID: uid, Token: s.accessToken()})
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext devuelve la sesión del request con capacidad de sólo lectura.
func FromContext(ctx context.Context) (Reader, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok || s == nil {
		return nil, false
	}
	return s, true
}

// writerFrom es sólo para el handler de sesión (eventos de ciclo de vida).
func writerFrom(ctx context.Context) (Writer, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok || s == nil {
		return nil, false
	}
	return s, true
}
