package notify

import (
	"net/http"

	"pet-diary/internal/middleware"
	"pet-diary/internal/platform/httputil"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, feed *Feed) {
	r.Get("/me/notifications", drainHandler(feed))
}

// drainHandler godoc
// @Summary Avisos pendientes del usuario
// @Description Devuelve y borra los avisos (toasts) generados por las últimas acciones, del más viejo al más nuevo.
// @Tags notifications
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} Notice
// @Failure 401 {string} string "unauthorized"
// @Router /me/notifications [get]
func drainHandler(feed *Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, feed.Drain(uid))
	}
}
