package session

import (
	"context"
	"errors"
	"net/http"

	"pet-diary/internal/middleware"
	"pet-diary/internal/platform/httputil"
	"pet-diary/internal/ports/profiles"

	"github.com/go-chi/chi/v5"
)

// FirstPetFunc resuelve el id de la primera mascota del usuario (o nil).
type FirstPetFunc func(ctx context.Context, userID string) (*int64, error)

type stateResponse struct {
	ID              string            `json:"id"`
	State           State             `json:"state"`
	AltLoginProfile *profiles.Profile `json:"alt_login_profile"`
}

func RegisterRoutes(r chi.Router, profileRepo profiles.Repository, firstPet FirstPetFunc) {
	r.Route("/session", func(sr chi.Router) {
		sr.Get("/", getSessionHandler())
		sr.Post("/login", loginHandler(profileRepo, firstPet))
		sr.Post("/logout", logoutHandler())
		sr.Put("/alt-profile", setAltProfileHandler())
		sr.Delete("/alt-profile", resetAltProfileHandler())
	})
}

// getSessionHandler godoc
// @Summary Estado de la sesión actual
// @Tags session
// @Produce json
// @Success 200 {object} stateResponse
// @Router /session [get]
func getSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := FromContext(r.Context())
		if !ok {
			http.Error(w, "no session", http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, toStateResponse(s))
	}
}

// loginHandler godoc
// @Summary Registrar login en la sesión
// @Description Requiere `Authorization: Bearer <token>` válido. Guarda el usuario, su perfil y el id de su primera mascota.
// @Tags session
// @Produce json
// @Success 200 {object} stateResponse
// @Failure 401 {string} string "unauthorized"
// @Router /session/login [post]
func loginHandler(profileRepo profiles.Repository, firstPet FirstPetFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.UserID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		s, ok := writerFrom(r.Context())
		if !ok {
			http.Error(w, "no session", http.StatusInternalServerError)
			return
		}
		log := middleware.LoggerFrom(r.Context())

		var profile *profiles.Profile
		if profileRepo != nil {
			p, err := profileRepo.GetByUserID(r.Context(), claims.UserID)
			switch {
			case err == nil:
				profile = &p
			case errors.Is(err, profiles.ErrNotFound):
				// usuario sin perfil todavía
			default:
				log.Warn("profile lookup failed", map[string]any{"user_id": claims.UserID, "error": err})
			}
		}

		s.LogIn(claims.UserID, profile)
		s.SetAccessToken(claims.Token)

		if firstPet != nil {
			id, err := firstPet(r.Context(), claims.UserID)
			if err != nil {
				log.Warn("first pet lookup failed", map[string]any{"user_id": claims.UserID, "error": err})
			}
			s.SetFirstPetID(id)
		}

		httputil.WriteJSON(w, http.StatusOK, toStateResponse(s))
	}
}

func logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := writerFrom(r.Context())
		if !ok {
			http.Error(w, "no session", http.StatusInternalServerError)
			return
		}
		s.LogOut()
		httputil.WriteJSON(w, http.StatusOK, toStateResponse(s))
	}
}

func setAltProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := writerFrom(r.Context())
		if !ok {
			http.Error(w, "no session", http.StatusInternalServerError)
			return
		}
		if _, ok := s.CurrentUserID(); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var p profiles.Profile
		if err := httputil.DecodeJSON(r.Body, &p); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		s.SetAltLoginProfile(&p)
		httputil.WriteJSON(w, http.StatusOK, toStateResponse(s))
	}
}

func resetAltProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := writerFrom(r.Context())
		if !ok {
			http.Error(w, "no session", http.StatusInternalServerError)
			return
		}
		s.ResetAltLoginProfile()
		httputil.WriteJSON(w, http.StatusOK, toStateResponse(s))
	}
}

func toStateResponse(s Reader) stateResponse {
	return stateResponse{
		ID:              s.ID(),
		State:           s.State(),
		AltLoginProfile: s.AltLoginProfile(),
	}
}
