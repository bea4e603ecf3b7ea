package router

import (
	"net/http"

	_ "pet-diary/docs"
	"pet-diary/internal/domain/diaries"
	"pet-diary/internal/domain/pets"
	"pet-diary/internal/middleware"
	"pet-diary/internal/platform/config"
	"pet-diary/internal/platform/logger"
	"pet-diary/internal/platform/notify"
	"pet-diary/internal/platform/querycache"
	"pet-diary/internal/ports/auth"
	"pet-diary/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Config config.Config
	Logger logger.Logger

	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene incompleto, in-memory.
	Backend Backend

	// Opcionales.
	Sessions *session.Store
	Feed     *notify.Feed
}

// Router es el handler HTTP más los registros en memoria que hay que
// barrer periódicamente.
type Router struct {
	http.Handler

	sessions *session.Store
	edits    *pets.EditSessions
}

// Sweep descarta sesiones y ediciones inactivas.
func (rt *Router) Sweep() (sessions, edits int) {
	return rt.sessions.Sweep(), rt.edits.Sweep()
}

func NewRouter(opts Options) *Router {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	cfg := opts.Config

	backend := opts.Backend
	if backend.isZero() {
		backend = MemoryBackend()
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewStore(cfg.SessionIdleTTL)
	}
	feed := opts.Feed
	if feed == nil {
		feed = notify.NewFeed(notify.DefaultCapacity, log)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover)

	r.Use(middleware.AuthContext(opts.AuthVerifier))
	r.Use(session.Middleware(sessions, cfg.CookieSecure))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Un caché por proceso; las claves ya están separadas por usuario.
	cache := querycache.New(cfg.CacheTTL)

	// Services por módulo
	petsSvc := pets.NewService(backend.Pets, pets.Options{
		Cache:    cache,
		Blobs:    backend.Blobs,
		Bucket:   cfg.PetsBucket,
		Notifier: feed,
		Logger:   log.With(map[string]any{"component": "pets"}),
	})
	diariesSvc := diaries.NewService(backend.Diaries, diaries.Options{
		Cache:    cache,
		Blobs:    backend.Blobs,
		Bucket:   cfg.DiariesBucket,
		Notifier: feed,
		Logger:   log.With(map[string]any{"component": "diaries"}),
	})

	// Rutas por módulo
	edits := pets.NewEditSessions(petsSvc, cfg.EditIdleTTL)
	pets.RegisterRoutes(r, petsSvc, edits, cfg.StoragePublicBaseURL)
	diaries.RegisterRoutes(r, diariesSvc, cfg.StoragePublicBaseURL)
	session.RegisterRoutes(r, backend.Profiles, petsSvc.FirstPetID)
	notify.RegisterRoutes(r, feed)

	return &Router{Handler: r, sessions: sessions, edits: edits}
}
