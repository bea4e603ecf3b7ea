package router

import (
	"context"
	"fmt"

	authsb "pet-diary/internal/adapters/auth/supabase"
	"pet-diary/internal/adapters/auth/jwtlocal"
	backendsb "pet-diary/internal/adapters/backend/supabase"
	mem "pet-diary/internal/adapters/storage/memory"
	pg "pet-diary/internal/adapters/storage/postgres"
	"pet-diary/internal/domain/diaries"
	"pet-diary/internal/domain/pets"
	"pet-diary/internal/platform/config"
	"pet-diary/internal/platform/logger"
	"pet-diary/internal/ports/auth"
	"pet-diary/internal/ports/blob"
	"pet-diary/internal/ports/profiles"
)

// Backend agrupa los adapters de datos que usan los servicios.
type Backend struct {
	Pets     pets.Repository
	Diaries  diaries.Repository
	Profiles profiles.Repository
	Blobs    blob.Store

	// Close libera conexiones; puede ser nil.
	Close func()
}

func (b Backend) isZero() bool {
	return b.Pets == nil || b.Diaries == nil || b.Profiles == nil || b.Blobs == nil
}

// MemoryBackend arma un backend in-memory (dev y tests).
func MemoryBackend() Backend {
	return Backend{
		Pets:     mem.NewPetRepo(),
		Diaries:  mem.NewDiaryRepo(),
		Profiles: mem.NewProfileRepo(),
		Blobs:    mem.NewBlobStore(pets.MaxImageSize),
	}
}

// OpenBackend arma el backend indicado por cfg.Backend.
// En postgres las imágenes quedan en memoria salvo que haya storage hosteado.
func OpenBackend(ctx context.Context, cfg config.Config, log logger.Logger) (Backend, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := pg.Open(ctx, cfg.DBDSN)
		if err != nil {
			return Backend{}, fmt.Errorf("open postgres: %w", err)
		}
		b := Backend{
			Pets:     pg.NewPetsRepo(db),
			Diaries:  pg.NewDiariesRepo(db),
			Profiles: pg.NewProfilesRepo(db),
			Blobs:    mem.NewBlobStore(pets.MaxImageSize),
			Close:    db.Close,
		}
		if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
			c, err := backendsb.NewClient(backendsb.Config{URL: cfg.SupabaseURL, APIKey: cfg.SupabaseKey, Timeout: cfg.HTTPTimeout})
			if err != nil {
				db.Close()
				return Backend{}, err
			}
			b.Blobs = backendsb.NewBlobStore(c)
		} else {
			log.Warn("no hosted storage configured, images kept in memory", nil)
		}
		return b, nil

	case config.BackendSupabase:
		c, err := backendsb.NewClient(backendsb.Config{URL: cfg.SupabaseURL, APIKey: cfg.SupabaseKey, Timeout: cfg.HTTPTimeout})
		if err != nil {
			return Backend{}, err
		}
		return Backend{
			Pets:     backendsb.NewPetsRepo(c),
			Diaries:  backendsb.NewDiariesRepo(c),
			Profiles: backendsb.NewProfilesRepo(c),
			Blobs:    backendsb.NewBlobStore(c),
		}, nil

	default:
		return MemoryBackend(), nil
	}
}

// NewVerifier elige cómo validar tokens:
// - DEV_AUTH => nil (X-Debug-User-ID)
// - SUPABASE_JWT_SECRET => verificación local
// - SUPABASE_URL + SUPABASE_KEY => consulta al servicio de identidad
func NewVerifier(cfg config.Config) (auth.AuthVerifier, error) {
	switch {
	case cfg.DevAuth:
		return nil, nil
	case cfg.SupabaseJWTSecret != "":
		v, err := jwtlocal.NewVerifier(cfg.SupabaseJWTSecret, "")
		if err != nil {
			return nil, err
		}
		return v, nil
	case cfg.SupabaseURL != "" && cfg.SupabaseKey != "":
		c, err := authsb.NewClient(authsb.Config{URL: cfg.SupabaseURL, APIKey: cfg.SupabaseKey, Timeout: cfg.HTTPTimeout})
		if err != nil {
			return nil, err
		}
		return authsb.NewVerifier(c), nil
	default:
		return nil, fmt.Errorf("%w: no token verifier configured (set SUPABASE_JWT_SECRET, SUPABASE_URL/SUPABASE_KEY or DEV_AUTH=true)", config.ErrInvalidConfig)
	}
}
