package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendSupabase Backend = "supabase"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config reúne todo lo que el servicio lee del entorno.
type Config struct {
	Addr    string
	Backend Backend

	DBDSN         string
	RunMigrations bool

	SupabaseURL       string
	SupabaseKey       string
	SupabaseJWTSecret string

	// Base pública para construir URLs de imágenes (base + "/" + path).
	StoragePublicBaseURL string
	PetsBucket           string
	DiariesBucket        string

	CacheTTL    time.Duration
	HTTPTimeout time.Duration

	SessionIdleTTL time.Duration
	EditIdleTTL    time.Duration
	CookieSecure   bool

	// DevAuth habilita X-Debug-User-ID cuando no hay verifier configurado.
	DevAuth bool

	LogLevel  string
	LogFormat string
	AppName   string
}

// Load carga los .env indicados (si existen) y luego lee el entorno.
// Las variables ya presentes en el entorno tienen prioridad sobre el .env.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if strings.TrimSpace(f) == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := Config{
		Addr:                 ":" + getString("PORT", "8080"),
		Backend:              Backend(strings.ToLower(getString("BACKEND", string(BackendMemory)))),
		DBDSN:                getString("DB_DSN", ""),
		SupabaseURL:          strings.TrimRight(getString("SUPABASE_URL", ""), "/"),
		SupabaseKey:          getString("SUPABASE_KEY", ""),
		SupabaseJWTSecret:    getString("SUPABASE_JWT_SECRET", ""),
		StoragePublicBaseURL: getString("STORAGE_PUBLIC_BASE_URL", ""),
		PetsBucket:           getString("PETS_BUCKET", "pets"),
		DiariesBucket:        getString("DIARIES_BUCKET", "diaries"),
		LogLevel:             getString("LOG_LEVEL", "info"),
		LogFormat:            getString("LOG_FORMAT", "text"),
		AppName:              getString("APP_NAME", "pet-diary"),
	}

	var err error
	if cfg.RunMigrations, err = getBool("RUN_MIGRATIONS", false); err != nil {
		return Config{}, err
	}
	if cfg.DevAuth, err = getBool("DEV_AUTH", false); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 0); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SessionIdleTTL, err = getDuration("SESSION_IDLE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.EditIdleTTL, err = getDuration("EDIT_IDLE_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.CookieSecure, err = getBool("COOKIE_SECURE", false); err != nil {
		return Config{}, err
	}

	if cfg.StoragePublicBaseURL == "" && cfg.SupabaseURL != "" {
		cfg.StoragePublicBaseURL = cfg.SupabaseURL + "/storage/v1/object/public"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("%w: DB_DSN required for postgres backend", ErrInvalidConfig)
		}
	case BackendSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("%w: SUPABASE_URL and SUPABASE_KEY required for supabase backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown BACKEND %q", ErrInvalidConfig, c.Backend)
	}
	return nil
}

func getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func getBool(key string, def bool) (bool, error) {
	v := getString(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a bool", ErrInvalidConfig, key)
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := getString(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a duration", ErrInvalidConfig, key)
	}
	return d, nil
}
