// @title Pet Diary API
// @version 1.0
// @description BFF del diario de mascotas: perfiles, diario, sesión y avisos.
// @BasePath /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-diary/internal/migrate"
	"pet-diary/internal/platform/config"
	"pet-diary/internal/platform/logger"
	"pet-diary/internal/platform/notify"
	"pet-diary/internal/router"
	"pet-diary/internal/session"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		logger.NewFromEnv().Error("config error", map[string]any{"error": err})
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	if zl, ok := log.(*logger.ZapLogger); ok {
		defer func() { _ = zl.Sync() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Backend == config.BackendPostgres && cfg.RunMigrations {
		if err := migrate.Up(ctx, cfg.DBDSN, log); err != nil {
			log.Error("migrations failed", map[string]any{"error": err})
			return err
		}
	}

	verifier, err := router.NewVerifier(cfg)
	if err != nil {
		log.Error("auth setup failed", map[string]any{"error": err})
		return err
	}
	if verifier == nil {
		log.Warn("dev auth enabled, X-Debug-User-ID is trusted", nil)
	}

	backend, err := router.OpenBackend(ctx, cfg, log)
	if err != nil {
		log.Error("backend setup failed", map[string]any{"error": err, "backend": string(cfg.Backend)})
		return err
	}
	if backend.Close != nil {
		defer backend.Close()
	}

	rt := router.NewRouter(router.Options{
		Config:       cfg,
		Logger:       log,
		AuthVerifier: verifier,
		Backend:      backend,
		Sessions:     session.NewStore(cfg.SessionIdleTTL),
		Feed:         notify.NewFeed(notify.DefaultCapacity, log),
	})
	go sweepLoop(ctx, rt, sweepInterval(cfg.SessionIdleTTL, cfg.EditIdleTTL), log)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      rt,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Addr, "backend": string(cfg.Backend)})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", map[string]any{"error": err})
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", map[string]any{"error": err})
		return err
	}
	return nil
}

// sweepLoop borra periódicamente sesiones y ediciones inactivas.
func sweepLoop(ctx context.Context, rt *router.Router, interval time.Duration, log logger.Logger) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			sessions, edits := rt.Sweep()
			if sessions > 0 || edits > 0 {
				log.Debug("idle state swept", map[string]any{"sessions": sessions, "edits": edits})
			}
		}
	}
}

// sweepInterval es un cuarto del TTL más corto, con piso de un minuto.
func sweepInterval(ttls ...time.Duration) time.Duration {
	interval := time.Duration(0)
	for _, ttl := range ttls {
		if ttl > 0 && (interval == 0 || ttl/4 < interval) {
			interval = ttl / 4
		}
	}
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}
