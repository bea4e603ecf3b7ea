// Package migrate aplica las migraciones SQL embebidas al arrancar.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"pet-diary/internal/platform/logger"
	"pet-diary/migrations"
)

// Up corre todas las migraciones pendientes.
func Up(ctx context.Context, dsn string, log logger.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

// gooseLogger adapta logger.Logger a goose.Logger.
type gooseLogger struct{ log logger.Logger }

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), map[string]any{"component": "migrate"})
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), map[string]any{"component": "migrate"})
}
