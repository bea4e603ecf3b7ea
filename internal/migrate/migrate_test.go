package migrate

import (
	"io/fs"
	"testing"

	"pet-diary/internal/platform/logger"
	"pet-diary/migrations"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var _ goose.Logger = gooseLogger{}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(files), 2)
	assert.Equal(t, "00001_init.sql", files[0])
}

func TestGooseLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	g := gooseLogger{log: logger.NewZap(zap.New(core))}

	g.Printf("OK   %s (%v)\n", "00001_init.sql", "1ms")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "OK   00001_init.sql (1ms)", entries[0].Message)
	assert.Equal(t, "migrate", entries[0].ContextMap()["component"])
}
