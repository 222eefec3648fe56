package services

import (
	"log/slog"
	"testing"

	"github.com/sitedeck/sitedeck-go/internal/infrastructure/media"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
	persistence "github.com/sitedeck/sitedeck-go/internal/infrastructure/persistence/content"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/persistence/database"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
	})
	require.NoError(t, err)
	return logger
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewConnection("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tc := database.NewTableCreator()
	require.NoError(t, tc.CreateSchema(db.DB))
	return db
}

// newTestAssetService writes real files under a temp dir so rollback and
// cleanup paths are exercised end to end.
func newTestAssetService(t *testing.T, db *database.DB) *AssetService {
	t.Helper()
	logger := newTestLogger(t)
	store := media.NewAssetStore(t.TempDir(), "/media")
	return NewAssetService(persistence.NewAssetRepository(db.DB), store, logger)
}
