package migration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openclinic/recordkeeper/config"
	"github.com/openclinic/recordkeeper/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

// newTestEngine builds an engine over a fresh in-memory store and an empty
// legacy directory. Tests populate the returned legacy dir before Run.
func newTestEngine(t *testing.T, opts ...Option) (*Engine, *gorm.DB, string) {
	t.Helper()
	db := newTestDB(t)
	legacyDir := filepath.Join(t.TempDir(), "legacy")
	require.NoError(t, os.MkdirAll(legacyDir, 0o755))

	cfg := config.DataConfig{
		Dir:       t.TempDir(),
		LegacyDir: legacyDir,
		BackupDir: t.TempDir(),
	}
	return NewEngine(db, cfg, zap.NewNop(), opts...), db, legacyDir
}

func newTestEngineWith(t *testing.T, db *gorm.DB, cfg config.DataConfig, opts ...Option) *Engine {
	t.Helper()
	return NewEngine(db, cfg, zap.NewNop(), opts...)
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	writeFile(t, path, data)
}
