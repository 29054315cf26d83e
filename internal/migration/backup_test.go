package migration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclinic/recordkeeper/config"
)

func TestCreateBackupCopiesTree(t *testing.T) {
	db := newTestDB(t)
	legacyDir := filepath.Join(t.TempDir(), "legacy")
	writeFile(t, filepath.Join(legacyDir, "app.config"), []byte(`{"theme":"dark"}`))
	writeFile(t, filepath.Join(legacyDir, "patients", "Ivanov_Ivan_1990-01-01", "patient.config"), []byte(`{}`))

	backupDir := t.TempDir()
	clock := func() time.Time { return time.Date(2024, 3, 4, 15, 6, 7, 0, time.UTC) }
	e := newTestEngineWith(t, db, config.DataConfig{
		LegacyDir: legacyDir,
		BackupDir: backupDir,
	}, WithClock(clock))

	dst, err := e.CreateBackup()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(backupDir, "legacy-backup-20240304-150607"), dst)

	data, err := os.ReadFile(filepath.Join(dst, "app.config"))
	require.NoError(t, err)
	assert.Equal(t, `{"theme":"dark"}`, string(data))
	_, err = os.Stat(filepath.Join(dst, "patients", "Ivanov_Ivan_1990-01-01", "patient.config"))
	assert.NoError(t, err)
}

// With no backup directory configured the snapshot lands next to the legacy
// directory itself.
func TestCreateBackupDefaultsToSibling(t *testing.T) {
	db := newTestDB(t)
	legacyDir := filepath.Join(t.TempDir(), "legacy")
	writeFile(t, filepath.Join(legacyDir, "app.config"), []byte(`{}`))

	clock := func() time.Time { return time.Date(2024, 3, 4, 15, 6, 7, 0, time.UTC) }
	e := newTestEngineWith(t, db, config.DataConfig{LegacyDir: legacyDir}, WithClock(clock))

	dst, err := e.CreateBackup()
	require.NoError(t, err)
	assert.Equal(t, legacyDir+"-backup-20240304-150607", dst)
	_, err = os.Stat(filepath.Join(dst, "app.config"))
	assert.NoError(t, err)
}

func TestCreateBackupMissingLegacyDir(t *testing.T) {
	db := newTestDB(t)
	e := newTestEngineWith(t, db, config.DataConfig{
		LegacyDir: filepath.Join(t.TempDir(), "gone"),
	})

	_, err := e.CreateBackup()
	assert.Error(t, err)
}
