package migration

import (
	"fmt"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
)

const backupTimestampLayout = "20060102-150405"

// CreateBackup snapshots the whole legacy data directory before any store
// mutation. The copy is a plain recursive file copy into a timestamped
// directory, so a failed or interrupted migration can always be recovered by
// hand. A failure here is fatal to the run.
func (e *Engine) CreateBackup() (string, error) {
	src := e.cfg.LegacyDir
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("legacy data directory %q: %w", src, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("legacy data path %q is not a directory", src)
	}

	stamp := e.now().Format(backupTimestampLayout)
	dst := e.cfg.BackupDir
	if dst == "" {
		dst = fmt.Sprintf("%s-backup-%s", filepath.Clean(src), stamp)
	} else {
		dst = filepath.Join(dst, fmt.Sprintf("legacy-backup-%s", stamp))
	}

	if err := cp.Copy(src, dst); err != nil {
		return "", fmt.Errorf("copying %q to %q: %w", src, dst, err)
	}
	return dst, nil
}
