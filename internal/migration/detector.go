package migration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// NeedsMigration decides whether the one-time migration must run.
//
// The store check comes first and is the idempotence gate: any patient rows
// mean a previous run already populated the store, and the filesystem is not
// probed at all. Only an empty store triggers the legacy probes — first the
// top-level settings file, then a scan of every storage root for patient
// folders carrying a legacy config.
func (e *Engine) NeedsMigration(ctx context.Context) (bool, error) {
	count, err := e.patients.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("counting patients: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	settingsPath := filepath.Join(e.cfg.LegacyDir, legacySettingsFile)
	if _, err := os.Stat(settingsPath); err == nil {
		e.log.Info("legacy settings file found", zap.String("path", settingsPath))
		return true, nil
	}

	for _, root := range e.storageRoots(ctx) {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			cfgPath := filepath.Join(root, entry.Name(), legacyPatientConfig)
			if _, err := os.Stat(cfgPath); err == nil {
				e.log.Info("legacy patient folder found",
					zap.String("root", root),
					zap.String("folder", entry.Name()),
				)
				return true, nil
			}
		}
	}

	return false, nil
}
