package migration

import (
	"context"
	"path/filepath"
)

// storageRoots returns the legacy storage roots to scan, in order: roots
// from the application config first, then storage paths declared in the
// legacy app.config. The store cannot be the source of roots here — it is
// empty before migration — so when nothing is configured anywhere, the
// single well-known default root under the legacy data directory is used.
func (e *Engine) storageRoots(ctx context.Context) []string {
	roots := make([]string, 0, len(e.cfg.StorageRoots)+1)
	seen := map[string]bool{}
	add := func(r string) {
		if r == "" || seen[r] {
			return
		}
		seen[r] = true
		roots = append(roots, r)
	}

	for _, r := range e.cfg.StorageRoots {
		add(r)
	}

	var ls legacySettings
	if ok, err := decodeJSONFile(ctx, filepath.Join(e.cfg.LegacyDir, legacySettingsFile), &ls); ok && err == nil {
		for _, r := range ls.StoragePaths {
			add(r)
		}
	}

	if len(roots) == 0 {
		add(filepath.Join(e.cfg.LegacyDir, legacyDefaultPatients))
	}
	return roots
}
