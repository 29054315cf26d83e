package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/openclinic/recordkeeper/internal/domain/settings"
)

// migrateSettings imports the legacy app.config: the doctor and diagnosis
// dictionaries, the flat settings keys, and the tab configuration. A broken
// or unreadable file aborts only this stage's work; the rest of the
// migration still runs.
func (e *Engine) migrateSettings(ctx context.Context, res *Result) error {
	path := filepath.Join(e.cfg.LegacyDir, legacySettingsFile)

	var ls legacySettings
	ok, err := decodeJSONFile(ctx, path, &ls)
	if err != nil {
		e.recordError(res, fmt.Sprintf("settings file %s", path), err)
		return nil
	}
	if !ok {
		return nil
	}

	for _, name := range ls.Doctors {
		_, created, rerr := e.doctorSvc.GetOrCreate(ctx, name)
		if rerr != nil {
			e.recordError(res, fmt.Sprintf("settings doctor %q", name), rerr)
			continue
		}
		if created {
			res.Stats.Doctors++
			e.countEntity("doctor")
		}
	}

	for _, name := range ls.Diagnoses {
		_, created, rerr := e.diagnosisSvc.GetOrCreate(ctx, name)
		if rerr != nil {
			e.recordError(res, fmt.Sprintf("settings diagnosis %q", name), rerr)
			continue
		}
		if created {
			res.Stats.Diagnoses++
			e.countEntity("diagnosis")
		}
	}

	// Only keys present in the legacy file are written; absent keys keep
	// their store defaults.
	kv := map[string]*string{
		settings.KeyTheme:            ls.Theme,
		settings.KeyLanguage:         ls.Language,
		settings.KeyPraatPath:        ls.PraatPath,
		settings.KeyDocumentTemplate: ls.DocumentTemplate,
	}
	for key, value := range kv {
		if value == nil {
			continue
		}
		if serr := e.settings.Set(ctx, key, *value); serr != nil {
			e.recordError(res, fmt.Sprintf("settings key %q", key), serr)
		}
	}

	if len(ls.StoragePaths) > 0 {
		encoded, merr := json.Marshal(ls.StoragePaths)
		if merr == nil {
			if serr := e.settings.Set(ctx, settings.KeyStoragePaths, string(encoded)); serr != nil {
				e.recordError(res, "settings storage paths", serr)
			}
		}
	}

	if ls.ShownTabs != nil {
		if terr := e.settings.ReplaceTabs(ctx, ls.ShownTabs); terr != nil {
			e.recordError(res, "settings tabs", terr)
		}
	}

	e.log.Info("legacy settings migrated",
		zap.Int("doctors", len(ls.Doctors)),
		zap.Int("diagnoses", len(ls.Diagnoses)),
		zap.Int("tabs", len(ls.ShownTabs)),
	)
	return ctx.Err()
}
