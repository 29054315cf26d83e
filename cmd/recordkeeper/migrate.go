package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openclinic/recordkeeper/internal/migration"
	"github.com/openclinic/recordkeeper/pkg/metrics"
	"github.com/openclinic/recordkeeper/pkg/tracer"
)

var migrateForce bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import data from the legacy folder-based store",
	Long: `Detect a legacy folder/JSON data store, snapshot it to a timestamped
backup directory, and import it into the relational store.

The migration runs at most once: when the store already contains patients it
is skipped. Use --force to bypass the detection gate; re-runs are still
shielded by the upsert semantics and will not duplicate data.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "run even if the store looks migrated")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() { _ = tp.Shutdown(cmd.Context()) }()

	opts := []migration.Option{
		migration.WithProgress(func(p migration.Progress) {
			log.Info("migration progress",
				zap.String("step", p.Step),
				zap.Int("stage", p.Stage),
				zap.Int("total", p.Total),
				zap.Int("percent", p.Percent),
			)
		}),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, migration.WithMetrics(metrics.NewCollector(cfg.App.Name)))
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, metrics.MetricsHandler()); err != nil {
				log.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
	}

	engine := migration.NewEngine(db, cfg.Data, log, opts...)

	if !migrateForce {
		needed, err := engine.NeedsMigration(cmd.Context())
		if err != nil {
			return fmt.Errorf("checking for legacy data: %w", err)
		}
		if !needed {
			fmt.Println("nothing to migrate")
			return nil
		}
	}

	res := engine.Run(cmd.Context())

	for _, e := range res.Errors {
		fmt.Printf("  skipped: %s\n", e)
	}
	if !res.Success {
		if res.BackupPath != "" {
			return fmt.Errorf("migration failed: %s (legacy data preserved at %s)", res.Message, res.BackupPath)
		}
		return fmt.Errorf("migration failed: %s", res.Message)
	}

	fmt.Printf("migration completed: %d doctors, %d diagnoses, %d patients, %d appointments, %d tests (%d records skipped)\n",
		res.Stats.Doctors, res.Stats.Diagnoses, res.Stats.Patients,
		res.Stats.Appointments, res.Stats.Tests, len(res.Errors))
	fmt.Printf("backup: %s\n", res.BackupPath)
	return nil
}
