package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openclinic/recordkeeper/config"
	"github.com/openclinic/recordkeeper/pkg/database"
	"github.com/openclinic/recordkeeper/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "recordkeeper",
	Short: "Clinic patient-records data core",
	Long: `recordkeeper is the data core of the clinic records application: an
embedded relational store for doctors, diagnoses, patients, appointments and
clinical tests, plus the one-time migration engine that imports data from the
legacy folder-based store.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(statusCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, builds the logger and opens the store. Shared
// by every subcommand.
func setup() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building logger: %w", err)
	}

	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening store: %w", err)
	}
	if err := database.Migrate(db, log); err != nil {
		return nil, nil, nil, fmt.Errorf("preparing schema: %w", err)
	}

	return cfg, log, db, nil
}
