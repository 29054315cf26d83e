package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openclinic/recordkeeper/internal/domain/appointment"
	"github.com/openclinic/recordkeeper/internal/domain/clinicaltest"
	"github.com/openclinic/recordkeeper/internal/domain/patient"
	"github.com/openclinic/recordkeeper/internal/migration"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store row counts and legacy-data detection",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, log, db, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	patients, err := patient.NewRepository(db).Count(ctx)
	if err != nil {
		return err
	}
	appointments, err := appointment.NewRepository(db).Count(ctx)
	if err != nil {
		return err
	}
	tests, err := clinicaltest.NewTestRepository(db).Count(ctx)
	if err != nil {
		return err
	}

	engine := migration.NewEngine(db, cfg.Data, log)
	needed, err := engine.NeedsMigration(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("store: %s\n", cfg.Database.Path)
	fmt.Printf("patients:     %d\n", patients)
	fmt.Printf("appointments: %d\n", appointments)
	fmt.Printf("tests:        %d\n", tests)
	if needed {
		fmt.Println("legacy data detected: run `recordkeeper migrate`")
	} else {
		fmt.Println("no pending migration")
	}
	return nil
}
