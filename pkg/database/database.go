package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/openclinic/recordkeeper/config"
	"github.com/openclinic/recordkeeper/pkg/database/dberr"
	"github.com/openclinic/recordkeeper/internal/domain/appointment"
	"github.com/openclinic/recordkeeper/internal/domain/clinicaltest"
	"github.com/openclinic/recordkeeper/internal/domain/diagnosis"
	"github.com/openclinic/recordkeeper/internal/domain/doctor"
	"github.com/openclinic/recordkeeper/internal/domain/patient"
	"github.com/openclinic/recordkeeper/internal/domain/settings"
)

// Open connects to the embedded SQLite store. The store is single-writer,
// so the pool is pinned to one connection.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", cfg.Path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxIdleTime(0)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	if err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", busy.Milliseconds())).Error; err != nil {
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the relational schema.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	models := []any{
		&doctor.Doctor{},
		&diagnosis.Diagnosis{},
		&patient.Patient{},
		&appointment.Appointment{},
		&appointment.AppointmentDoctor{},
		&clinicaltest.TestTemplate{},
		&clinicaltest.PatientTest{},
		&settings.Setting{},
		&settings.Tab{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
func IsDuplicateKey(err error) bool {
	return dberr.IsDuplicateKey(err)
}
