package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/openclinic/recordkeeper/config"
	"github.com/openclinic/recordkeeper/internal/domain/patient"
	"github.com/openclinic/recordkeeper/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

func createTestPatient(t *testing.T, db *gorm.DB, folderPath string) *patient.Patient {
	t.Helper()
	p := &patient.Patient{
		Surname:    "Ivanov",
		Name:       "Ivan",
		FolderPath: folderPath,
		Status:     patient.StatusActive,
	}
	require.NoError(t, patient.NewRepository(db).Create(context.Background(), p))
	return p
}
