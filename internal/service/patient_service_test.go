package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openclinic/recordkeeper/internal/domain/patient"
)

func TestPatientUpsertByFolderPath(t *testing.T) {
	db := newTestDB(t)
	repo := patient.NewRepository(db)
	svc := NewPatientService(repo, zap.NewNop())
	ctx := context.Background()

	p1, created, err := svc.UpsertByFolderPath(ctx, &patient.CreatePatientCommand{
		Surname:    "Ivanov",
		Name:       "Petro",
		Birthdate:  "1980-05-01",
		FolderPath: "Ivanov_Petro_1980-05-01",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, patient.StatusActive, p1.Status)

	// The same folder seen again is the same patient; the existing row wins
	// and its fields are not overwritten.
	p2, created, err := svc.UpsertByFolderPath(ctx, &patient.CreatePatientCommand{
		Surname:    "Different",
		Name:       "Person",
		FolderPath: "Ivanov_Petro_1980-05-01",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p1.ID, p2.ID)
	assert.Equal(t, "Ivanov", p2.Surname)
	assert.Equal(t, "Petro", p2.Name)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestPatientUpsertRequiresFolderPath(t *testing.T) {
	db := newTestDB(t)
	svc := NewPatientService(patient.NewRepository(db), zap.NewNop())

	_, _, err := svc.UpsertByFolderPath(context.Background(), &patient.CreatePatientCommand{
		Surname: "Ivanov",
	})
	assert.ErrorIs(t, err, patient.ErrFolderPathRequired)
}
