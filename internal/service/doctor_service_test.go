package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openclinic/recordkeeper/internal/domain/diagnosis"
	"github.com/openclinic/recordkeeper/internal/domain/doctor"
)

func TestDoctorGetOrCreateDeduplicates(t *testing.T) {
	db := newTestDB(t)
	repo := doctor.NewRepository(db)
	svc := NewDoctorService(repo, zap.NewNop())
	ctx := context.Background()

	id1, created, err := svc.GetOrCreate(ctx, "Dr. House")
	require.NoError(t, err)
	require.NotNil(t, id1)
	assert.True(t, created)

	id2, created, err := svc.GetOrCreate(ctx, "Dr. House")
	require.NoError(t, err)
	require.NotNil(t, id2)
	assert.False(t, created)
	assert.Equal(t, *id1, *id2)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDoctorGetOrCreateTrimsName(t *testing.T) {
	db := newTestDB(t)
	svc := NewDoctorService(doctor.NewRepository(db), zap.NewNop())
	ctx := context.Background()

	id1, _, err := svc.GetOrCreate(ctx, "Dr. House")
	require.NoError(t, err)
	id2, created, err := svc.GetOrCreate(ctx, "  Dr. House  ")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, *id1, *id2)
}

func TestDoctorGetOrCreateEmptyName(t *testing.T) {
	db := newTestDB(t)
	repo := doctor.NewRepository(db)
	svc := NewDoctorService(repo, zap.NewNop())
	ctx := context.Background()

	for _, name := range []string{"", "   ", "\t"} {
		id, created, err := svc.GetOrCreate(ctx, name)
		require.NoError(t, err)
		assert.Nil(t, id)
		assert.False(t, created)
	}

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, all)
}

// Resolving a soft-deleted doctor returns the existing row untouched;
// restoration is its own operation and never happens implicitly.
func TestDoctorGetOrCreateDoesNotRestore(t *testing.T) {
	db := newTestDB(t)
	repo := doctor.NewRepository(db)
	svc := NewDoctorService(repo, zap.NewNop())
	ctx := context.Background()

	id, _, err := svc.GetOrCreate(ctx, "Dr. House")
	require.NoError(t, err)
	require.NoError(t, svc.SoftDelete(ctx, *id))

	again, created, err := svc.GetOrCreate(ctx, "Dr. House")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, *id, *again)

	d, err := repo.GetByName(ctx, "Dr. House")
	require.NoError(t, err)
	assert.True(t, d.IsDeleted())

	require.NoError(t, svc.Restore(ctx, *id))
	d, err = repo.GetByName(ctx, "Dr. House")
	require.NoError(t, err)
	assert.False(t, d.IsDeleted())
}

func TestDiagnosisGetOrCreateDeduplicates(t *testing.T) {
	db := newTestDB(t)
	repo := diagnosis.NewRepository(db)
	svc := NewDiagnosisService(repo, zap.NewNop())
	ctx := context.Background()

	id1, created, err := svc.GetOrCreate(ctx, "Dysphonia")
	require.NoError(t, err)
	assert.True(t, created)
	id2, created, err := svc.GetOrCreate(ctx, "Dysphonia")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, *id1, *id2)

	id3, created, err := svc.GetOrCreate(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, id3)
	assert.False(t, created)
}
