package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openclinic/recordkeeper/internal/domain/doctor"
)

type DoctorService struct {
	repo doctor.Repository
	log  *zap.Logger
}

func NewDoctorService(repo doctor.Repository, log *zap.Logger) *DoctorService {
	return &DoctorService{repo: repo, log: log}
}

// GetOrCreate resolves a doctor name to an id, inserting a new row on first
// sight. An empty name resolves to nil without touching the store.
// Soft-deleted doctors are returned as-is and NOT restored; restoration is
// an explicit operation (see Restore).
//
// Safe against concurrent callers racing on the same name: a duplicate-key
// failure on insert means someone else just created the row, so it is
// re-fetched instead of surfacing the conflict.
func (s *DoctorService) GetOrCreate(ctx context.Context, name string) (*uuid.UUID, bool, error) {
	name = doctor.NormalizeName(name)
	if name == "" {
		return nil, false, nil
	}

	if d, err := s.repo.GetByName(ctx, name); err == nil {
		return &d.ID, false, nil
	} else if !errors.Is(err, doctor.ErrDoctorNotFound) {
		return nil, false, fmt.Errorf("resolving doctor %q: %w", name, err)
	}

	d := &doctor.Doctor{Name: name}
	err := s.repo.Create(ctx, d)
	if errors.Is(err, doctor.ErrDoctorAlreadyExists) {
		existing, ferr := s.repo.GetByName(ctx, name)
		if ferr != nil {
			return nil, false, fmt.Errorf("re-fetching doctor %q after conflict: %w", name, ferr)
		}
		return &existing.ID, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("creating doctor %q: %w", name, err)
	}

	s.log.Debug("doctor created", zap.String("name", name), zap.String("doctor_id", d.ID.String()))
	return &d.ID, true, nil
}

// Restore clears a doctor's soft-delete marker. Used by the dictionary
// management surface, never by the migration engine.
func (s *DoctorService) Restore(ctx context.Context, id uuid.UUID) error {
	return s.repo.Restore(ctx, id)
}

func (s *DoctorService) List(ctx context.Context, includeDeleted bool) ([]*doctor.Doctor, error) {
	return s.repo.List(ctx, includeDeleted)
}

func (s *DoctorService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
