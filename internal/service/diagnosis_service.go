package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openclinic/recordkeeper/internal/domain/diagnosis"
)

type DiagnosisService struct {
	repo diagnosis.Repository
	log  *zap.Logger
}

func NewDiagnosisService(repo diagnosis.Repository, log *zap.Logger) *DiagnosisService {
	return &DiagnosisService{repo: repo, log: log}
}

// GetOrCreate resolves a diagnosis name to an id with the same contract as
// DoctorService.GetOrCreate: empty name resolves to nil, soft-deleted rows
// are returned without being restored, insert conflicts are re-read.
func (s *DiagnosisService) GetOrCreate(ctx context.Context, name string) (*uuid.UUID, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, nil
	}

	if d, err := s.repo.GetByName(ctx, name); err == nil {
		return &d.ID, false, nil
	} else if !errors.Is(err, diagnosis.ErrDiagnosisNotFound) {
		return nil, false, fmt.Errorf("resolving diagnosis %q: %w", name, err)
	}

	d := &diagnosis.Diagnosis{Name: name}
	err := s.repo.Create(ctx, d)
	if errors.Is(err, diagnosis.ErrDiagnosisAlreadyExists) {
		existing, ferr := s.repo.GetByName(ctx, name)
		if ferr != nil {
			return nil, false, fmt.Errorf("re-fetching diagnosis %q after conflict: %w", name, ferr)
		}
		return &existing.ID, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("creating diagnosis %q: %w", name, err)
	}

	s.log.Debug("diagnosis created", zap.String("name", name), zap.String("diagnosis_id", d.ID.String()))
	return &d.ID, true, nil
}

// Restore clears a diagnosis's soft-delete marker.
func (s *DiagnosisService) Restore(ctx context.Context, id uuid.UUID) error {
	return s.repo.Restore(ctx, id)
}

func (s *DiagnosisService) List(ctx context.Context, includeDeleted bool) ([]*diagnosis.Diagnosis, error) {
	return s.repo.List(ctx, includeDeleted)
}

func (s *DiagnosisService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
