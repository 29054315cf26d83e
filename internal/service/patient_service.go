package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openclinic/recordkeeper/internal/domain/patient"
)

type PatientService struct {
	repo patient.Repository
	log  *zap.Logger
}

func NewPatientService(repo patient.Repository, log *zap.Logger) *PatientService {
	return &PatientService{repo: repo, log: log}
}

// UpsertByFolderPath creates a patient for a legacy folder, or reuses the
// existing row when the folder path is already known (same folder seen under
// a second storage root, or a concurrent appointment write got there first).
// The existing row wins: its fields are not overwritten.
func (s *PatientService) UpsertByFolderPath(ctx context.Context, cmd *patient.CreatePatientCommand) (*patient.Patient, bool, error) {
	if cmd.FolderPath == "" {
		return nil, false, patient.ErrFolderPathRequired
	}

	if existing, err := s.repo.GetByFolderPath(ctx, cmd.FolderPath); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, patient.ErrPatientNotFound) {
		return nil, false, fmt.Errorf("looking up patient %q: %w", cmd.FolderPath, err)
	}

	p := &patient.Patient{
		Surname:            cmd.Surname,
		Name:               cmd.Name,
		Birthdate:          cmd.Birthdate,
		FolderPath:         cmd.FolderPath,
		PatientCardPath:    cmd.PatientCardPath,
		PrimaryDoctorID:    cmd.PrimaryDoctorID,
		PrimaryDiagnosisID: cmd.PrimaryDiagnosisID,
		Status:             patient.StatusActive,
	}

	err := s.repo.Create(ctx, p)
	if errors.Is(err, patient.ErrPatientAlreadyExists) {
		existing, ferr := s.repo.GetByFolderPath(ctx, cmd.FolderPath)
		if ferr != nil {
			return nil, false, fmt.Errorf("re-fetching patient %q after conflict: %w", cmd.FolderPath, ferr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("creating patient %q: %w", cmd.FolderPath, err)
	}

	s.log.Debug("patient created",
		zap.String("folder_path", cmd.FolderPath),
		zap.String("patient_id", p.ID.String()),
	)
	return p, true, nil
}

func (s *PatientService) Get(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PatientService) GetByFolderPath(ctx context.Context, folderPath string) (*patient.Patient, error) {
	return s.repo.GetByFolderPath(ctx, folderPath)
}

func (s *PatientService) Update(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	return s.repo.Update(ctx, id, cmd)
}

func (s *PatientService) List(ctx context.Context) ([]*patient.Patient, error) {
	return s.repo.List(ctx)
}
