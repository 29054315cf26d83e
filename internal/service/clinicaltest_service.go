package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openclinic/recordkeeper/internal/domain/clinicaltest"
)

type ClinicalTestService struct {
	templates clinicaltest.TemplateRepository
	tests     clinicaltest.TestRepository
	log       *zap.Logger
}

func NewClinicalTestService(templates clinicaltest.TemplateRepository, tests clinicaltest.TestRepository, log *zap.Logger) *ClinicalTestService {
	return &ClinicalTestService{templates: templates, tests: tests, log: log}
}

// GetOrCreateTemplateByID resolves a template by its exact legacy id,
// synthesizing one from the command when the id is unknown. Unlike
// CreateTemplate, identity here is the id, not the name: two legacy files
// referencing the same id share a template even if their names differ.
func (s *ClinicalTestService) GetOrCreateTemplateByID(ctx context.Context, id string, cmd *clinicaltest.CreateTemplateCommand) (*clinicaltest.TestTemplate, bool, error) {
	if id == "" {
		return nil, false, clinicaltest.ErrTemplateNotFound
	}

	if t, err := s.templates.GetByID(ctx, id); err == nil {
		return t, false, nil
	} else if !errors.Is(err, clinicaltest.ErrTemplateNotFound) {
		return nil, false, fmt.Errorf("resolving test template %q: %w", id, err)
	}

	t := &clinicaltest.TestTemplate{
		ID:           id,
		Name:         cmd.Name,
		TestType:     cmd.TestType,
		Description:  cmd.Description,
		TemplateData: cmd.TemplateData,
	}
	err := s.templates.Create(ctx, t)
	if errors.Is(err, clinicaltest.ErrTemplateAlreadyExists) {
		existing, ferr := s.templates.GetByID(ctx, id)
		if ferr != nil {
			return nil, false, fmt.Errorf("re-fetching test template %q after conflict: %w", id, ferr)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.log.Debug("test template created",
		zap.String("template_id", t.ID),
		zap.String("name", t.Name),
	)
	return t, true, nil
}

// CreateTemplate is the live-app creation path: it dedups by template name.
func (s *ClinicalTestService) CreateTemplate(ctx context.Context, cmd *clinicaltest.CreateTemplateCommand) (*clinicaltest.TestTemplate, error) {
	if cmd.Name != "" {
		if existing, err := s.templates.GetByName(ctx, cmd.Name); err == nil {
			return existing, nil
		} else if !errors.Is(err, clinicaltest.ErrTemplateNotFound) {
			return nil, fmt.Errorf("looking up test template %q: %w", cmd.Name, err)
		}
	}

	t := &clinicaltest.TestTemplate{
		Name:         cmd.Name,
		TestType:     cmd.TestType,
		Description:  cmd.Description,
		TemplateData: cmd.TemplateData,
	}
	if err := s.templates.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// RecordResult stores one administered test.
func (s *ClinicalTestService) RecordResult(ctx context.Context, cmd *clinicaltest.CreateTestCommand) (*clinicaltest.PatientTest, error) {
	t := &clinicaltest.PatientTest{
		PatientID:      cmd.PatientID,
		AppointmentID:  cmd.AppointmentID,
		TestTemplateID: cmd.TestTemplateID,
		TestName:       cmd.TestName,
		TestType:       cmd.TestType,
		TestData:       cmd.TestData,
	}
	if err := s.tests.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *ClinicalTestService) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*clinicaltest.PatientTest, error) {
	return s.tests.ListByPatient(ctx, patientID)
}

func (s *ClinicalTestService) TemplateByID(ctx context.Context, id string) (*clinicaltest.TestTemplate, error) {
	return s.templates.GetByID(ctx, id)
}
