package clinicaltest

import (
	"context"

	"github.com/google/uuid"
)

type TemplateRepository interface {
	// Create persists a new template. Returns ErrTemplateAlreadyExists on duplicate id.
	Create(ctx context.Context, t *TestTemplate) error

	// GetByID retrieves a template by its string id.
	GetByID(ctx context.Context, id string) (*TestTemplate, error)

	// GetByName retrieves a template by exact name.
	GetByName(ctx context.Context, name string) (*TestTemplate, error)

	// List returns all templates ordered by name.
	List(ctx context.Context) ([]*TestTemplate, error)
}

type TestRepository interface {
	// Create persists a new patient test result.
	Create(ctx context.Context, t *PatientTest) error

	// GetByID retrieves a patient test by primary key.
	GetByID(ctx context.Context, id uuid.UUID) (*PatientTest, error)

	// ListByPatient returns a patient's tests, newest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*PatientTest, error)

	// Count returns the total number of patient test rows.
	Count(ctx context.Context) (int64, error)
}
