package diagnosis

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new diagnosis. Returns ErrDiagnosisAlreadyExists on duplicate name.
	Create(ctx context.Context, d *Diagnosis) error

	// GetByID retrieves a diagnosis by primary key. Returns ErrDiagnosisNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Diagnosis, error)

	// GetByName retrieves a diagnosis by exact name, including soft-deleted rows.
	GetByName(ctx context.Context, name string) (*Diagnosis, error)

	// List returns all diagnoses, excluding soft-deleted rows unless includeDeleted is set.
	List(ctx context.Context, includeDeleted bool) ([]*Diagnosis, error)

	// SoftDelete marks the diagnosis as deleted without removing the row.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Restore clears the soft-delete marker.
	Restore(ctx context.Context, id uuid.UUID) error
}
