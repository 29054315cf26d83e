package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new doctor. Returns ErrDoctorAlreadyExists on duplicate name.
	Create(ctx context.Context, d *Doctor) error

	// GetByID retrieves a doctor by primary key. Returns ErrDoctorNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	// GetByName retrieves a doctor by exact name, including soft-deleted rows.
	GetByName(ctx context.Context, name string) (*Doctor, error)

	// List returns all doctors, excluding soft-deleted rows unless includeDeleted is set.
	List(ctx context.Context, includeDeleted bool) ([]*Doctor, error)

	// SoftDelete marks the doctor as deleted without removing the row.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Restore clears the soft-delete marker.
	Restore(ctx context.Context, id uuid.UUID) error
}
