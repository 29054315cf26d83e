package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient. Returns ErrPatientAlreadyExists on duplicate FolderPath.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// GetByFolderPath retrieves a patient by its legacy folder name.
	GetByFolderPath(ctx context.Context, folderPath string) (*Patient, error)

	// Update applies partial updates to an existing patient record.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdatePatientCommand) (*Patient, error)

	// List returns all patients ordered by surname.
	List(ctx context.Context) ([]*Patient, error)

	// Count returns the total number of patient rows.
	Count(ctx context.Context) (int64, error)
}
