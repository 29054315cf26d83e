package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new appointment together with its doctor links.
	// Returns ErrAppointmentAlreadyExists on a duplicate (patient, date) pair.
	Create(ctx context.Context, a *Appointment, doctorIDs []uuid.UUID) error

	// GetByID retrieves an appointment by primary key.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// GetByPatientAndDate retrieves the appointment for one patient on one date.
	GetByPatientAndDate(ctx context.Context, patientID uuid.UUID, date string) (*Appointment, error)

	// Update applies partial updates to an existing appointment.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateAppointmentCommand) (*Appointment, error)

	// ReplaceDoctors swaps the appointment's doctor links wholesale.
	ReplaceDoctors(ctx context.Context, appointmentID uuid.UUID, doctorIDs []uuid.UUID) error

	// ListDoctorIDs returns the ids of the doctors linked to an appointment.
	ListDoctorIDs(ctx context.Context, appointmentID uuid.UUID) ([]uuid.UUID, error)

	// ListByPatient returns a patient's appointments ordered by date descending.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)

	// Count returns the total number of appointment rows.
	Count(ctx context.Context) (int64, error)
}
