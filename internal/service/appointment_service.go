package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openclinic/recordkeeper/internal/domain/appointment"
)

type AppointmentService struct {
	repo appointment.Repository
	log  *zap.Logger
}

func NewAppointmentService(repo appointment.Repository, log *zap.Logger) *AppointmentService {
	return &AppointmentService{repo: repo, log: log}
}

// Upsert merges appointment data into the row keyed by (patient, date),
// creating it first when absent. Only the fields present in the command are
// overwritten; a present doctor list replaces the junction rows wholesale.
func (s *AppointmentService) Upsert(ctx context.Context, patientID uuid.UUID, date string, cmd *appointment.UpdateAppointmentCommand) (*appointment.Appointment, bool, error) {
	existing, err := s.repo.GetByPatientAndDate(ctx, patientID, date)
	if err != nil && !errors.Is(err, appointment.ErrAppointmentNotFound) {
		return nil, false, fmt.Errorf("looking up appointment %s/%s: %w", patientID, date, err)
	}

	created := false
	if existing == nil {
		a := &appointment.Appointment{
			PatientID:       patientID,
			AppointmentDate: date,
		}
		cerr := s.repo.Create(ctx, a, nil)
		if errors.Is(cerr, appointment.ErrAppointmentAlreadyExists) {
			existing, err = s.repo.GetByPatientAndDate(ctx, patientID, date)
			if err != nil {
				return nil, false, fmt.Errorf("re-fetching appointment %s/%s after conflict: %w", patientID, date, err)
			}
		} else if cerr != nil {
			return nil, false, cerr
		} else {
			existing = a
			created = true
		}
	}

	updated, err := s.repo.Update(ctx, existing.ID, cmd)
	if err != nil {
		return nil, created, err
	}

	if created {
		s.log.Debug("appointment created",
			zap.String("patient_id", patientID.String()),
			zap.String("date", date),
		)
	}
	return updated, created, nil
}

// CreateIfMissing inserts an appointment for (patient, date) carrying the
// given diagnosis, and leaves an existing row completely untouched.
func (s *AppointmentService) CreateIfMissing(ctx context.Context, patientID uuid.UUID, date string, diagnosisID *uuid.UUID) (bool, error) {
	_, err := s.repo.GetByPatientAndDate(ctx, patientID, date)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, appointment.ErrAppointmentNotFound) {
		return false, fmt.Errorf("looking up appointment %s/%s: %w", patientID, date, err)
	}

	a := &appointment.Appointment{
		PatientID:       patientID,
		AppointmentDate: date,
		DiagnosisID:     diagnosisID,
	}
	cerr := s.repo.Create(ctx, a, nil)
	if errors.Is(cerr, appointment.ErrAppointmentAlreadyExists) {
		return false, nil
	}
	if cerr != nil {
		return false, cerr
	}
	return true, nil
}

func (s *AppointmentService) Get(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AppointmentService) GetByPatientAndDate(ctx context.Context, patientID uuid.UUID, date string) (*appointment.Appointment, error) {
	return s.repo.GetByPatientAndDate(ctx, patientID, date)
}

func (s *AppointmentService) ListDoctorIDs(ctx context.Context, appointmentID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ListDoctorIDs(ctx, appointmentID)
}

func (s *AppointmentService) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*appointment.Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}
