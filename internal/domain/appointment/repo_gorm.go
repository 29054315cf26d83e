package appointment

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"

	database "github.com/openclinic/recordkeeper/pkg/database/dberr"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type gormRepo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepo{db: db}
}

func (r *gormRepo) Create(ctx context.Context, a *Appointment, doctorIDs []uuid.UUID) error {
	if !isoDate.MatchString(a.AppointmentDate) {
		return ErrInvalidDate
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return insertDoctorLinks(tx, a.ID, doctorIDs)
	})
	if err != nil {
		if database.IsDuplicateKey(err) {
			return ErrAppointmentAlreadyExists
		}
		return fmt.Errorf("creating appointment: %w", err)
	}
	return nil
}

func (r *gormRepo) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var a Appointment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching appointment: %w", err)
	}
	return &a, nil
}

func (r *gormRepo) GetByPatientAndDate(ctx context.Context, patientID uuid.UUID, date string) (*Appointment, error) {
	var a Appointment
	err := r.db.WithContext(ctx).
		First(&a, "patient_id = ? AND appointment_date = ?", patientID, date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching appointment by patient and date: %w", err)
	}
	return &a, nil
}

func (r *gormRepo) Update(ctx context.Context, id uuid.UUID, cmd *UpdateAppointmentCommand) (*Appointment, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if cmd.SetDiagnosis {
		updates["diagnosis_id"] = cmd.DiagnosisID
	}
	if cmd.Notes != nil {
		updates["notes"] = *cmd.Notes
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(a).Updates(updates).Error; err != nil {
				return err
			}
		}
		if cmd.DoctorIDs != nil {
			if err := replaceDoctorLinks(tx, id, *cmd.DoctorIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating appointment: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *gormRepo) ReplaceDoctors(ctx context.Context, appointmentID uuid.UUID, doctorIDs []uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceDoctorLinks(tx, appointmentID, doctorIDs)
	})
	if err != nil {
		return fmt.Errorf("replacing appointment doctors: %w", err)
	}
	return nil
}

func (r *gormRepo) ListDoctorIDs(ctx context.Context, appointmentID uuid.UUID) ([]uuid.UUID, error) {
	var links []AppointmentDoctor
	err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("listing appointment doctors: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.DoctorID)
	}
	return ids, nil
}

func (r *gormRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	var out []*Appointment
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("appointment_date DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}
	return out, nil
}

func (r *gormRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Appointment{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting appointments: %w", err)
	}
	return n, nil
}

// replaceDoctorLinks is delete-all-then-insert, never an incremental diff.
func replaceDoctorLinks(tx *gorm.DB, appointmentID uuid.UUID, doctorIDs []uuid.UUID) error {
	if err := tx.Where("appointment_id = ?", appointmentID).Delete(&AppointmentDoctor{}).Error; err != nil {
		return err
	}
	return insertDoctorLinks(tx, appointmentID, doctorIDs)
}

func insertDoctorLinks(tx *gorm.DB, appointmentID uuid.UUID, doctorIDs []uuid.UUID) error {
	seen := map[uuid.UUID]bool{}
	for _, did := range doctorIDs {
		if seen[did] {
			continue
		}
		seen[did] = true
		link := AppointmentDoctor{AppointmentID: appointmentID, DoctorID: did}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}
