package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/openclinic/recordkeeper/internal/domain/diagnosis"
	"github.com/openclinic/recordkeeper/internal/domain/doctor"
	"github.com/openclinic/recordkeeper/internal/domain/patient"
)

// Appointment is one visit of a patient on one calendar date. The
// (PatientID, AppointmentDate) pair is unique: at most one appointment per
// patient per day.
type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;uniqueIndex:idx_appointments_patient_date"`

	// AppointmentDate is an ISO date string (YYYY-MM-DD). ISO dates sort
	// correctly as strings, which the latest-visit queries rely on.
	AppointmentDate string `gorm:"column:appointment_date;type:varchar(10);not null;uniqueIndex:idx_appointments_patient_date"`

	DiagnosisID *uuid.UUID `gorm:"column:diagnosis_id;type:uuid;index"`
	Notes       string     `gorm:"column:notes;type:text"`

	Patient   *patient.Patient     `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE"`
	Diagnosis *diagnosis.Diagnosis `gorm:"foreignKey:DiagnosisID;constraint:OnDelete:SET NULL"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// AppointmentDoctor links appointments to their attending doctors. Rows
// carry no identity of their own and are replaced wholesale whenever an
// appointment's doctor list changes.
type AppointmentDoctor struct {
	AppointmentID uuid.UUID `gorm:"column:appointment_id;type:uuid;primaryKey"`
	DoctorID      uuid.UUID `gorm:"column:doctor_id;type:uuid;primaryKey"`

	Appointment *Appointment   `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE"`
	Doctor      *doctor.Doctor `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE"`
}

func (AppointmentDoctor) TableName() string {
	return "appointment_doctors"
}

type CreateAppointmentCommand struct {
	PatientID       uuid.UUID
	AppointmentDate string
	DiagnosisID     *uuid.UUID
	Notes           string
	DoctorIDs       []uuid.UUID
}

// UpdateAppointmentCommand applies partial updates. SetDiagnosis
// distinguishes "leave the diagnosis alone" from "set it to NULL".
type UpdateAppointmentCommand struct {
	SetDiagnosis bool
	DiagnosisID  *uuid.UUID
	Notes        *string
	DoctorIDs    *[]uuid.UUID
}
