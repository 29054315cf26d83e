package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a patient record.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusArchived:
		return true
	}
	return false
}

type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Surname string `gorm:"column:surname;type:varchar(100)"`
	Name    string `gorm:"column:name;type:varchar(100)"`

	// Birthdate is an ISO date string carried over from the legacy folder
	// name; it may be empty when the folder did not encode one.
	Birthdate string `gorm:"column:birthdate;type:varchar(10)"`

	// FolderPath is the legacy folder name and the natural key of a patient.
	// The same folder name seen under two storage roots is the same patient.
	FolderPath      string `gorm:"column:folder_path;type:varchar(512);uniqueIndex;not null"`
	PatientCardPath string `gorm:"column:patient_card_path;type:varchar(1024)"`

	PrimaryDoctorID    *uuid.UUID `gorm:"column:primary_doctor_id;type:uuid;index"`
	PrimaryDiagnosisID *uuid.UUID `gorm:"column:primary_diagnosis_id;type:uuid;index"`

	Status Status `gorm:"column:status;type:varchar(20);default:'active';index"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.Surname + " " + p.Name)
}

func (p *Patient) IsActive() bool {
	return p.Status == StatusActive
}

type CreatePatientCommand struct {
	Surname            string
	Name               string
	Birthdate          string
	FolderPath         string
	PatientCardPath    string
	PrimaryDoctorID    *uuid.UUID
	PrimaryDiagnosisID *uuid.UUID
}

type UpdatePatientCommand struct {
	Surname            *string
	Name               *string
	Birthdate          *string
	PatientCardPath    *string
	PrimaryDoctorID    *uuid.UUID
	PrimaryDiagnosisID *uuid.UUID
	Status             *Status
}
