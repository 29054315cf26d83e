package clinicaltest

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/openclinic/recordkeeper/internal/domain/appointment"
	"github.com/openclinic/recordkeeper/internal/domain/patient"
)

const (
	DefaultTemplateName = "Unknown Test"
	DefaultTestType     = "questionnaire"
)

// TestTemplate describes one kind of clinical test (a questionnaire, a
// rating scale). The primary key is a string: templates migrated from the
// legacy store keep their legacy id verbatim so that result files
// referencing the same id resolve to the same template, while live-created
// templates get a fresh uuid string.
type TestTemplate struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name         string         `gorm:"column:name;type:varchar(255);not null"`
	TestType     string         `gorm:"column:test_type;type:varchar(50);not null"`
	Description  string         `gorm:"column:description;type:text"`
	TemplateData datatypes.JSON `gorm:"column:template_data"`
}

func (TestTemplate) TableName() string {
	return "test_templates"
}

// PatientTest is one administered test: the questions as presented plus the
// patient's progress through them, stored as a single JSON blob.
type PatientTest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`

	// AppointmentID is nullable: a result file can survive a visit whose
	// appointment record was never reconstructed.
	AppointmentID *uuid.UUID `gorm:"column:appointment_id;type:uuid;index"`

	TestTemplateID string `gorm:"column:test_template_id;type:varchar(64);not null;index"`

	TestName string         `gorm:"column:test_name;type:varchar(255)"`
	TestType string         `gorm:"column:test_type;type:varchar(50)"`
	TestData datatypes.JSON `gorm:"column:test_data"`

	Patient     *patient.Patient         `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE"`
	Appointment *appointment.Appointment `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE"`
	Template    *TestTemplate            `gorm:"foreignKey:TestTemplateID;constraint:OnDelete:RESTRICT"`
}

func (PatientTest) TableName() string {
	return "patient_tests"
}

type CreateTemplateCommand struct {
	Name         string
	TestType     string
	Description  string
	TemplateData datatypes.JSON
}

type CreateTestCommand struct {
	PatientID      uuid.UUID
	AppointmentID  *uuid.UUID
	TestTemplateID string
	TestName       string
	TestType       string
	TestData       datatypes.JSON
}
