package diagnosis

import (
	"time"

	"github.com/google/uuid"
)

// Diagnosis is a named entry in the clinic's diagnosis dictionary, unique by
// name. Shares its lifecycle with the doctor dictionary: created on first
// reference, soft-deleted and restored through the dictionary management
// surface, never hard-deleted while referenced.
type Diagnosis struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"` // Soft Delete

	Name string `gorm:"column:name;type:varchar(255);uniqueIndex;not null"`
}

func (Diagnosis) TableName() string {
	return "diagnoses"
}

func (d *Diagnosis) IsDeleted() bool {
	return d.DeletedAt != nil
}
