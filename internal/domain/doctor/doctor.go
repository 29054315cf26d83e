package doctor

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Doctor is a named entry in the clinic's doctor dictionary. Names are
// unique; a doctor referenced from several patients or appointments is
// always the same row.
type Doctor struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"` // Soft Delete

	Name string `gorm:"column:name;type:varchar(255);uniqueIndex;not null"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d *Doctor) IsDeleted() bool {
	return d.DeletedAt != nil
}

func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
