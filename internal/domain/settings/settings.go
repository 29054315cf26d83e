package settings

import (
	"time"

	"github.com/google/uuid"
)

// Well-known setting keys populated by the legacy migration and consumed by
// the application shell.
const (
	KeyTheme            = "theme"
	KeyLanguage         = "language"
	KeyPraatPath        = "praat_path"
	KeyDocumentTemplate = "document_template"
	KeyStoragePaths     = "storage_paths"
)

// Setting is one key/value pair of application configuration held in the
// store rather than in a config file, so the UI can edit it.
type Setting struct {
	Key       string    `gorm:"column:key;type:varchar(100);primaryKey"`
	Value     string    `gorm:"column:value;type:text"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Setting) TableName() string {
	return "settings"
}

// Tab is one entry of the UI tab configuration. The set of tabs is always
// replaced as a whole, ordered by Position.
type Tab struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Key      string    `gorm:"column:key;type:varchar(100);uniqueIndex;not null"`
	Position int       `gorm:"column:position;not null"`
}

func (Tab) TableName() string {
	return "tabs"
}
