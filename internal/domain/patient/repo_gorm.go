package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	database "github.com/openclinic/recordkeeper/pkg/database/dberr"
)

type gormRepo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepo{db: db}
}

func (r *gormRepo) Create(ctx context.Context, p *Patient) error {
	if p.FolderPath == "" {
		return ErrFolderPathRequired
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return ErrPatientAlreadyExists
		}
		return fmt.Errorf("creating patient: %w", err)
	}
	return nil
}

func (r *gormRepo) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	var p Patient
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching patient: %w", err)
	}
	return &p, nil
}

func (r *gormRepo) GetByFolderPath(ctx context.Context, folderPath string) (*Patient, error) {
	var p Patient
	err := r.db.WithContext(ctx).First(&p, "folder_path = ?", folderPath).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching patient by folder path: %w", err)
	}
	return &p, nil
}

func (r *gormRepo) Update(ctx context.Context, id uuid.UUID, cmd *UpdatePatientCommand) (*Patient, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if cmd.Surname != nil {
		updates["surname"] = *cmd.Surname
	}
	if cmd.Name != nil {
		updates["name"] = *cmd.Name
	}
	if cmd.Birthdate != nil {
		updates["birthdate"] = *cmd.Birthdate
	}
	if cmd.PatientCardPath != nil {
		updates["patient_card_path"] = *cmd.PatientCardPath
	}
	if cmd.PrimaryDoctorID != nil {
		updates["primary_doctor_id"] = *cmd.PrimaryDoctorID
	}
	if cmd.PrimaryDiagnosisID != nil {
		updates["primary_diagnosis_id"] = *cmd.PrimaryDiagnosisID
	}
	if cmd.Status != nil {
		if !cmd.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		updates["status"] = *cmd.Status
	}
	if len(updates) == 0 {
		return p, nil
	}

	if err := r.db.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("updating patient: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *gormRepo) List(ctx context.Context) ([]*Patient, error) {
	var out []*Patient
	if err := r.db.WithContext(ctx).Order("surname ASC, name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	return out, nil
}

func (r *gormRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Patient{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting patients: %w", err)
	}
	return n, nil
}
