package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

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

func (r *gormRepo) Create(ctx context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return ErrDoctorAlreadyExists
		}
		return fmt.Errorf("creating doctor: %w", err)
	}
	return nil
}

func (r *gormRepo) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	var d Doctor
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching doctor: %w", err)
	}
	return &d, nil
}

func (r *gormRepo) GetByName(ctx context.Context, name string) (*Doctor, error) {
	var d Doctor
	err := r.db.WithContext(ctx).First(&d, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching doctor by name: %w", err)
	}
	return &d, nil
}

func (r *gormRepo) List(ctx context.Context, includeDeleted bool) ([]*Doctor, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeDeleted {
		q = q.Where("deleted_at IS NULL")
	}
	var out []*Doctor
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing doctors: %w", err)
	}
	return out, nil
}

func (r *gormRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&Doctor{}).Where("id = ?", id).Update("deleted_at", &now)
	if res.Error != nil {
		return fmt.Errorf("soft-deleting doctor: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

func (r *gormRepo) Restore(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&Doctor{}).Where("id = ?", id).Update("deleted_at", nil)
	if res.Error != nil {
		return fmt.Errorf("restoring doctor: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDoctorNotFound
	}
	return nil
}
