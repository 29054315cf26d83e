package clinicaltest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	database "github.com/openclinic/recordkeeper/pkg/database/dberr"
)

type templateGormRepo struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateGormRepo{db: db}
}

func (r *templateGormRepo) Create(ctx context.Context, t *TestTemplate) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Name == "" {
		t.Name = DefaultTemplateName
	}
	if t.TestType == "" {
		t.TestType = DefaultTestType
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return ErrTemplateAlreadyExists
		}
		return fmt.Errorf("creating test template: %w", err)
	}
	return nil
}

func (r *templateGormRepo) GetByID(ctx context.Context, id string) (*TestTemplate, error) {
	var t TestTemplate
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching test template: %w", err)
	}
	return &t, nil
}

func (r *templateGormRepo) GetByName(ctx context.Context, name string) (*TestTemplate, error) {
	var t TestTemplate
	err := r.db.WithContext(ctx).First(&t, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching test template by name: %w", err)
	}
	return &t, nil
}

func (r *templateGormRepo) List(ctx context.Context) ([]*TestTemplate, error) {
	var out []*TestTemplate
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing test templates: %w", err)
	}
	return out, nil
}

type testGormRepo struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testGormRepo{db: db}
}

func (r *testGormRepo) Create(ctx context.Context, t *PatientTest) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("creating patient test: %w", err)
	}
	return nil
}

func (r *testGormRepo) GetByID(ctx context.Context, id uuid.UUID) (*PatientTest, error) {
	var t PatientTest
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching patient test: %w", err)
	}
	return &t, nil
}

func (r *testGormRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*PatientTest, error) {
	var out []*PatientTest
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing patient tests: %w", err)
	}
	return out, nil
}

func (r *testGormRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&PatientTest{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting patient tests: %w", err)
	}
	return n, nil
}
