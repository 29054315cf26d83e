package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormRepo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepo{db: db}
}

func (r *gormRepo) Get(ctx context.Context, key string) (string, error) {
	var s Setting
	err := r.db.WithContext(ctx).First(&s, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("fetching setting %q: %w", key, err)
	}
	return s.Value, nil
}

func (r *gormRepo) Set(ctx context.Context, key, value string) error {
	s := Setting{Key: key, Value: value}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&s).Error
	if err != nil {
		return fmt.Errorf("storing setting %q: %w", key, err)
	}
	return nil
}

func (r *gormRepo) All(ctx context.Context) (map[string]string, error) {
	var rows []Setting
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, s := range rows {
		out[s.Key] = s.Value
	}
	return out, nil
}

func (r *gormRepo) ReplaceTabs(ctx context.Context, keys []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Tab{}).Error; err != nil {
			return err
		}
		for i, key := range keys {
			t := Tab{ID: uuid.New(), Key: key, Position: i}
			if err := tx.Create(&t).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replacing tabs: %w", err)
	}
	return nil
}

func (r *gormRepo) ListTabs(ctx context.Context) ([]*Tab, error) {
	var out []*Tab
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing tabs: %w", err)
	}
	return out, nil
}
