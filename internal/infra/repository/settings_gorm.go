package repository

import (
	"context"
	"errors"
	"time"

	"bizapp/internal/domain/model"
	repo "bizapp/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsGormRepository struct {
	db *gorm.DB
}

// DI
func NewSettingsGormRepository(db *gorm.DB) *SettingsGormRepository {
	return &SettingsGormRepository{db: db}
}

func (r *SettingsGormRepository) Get(ctx context.Context, key string) (model.Setting, error) {
	var s model.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Setting{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Setting{}, err
	}
	return s, nil
}

// 未設定ならdefを返す
func (r *SettingsGormRepository) GetValue(ctx context.Context, key string, def string) (string, error) {
	s, err := r.Get(ctx, key)
	if errors.Is(err, repo.ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	return s.Value, nil
}

// keyで upsert。descriptionが空なら既存の説明は残す
func (r *SettingsGormRepository) Set(ctx context.Context, key string, value string, description string) error {
	assign := map[string]interface{}{
		"value":      value,
		"updated_at": time.Now(),
	}
	if description != "" {
		assign["description"] = description
	}

	s := model.Setting{Key: key, Value: value, Description: description}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(assign),
	}).Create(&s).Error
}

func (r *SettingsGormRepository) List(ctx context.Context) ([]model.Setting, error) {
	var items []model.Setting
	err := r.db.WithContext(ctx).Order("key asc").Find(&items).Error
	if err != nil {
		return []model.Setting{}, err
	}
	return items, nil
}
