package usecase

import (
	"context"
	"strings"

	"bizapp/internal/domain/model"
	repo "bizapp/internal/repository"
)

type SettingsUsecase struct {
	settingsRepo repo.SettingsRepository
}

// DI
func NewSettingsUsecase(settingsRepo repo.SettingsRepository) *SettingsUsecase {
	return &SettingsUsecase{settingsRepo: settingsRepo}
}

func (u *SettingsUsecase) Get(ctx context.Context, key string) (model.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return model.Setting{}, NewValidationError("key required")
	}

	s, err := u.settingsRepo.Get(ctx, key)
	if err == repo.ErrNotFound {
		return model.Setting{}, NewNotFoundError("setting not found")
	}
	if err != nil {
		return model.Setting{}, NewStorageError("db error")
	}
	return s, nil
}

func (u *SettingsUsecase) Set(ctx context.Context, key string, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return NewValidationError("key required")
	}
	if len(key) > 100 {
		return NewValidationError("key too long")
	}

	if err := u.settingsRepo.Set(ctx, key, value, ""); err != nil {
		return NewStorageError("db error")
	}
	return nil
}

func (u *SettingsUsecase) List(ctx context.Context) ([]model.Setting, error) {
	items, err := u.settingsRepo.List(ctx)
	if err != nil {
		return []model.Setting{}, NewStorageError("db error")
	}
	return items, nil
}
