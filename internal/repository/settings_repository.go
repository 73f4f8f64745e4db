package repository

import (
	"context"

	"bizapp/internal/domain/model"
)

// settingsテーブル（キーバリュー）の読み書き。
type SettingsRepository interface {
	Get(ctx context.Context, key string) (model.Setting, error)

	// 未設定ならdefを返す
	GetValue(ctx context.Context, key string, def string) (string, error)

	// upsert。descriptionが空なら既存の説明は残す
	Set(ctx context.Context, key string, value string, description string) error

	List(ctx context.Context) ([]model.Setting, error)
}
