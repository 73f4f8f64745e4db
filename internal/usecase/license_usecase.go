package usecase

import (
	"context"
	"strings"

	"bizapp/internal/domain/model"
	repo "bizapp/internal/repository"
)

// 端末識別とキー検証の約束
type LicenseGate interface {
	Fingerprint() string
	Validate(fingerprint string, code string) bool
}

type LicenseUsecase struct {
	settingsRepo repo.SettingsRepository
	gate         LicenseGate
}

// DI
func NewLicenseUsecase(settingsRepo repo.SettingsRepository, gate LicenseGate) *LicenseUsecase {
	return &LicenseUsecase{
		settingsRepo: settingsRepo,
		gate:         gate,
	}
}

type LicenseStatusOutput struct {
	Fingerprint string `json:"fingerprint"`
	Licensed    bool   `json:"licensed"`
	Key         string `json:"key,omitempty"`
}

func (u *LicenseUsecase) Status(ctx context.Context) (LicenseStatusOutput, error) {
	fp := u.gate.Fingerprint()

	key, err := u.settingsRepo.GetValue(ctx, model.SettingLicenseKey, "")
	if err != nil {
		return LicenseStatusOutput{}, NewStorageError("db error")
	}

	return LicenseStatusOutput{
		Fingerprint: fp,
		Licensed:    key != "" && u.gate.Validate(fp, key),
		Key:         key,
	}, nil
}

// Activate は検証に通ったキーだけを保存する
func (u *LicenseUsecase) Activate(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return NewValidationError("code required")
	}

	if !u.gate.Validate(u.gate.Fingerprint(), code) {
		return NewLicenseError("invalid license key")
	}

	if err := u.settingsRepo.Set(ctx, model.SettingLicenseKey, code, "License key"); err != nil {
		return NewStorageError("db error")
	}
	return nil
}

// Deactivate はキーを消す（端末移行用）
func (u *LicenseUsecase) Deactivate(ctx context.Context) error {
	if err := u.settingsRepo.Set(ctx, model.SettingLicenseKey, "", ""); err != nil {
		return NewStorageError("db error")
	}
	return nil
}

// Require はデータ系コマンドの前に呼ぶ。未解除なら致命
func (u *LicenseUsecase) Require(ctx context.Context) error {
	key, err := u.settingsRepo.GetValue(ctx, model.SettingLicenseKey, "")
	if err != nil {
		return NewStorageError("db error")
	}
	if key == "" {
		return NewLicenseError("not activated")
	}
	if !u.gate.Validate(u.gate.Fingerprint(), key) {
		return NewLicenseError("invalid license key")
	}
	return nil
}
