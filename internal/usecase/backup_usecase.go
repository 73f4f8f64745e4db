package usecase

import (
	"context"
	"strconv"
	"time"

	"bizapp/internal/backup"
	"bizapp/internal/domain/model"
	repo "bizapp/internal/repository"
)

// バックアップ前にWALを本体ファイルへ書き戻す約束
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

type BackupUsecase struct {
	dbFile       string
	backupDir    string
	settingsRepo repo.SettingsRepository
	cp           Checkpointer
	clock        Clock
}

// DI
func NewBackupUsecase(
	dbFile string,
	backupDir string,
	settingsRepo repo.SettingsRepository,
	cp Checkpointer,
	clock Clock,
) *BackupUsecase {
	return &BackupUsecase{
		dbFile:       dbFile,
		backupDir:    backupDir,
		settingsRepo: settingsRepo,
		cp:           cp,
		clock:        clock,
	}
}

// Backup はWALを落としてからファイルコピーし、作成したパスを返す
func (u *BackupUsecase) Backup(ctx context.Context) (string, error) {
	if err := u.cp.Checkpoint(ctx); err != nil {
		return "", NewStorageError("wal checkpoint failed")
	}

	now := u.clock.Now()
	path, err := backup.Backup(u.dbFile, u.backupDir, now)
	if err != nil {
		return "", NewStorageError(err.Error())
	}

	if err := u.settingsRepo.Set(ctx, model.SettingLastBackupAt, now.Format(time.RFC3339), "Last backup time"); err != nil {
		return "", NewStorageError("db error")
	}

	return path, nil
}

// AutoBackupIfDue は設定（auto_backup / backup_interval_days / last_backup_at）を見て、
// 期限が来ていればバックアップを実行する。ranは実行したかどうか
func (u *BackupUsecase) AutoBackupIfDue(ctx context.Context) (string, bool, error) {
	enabledStr, err := u.settingsRepo.GetValue(ctx, model.SettingAutoBackup, "true")
	if err != nil {
		return "", false, NewStorageError("db error")
	}
	enabled, parseErr := strconv.ParseBool(enabledStr)
	if parseErr != nil || !enabled {
		return "", false, nil
	}

	intervalStr, err := u.settingsRepo.GetValue(ctx, model.SettingBackupIntervalDays, "7")
	if err != nil {
		return "", false, NewStorageError("db error")
	}
	days, parseErr := strconv.Atoi(intervalStr)
	if parseErr != nil || days < 1 {
		days = 7
	}

	last, err := u.settingsRepo.GetValue(ctx, model.SettingLastBackupAt, "")
	if err != nil {
		return "", false, NewStorageError("db error")
	}
	if last != "" {
		t, parseErr := time.Parse(time.RFC3339, last)
		if parseErr == nil && u.clock.Now().Sub(t) < time.Duration(days)*24*time.Hour {
			return "", false, nil
		}
	}

	path, err := u.Backup(ctx)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}
