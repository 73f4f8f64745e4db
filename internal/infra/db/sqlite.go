package db

import (
	"context"
	"fmt"

	"bizapp/internal/config"
	"bizapp/internal/domain/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Connect はSQLiteファイルを開いて *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	// busy_timeout: 他ハンドルのロック待ち。foreign_keys: SQLiteはデフォルトOFF
	dsn := fmt.Sprintf(
		"%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		cfg.DBFile,
	)
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}

// Migrate はスキーマを最新にする。
// processes以下は予約テーブル（スキーマのみ、操作なし）。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Customer{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Setting{},
		&model.StockMovement{},
		&model.Process{},
		&model.FinancialTransaction{},
		&model.Invoice{},
	)
}

// SeedDefaults は初期設定を入れる。既にあるキーは触らない（INSERT OR IGNORE相当）。
func SeedDefaults(db *gorm.DB) error {
	defaults := []model.Setting{
		{Key: model.SettingCompanyName, Value: "Your Company Name", Description: "Nama perusahaan"},
		{Key: model.SettingCompanyAddress, Value: "Company Address", Description: "Alamat perusahaan"},
		{Key: model.SettingCompanyPhone, Value: "+62 123 456 789", Description: "Nomor telepon perusahaan"},
		{Key: model.SettingCompanyEmail, Value: "company@email.com", Description: "Email perusahaan"},
		{Key: model.SettingCurrency, Value: "IDR", Description: "Mata uang"},
		{Key: model.SettingTaxRate, Value: "10", Description: "Persentase pajak"},
		{Key: model.SettingInvoicePrefix, Value: "INV", Description: "Prefix nomor invoice"},
		{Key: model.SettingOrderPrefix, Value: "ORD", Description: "Prefix nomor order"},
		{Key: model.SettingAutoBackup, Value: "true", Description: "Backup otomatis saat mulai"},
		{Key: model.SettingBackupIntervalDays, Value: "7", Description: "Interval backup (hari)"},
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&defaults).Error
}

// Checkpoint はWALの内容を本体ファイルへ書き戻す。バックアップ前に呼ぶ。
func Checkpoint(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error
}

// Close は下位のsql.DBを閉じる。restore前にハンドルを離すために使う。
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
