package model

import "time"

// settingsテーブルで使うキー。
const (
	SettingLicenseKey         = "license_key"
	SettingAutoBackup         = "auto_backup"
	SettingBackupIntervalDays = "backup_interval_days"
	SettingLastBackupAt       = "last_backup_at"
	SettingCompanyName        = "company_name"
	SettingCompanyAddress     = "company_address"
	SettingCompanyPhone       = "company_phone"
	SettingCompanyEmail       = "company_email"
	SettingCurrency           = "currency"
	SettingTaxRate            = "tax_rate"
	SettingOrderPrefix        = "order_prefix"
	SettingInvoicePrefix      = "invoice_prefix"
)

// キーバリューの設定行。アプリ全体でシングルトンのストア。
type Setting struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Key         string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"key"`
	Value       string    `gorm:"type:text" json:"value"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
