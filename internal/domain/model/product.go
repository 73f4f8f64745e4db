package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	//価格・原価は最小通貨単位の整数
	Price int64 `gorm:"not null" json:"price"`
	Cost  int64 `gorm:"not null;default:0" json:"cost"`

	//在庫。負になってはいけない
	Stock int64 `gorm:"not null" json:"stock"`

	Unit     string `gorm:"type:varchar(20);not null;default:'pcs'" json:"unit"`
	Category string `gorm:"type:varchar(100)" json:"category"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
