package model

import "time"

// 顧客。注文から参照される独立エンティティ。
// 物理削除は注文が1件も無いときだけ許す（履歴保全）。
type Customer struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`

	//電話番号
	Phone string `gorm:"type:varchar(30)" json:"phone"`

	Email string `gorm:"type:varchar(255)" json:"email"`

	//住所（1行で持つ）
	Address string `gorm:"type:varchar(255)" json:"address"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
