package model

import "time"

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// PAID / CANCELLED は終端。以後の遷移は無い。
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusPaid || s == OrderStatusCancelled
}

// 注文。物理削除はしない（キャンセルもステータスで残す）。
type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//ORD + 日付 + 連番（ORD202601020001）
	OrderNumber string `gorm:"type:varchar(20);not null;uniqueIndex" json:"order_number"`

	CustomerID int64       `gorm:"not null;index" json:"customer_id"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	//明細の合計から導出される
	TotalAmount int64 `gorm:"not null" json:"total_amount"`

	//全額払いのみ（部分入金は扱わない）
	PaidAmount int64 `gorm:"not null;default:0" json:"paid_amount"`

	Notes     string    `gorm:"type:text" json:"notes"`
	OrderDate time.Time `gorm:"not null;index" json:"order_date"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
