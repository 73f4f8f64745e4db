package model

import "time"

// 注文明細。
// unit_price_snapshot は追加時点の価格で、以後の価格改定の影響を受けない。
type OrderItem struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64     `gorm:"not null;index" json:"order_id"`
	ProductID           int64     `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string    `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	Quantity            int64     `gorm:"not null" json:"quantity"`
	UnitPriceSnapshot   int64     `gorm:"not null;column:unit_price_snapshot" json:"unit_price_snapshot"`
	LineTotal           int64     `gorm:"not null" json:"line_total"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
