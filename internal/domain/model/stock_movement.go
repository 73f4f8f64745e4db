package model

import "time"

// 在庫がなぜ動いたか。
type MovementKind string

const (
	//注文に明細を追加した（減算）
	MovementOrderItem MovementKind = "ORDER_ITEM"

	//明細の削除・数量変更（戻し/追加減算）
	MovementOrderEdit MovementKind = "ORDER_EDIT"

	//注文キャンセルによる在庫戻し
	MovementOrderCancel MovementKind = "ORDER_CANCEL"

	//手動の在庫調整
	MovementAdjustment MovementKind = "ADJUSTMENT"
)

// 在庫変動の履歴。「どの商品が」「どの注文で」「いくつ」動いたかを残す。
// 全ての在庫更新はここに1行残す。
type StockMovement struct {
	ID        int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64        `gorm:"not null;index" json:"product_id"`
	OrderID   *int64       `gorm:"index" json:"order_id,omitempty"`
	Kind      MovementKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	Delta     int64        `gorm:"not null" json:"delta"`
	Reason    string       `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
}
