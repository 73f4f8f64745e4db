package repository

import (
	"context"

	"bizapp/internal/domain/model"
)

type InventoryRepository interface {
	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセル・明細削除など）
	IncreaseStock(ctx context.Context, productID int64, qty int64) error

	// 在庫の現在値を設定
	SetStock(ctx context.Context, productID int64, newStock int64) error

	// 変動履歴作成
	CreateMovement(ctx context.Context, m model.StockMovement) error

	// 商品ごとの変動履歴（新しい順）
	ListMovements(ctx context.Context, productID int64, limit int) ([]model.StockMovement, error)
}
