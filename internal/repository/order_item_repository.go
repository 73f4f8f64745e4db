package repository

import (
	"context"

	"bizapp/internal/domain/model"
)

type OrderItemRepository interface {
	FindByID(ctx context.Context, itemID int64) (model.OrderItem, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	Create(ctx context.Context, item model.OrderItem) (int64, error)
	UpdateQuantity(ctx context.Context, itemID int64, quantity int64, lineTotal int64) error
	Delete(ctx context.Context, itemID int64) error

	//COALESCE(SUM(line_total), 0)
	TotalByOrderID(ctx context.Context, orderID int64) (int64, error)
}
