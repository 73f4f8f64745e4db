package repository

import (
	"context"
	"time"

	"bizapp/internal/domain/model"
)

type OrderListFilter struct {
	Page       int
	Limit      int
	Status     string
	CustomerID *int64
	From       *time.Time
	To         *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	//明細合計からの再計算値を書き戻す
	UpdateTotal(ctx context.Context, orderID int64, total int64) error

	//PAIDへの遷移と入金額を同時に書く
	MarkPaid(ctx context.Context, orderID int64, amount int64) error

	//顧客削除ガード用
	CountByCustomerID(ctx context.Context, customerID int64) (int64, error)

	//当日の連番から次の注文番号を作る（ORD202601020001）
	NextNumber(ctx context.Context, prefix string, day time.Time) (string, error)
}
