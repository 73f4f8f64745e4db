package repository

import (
	"context"

	"bizapp/internal/domain/model"
)

// 顧客の一覧検索
type CustomerListQuery struct {
	Page  int
	Limit int
	Q     string // name/phone/email の部分一致
}

// 顧客の永続化（保存・取得）だけを約束。
type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (model.Customer, error)
	List(ctx context.Context, q CustomerListQuery) ([]model.Customer, int64, error)
	Create(ctx context.Context, c model.Customer) (model.Customer, error)
	Update(ctx context.Context, c model.Customer) error
	Delete(ctx context.Context, id int64) error
}
