package repository

import (
	"context"
	"errors"
	"strings"

	"bizapp/internal/domain/model"
	repo "bizapp/internal/repository"

	"gorm.io/gorm"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

// DI
func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

// IDで顧客を取得
func (r *CustomerGormRepository) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

// 検索/ページング付きの顧客一覧
func (r *CustomerGormRepository) List(ctx context.Context, q repo.CustomerListQuery) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Customer{})

	// q はname/phone/emailを対象
	if strings.TrimSpace(q.Q) != "" {
		like := "%" + strings.TrimSpace(q.Q) + "%"
		tx = tx.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Customer{}, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	err := tx.Order("name asc").Order("id asc").
		Offset(offset).Limit(q.Limit).
		Find(&customers).Error
	if err != nil {
		return []model.Customer{}, 0, err
	}

	return customers, total, nil
}

// 顧客の作成
func (r *CustomerGormRepository) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

// 顧客の更新
func (r *CustomerGormRepository) Update(ctx context.Context, c model.Customer) error {
	res := r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
		"name":    c.Name,
		"phone":   c.Phone,
		"email":   c.Email,
		"address": c.Address,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 顧客の削除（注文ガードはusecase側）
func (r *CustomerGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Customer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
