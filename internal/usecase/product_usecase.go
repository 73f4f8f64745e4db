package usecase

import (
	"context"
	"strings"

	"bizapp/internal/domain/model"
	repo "bizapp/internal/repository"
)

type ProductUsecase struct {
	tx            repo.TransactionManager
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	clock         Clock
}

// DI
func NewProductUsecase(
	tx repo.TransactionManager,
	productRepo repo.ProductRepository,
	inventoryRepo repo.InventoryRepository,
	clock Clock,
) *ProductUsecase {
	return &ProductUsecase{
		tx:            tx,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		clock:         clock,
	}
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       int64
	Cost        int64
	Stock       int64
	Unit        string
	Category    string
}

type UpdateProductInput struct {
	Name        string
	Description string
	Price       int64
	Cost        int64
	Unit        string
	Category    string
}

type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type AdjustStockInput struct {
	ProductID int64
	NewStock  int64
	Reason    string
}

func validateProductFields(name string, price int64, cost int64) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name required")
	}
	if len(name) > 100 {
		return NewValidationError("name too long")
	}
	if price < 0 {
		return NewValidationError("price must be >= 0")
	}
	if cost < 0 {
		return NewValidationError("cost must be >= 0")
	}
	return nil
}

// 初期在庫も変動履歴に1行残すので、作成はTxで行う
func (u *ProductUsecase) Create(ctx context.Context, in CreateProductInput) (int64, error) {
	if err := validateProductFields(in.Name, in.Price, in.Cost); err != nil {
		return 0, err
	}
	if in.Stock < 0 {
		return 0, NewValidationError("stock must be >= 0")
	}

	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = "pcs"
	}

	var createdID int64
	now := u.clock.Now()

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().Create(ctx, model.Product{
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			Price:       in.Price,
			Cost:        in.Cost,
			Stock:       in.Stock,
			Unit:        unit,
			Category:    strings.TrimSpace(in.Category),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return NewStorageError("db error")
		}

		if in.Stock > 0 {
			if err := r.Inventory().CreateMovement(ctx, model.StockMovement{
				ProductID: p.ID,
				Kind:      model.MovementAdjustment,
				Delta:     in.Stock,
				Reason:    "initial stock",
				CreatedAt: now,
			}); err != nil {
				return NewStorageError("db error")
			}
		}

		createdID = p.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return createdID, nil
}

func (u *ProductUsecase) Update(ctx context.Context, productID int64, in UpdateProductInput) error {
	if productID <= 0 {
		return NewValidationError("invalid product id")
	}
	if err := validateProductFields(in.Name, in.Price, in.Cost); err != nil {
		return err
	}

	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = "pcs"
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:          productID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Cost:        in.Cost,
		Unit:        unit,
		Category:    strings.TrimSpace(in.Category),
		UpdatedAt:   u.clock.Now(),
	})
	if err == repo.ErrNotFound {
		return NewNotFoundError("product not found")
	}
	if err != nil {
		return NewStorageError("db error")
	}
	return nil
}

// 論理削除。過去の注文明細はスナップショットなので影響しない
func (u *ProductUsecase) Delete(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return NewValidationError("invalid product id")
	}

	err := u.productRepo.SoftDelete(ctx, productID)
	if err == repo.ErrNotFound {
		return NewNotFoundError("product not found")
	}
	if err != nil {
		return NewStorageError("db error")
	}
	return nil
}

func (u *ProductUsecase) Get(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewValidationError("invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewNotFoundError("product not found")
	}
	if err != nil {
		return model.Product{}, NewStorageError("db error")
	}
	return p, nil
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewValidationError("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewValidationError("invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewValidationError("q too long")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return ProductListOutput{}, NewValidationError("min_price must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return ProductListOutput{}, NewValidationError("max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return ProductListOutput{}, NewValidationError("min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "name", "price_asc", "price_desc", "stock_asc":
	default:
		return ProductListOutput{}, NewValidationError("invalid sort")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Category: in.Category,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewStorageError("db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) LowStock(ctx context.Context, threshold int64) ([]model.Product, error) {
	if threshold < 0 {
		return []model.Product{}, NewValidationError("threshold must be >= 0")
	}

	items, err := u.productRepo.ListLowStock(ctx, threshold)
	if err != nil {
		return []model.Product{}, NewStorageError("db error")
	}
	return items, nil
}

// 在庫を「現在値」に合わせ、差分を履歴に残す
func (u *ProductUsecase) AdjustStock(ctx context.Context, in AdjustStockInput) error {
	if in.ProductID <= 0 {
		return NewValidationError("invalid product id")
	}
	if in.NewStock < 0 {
		return NewValidationError("stock must be >= 0")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return NewValidationError("reason required")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前の在庫（before）
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if err == repo.ErrNotFound {
			return NewNotFoundError("product not found")
		}
		if err != nil {
			return NewStorageError("db error")
		}

		if err := r.Inventory().SetStock(ctx, in.ProductID, in.NewStock); err != nil {
			if err == repo.ErrNotFound {
				return NewNotFoundError("product not found")
			}
			return NewStorageError("db error")
		}

		if err := r.Inventory().CreateMovement(ctx, model.StockMovement{
			ProductID: in.ProductID,
			Kind:      model.MovementAdjustment,
			Delta:     in.NewStock - p.Stock,
			Reason:    strings.TrimSpace(in.Reason),
			CreatedAt: u.clock.Now(),
		}); err != nil {
			return NewStorageError("db error")
		}

		return nil
	})
}

func (u *ProductUsecase) Movements(ctx context.Context, productID int64, limit int) ([]model.StockMovement, error) {
	if productID <= 0 {
		return []model.StockMovement{}, NewValidationError("invalid product id")
	}

	items, err := u.inventoryRepo.ListMovements(ctx, productID, limit)
	if err != nil {
		return []model.StockMovement{}, NewStorageError("db error")
	}
	return items, nil
}
