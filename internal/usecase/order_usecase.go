package usecase

import (
	"context"
	"strings"
	"time"

	"bizapp/internal/domain/model"
	repo "bizapp/internal/repository"
)

type OrderUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

// DI
func NewOrderUsecase(tx repo.TransactionManager, clock Clock) *OrderUsecase {
	return &OrderUsecase{tx: tx, clock: clock}
}

type CreateOrderInput struct {
	CustomerID int64
	Notes      string
}

type AddItemInput struct {
	OrderID   int64
	ProductID int64
	Quantity  int64
}

type RemoveItemInput struct {
	OrderID int64
	ItemID  int64
}

type UpdateItemQuantityInput struct {
	OrderID  int64
	ItemID   int64
	Quantity int64
}

type PayOrderInput struct {
	OrderID int64
	Amount  int64
}

type ListOrdersInput struct {
	Page       int
	Limit      int
	Status     string
	CustomerID *int64
	From       *time.Time
	To         *time.Time
}

type OrderItemOutput struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	OrderNumber string            `json:"order_number"`
	CustomerID  int64             `json:"customer_id"`
	Status      string            `json:"status"`
	TotalAmount int64             `json:"total_amount"`
	PaidAmount  int64             `json:"paid_amount"`
	Notes       string            `json:"notes,omitempty"`
	OrderDate   time.Time         `json:"order_date"`
	Items       []OrderItemOutput `json:"items"`
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *OrderUsecase) Create(ctx context.Context, in CreateOrderInput) (OrderOutput, error) {
	if in.CustomerID <= 0 {
		return OrderOutput{}, NewValidationError("invalid customer id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//顧客が実在しない注文は作らせない
		if _, err := r.Customers().FindByID(ctx, in.CustomerID); err != nil {
			if err == repo.ErrNotFound {
				return NewValidationError("customer not found")
			}
			return NewStorageError("db error")
		}

		prefix, err := r.Settings().GetValue(ctx, model.SettingOrderPrefix, "ORD")
		if err != nil {
			return NewStorageError("db error")
		}

		now := u.clock.Now()
		number, err := r.Orders().NextNumber(ctx, prefix, now)
		if err != nil {
			return NewStorageError("db error")
		}

		orderID, err := r.Orders().Create(ctx, model.Order{
			OrderNumber: number,
			CustomerID:  in.CustomerID,
			Status:      model.OrderStatusCreated,
			TotalAmount: 0,
			PaidAmount:  0,
			Notes:       strings.TrimSpace(in.Notes),
			OrderDate:   now,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return NewStorageError("db error")
		}

		out, err = loadOrderOutput(ctx, r, orderID)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 明細を1行追加。価格と商品名はこの時点のスナップショット
func (u *OrderUsecase) AddItem(ctx context.Context, in AddItemInput) (OrderOutput, error) {
	if in.OrderID <= 0 {
		return OrderOutput{}, NewValidationError("invalid order id")
	}
	if in.ProductID <= 0 {
		return OrderOutput{}, NewValidationError("invalid product id")
	}
	if in.Quantity < 1 {
		return OrderOutput{}, NewValidationError("quantity must be >= 1")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, in.OrderID)
		if err != nil {
			return err
		}
		if err := guardEditable(o); err != nil {
			return err
		}

		//削除済み商品はFindByIDに出てこない
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if err == repo.ErrNotFound {
			return NewValidationError("product not found")
		}
		if err != nil {
			return NewStorageError("db error")
		}

		//在庫減算（足りないなら false）
		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, p.ID, in.Quantity)
		if err != nil {
			return NewStorageError("db error")
		}
		if !ok {
			return NewConflictError("stock exceeded")
		}

		now := u.clock.Now()
		if err := r.Inventory().CreateMovement(ctx, model.StockMovement{
			ProductID: p.ID,
			OrderID:   &o.ID,
			Kind:      model.MovementOrderItem,
			Delta:     -in.Quantity,
			Reason:    o.OrderNumber,
			CreatedAt: now,
		}); err != nil {
			return NewStorageError("db error")
		}

		//スナップショット
		if _, err := r.OrderItems().Create(ctx, model.OrderItem{
			OrderID:             o.ID,
			ProductID:           p.ID,
			ProductNameSnapshot: p.Name,
			Quantity:            in.Quantity,
			UnitPriceSnapshot:   p.Price,
			LineTotal:           p.Price * in.Quantity,
			CreatedAt:           now,
		}); err != nil {
			return NewStorageError("db error")
		}

		if err := recomputeTotal(ctx, r, o.ID); err != nil {
			return err
		}

		out, err = loadOrderOutput(ctx, r, o.ID)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) RemoveItem(ctx context.Context, in RemoveItemInput) (OrderOutput, error) {
	if in.OrderID <= 0 {
		return OrderOutput{}, NewValidationError("invalid order id")
	}
	if in.ItemID <= 0 {
		return OrderOutput{}, NewValidationError("invalid item id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, in.OrderID)
		if err != nil {
			return err
		}
		if err := guardEditable(o); err != nil {
			return err
		}

		it, err := findItemOf(ctx, r, o.ID, in.ItemID)
		if err != nil {
			return err
		}

		//在庫戻し
		if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
			return NewStorageError("db error")
		}
		if err := r.Inventory().CreateMovement(ctx, model.StockMovement{
			ProductID: it.ProductID,
			OrderID:   &o.ID,
			Kind:      model.MovementOrderEdit,
			Delta:     it.Quantity,
			Reason:    o.OrderNumber,
			CreatedAt: u.clock.Now(),
		}); err != nil {
			return NewStorageError("db error")
		}

		if err := r.OrderItems().Delete(ctx, it.ID); err != nil {
			return NewStorageError("db error")
		}

		if err := recomputeTotal(ctx, r, o.ID); err != nil {
			return err
		}

		out, err = loadOrderOutput(ctx, r, o.ID)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) UpdateItemQuantity(ctx context.Context, in UpdateItemQuantityInput) (OrderOutput, error) {
	if in.OrderID <= 0 {
		return OrderOutput{}, NewValidationError("invalid order id")
	}
	if in.ItemID <= 0 {
		return OrderOutput{}, NewValidationError("invalid item id")
	}
	if in.Quantity < 1 {
		return OrderOutput{}, NewValidationError("quantity must be >= 1")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, in.OrderID)
		if err != nil {
			return err
		}
		if err := guardEditable(o); err != nil {
			return err
		}

		it, err := findItemOf(ctx, r, o.ID, in.ItemID)
		if err != nil {
			return err
		}

		delta := in.Quantity - it.Quantity

		//すでに同じ数量なら何もしない
		if delta == 0 {
			out, err = loadOrderOutput(ctx, r, o.ID)
			return err
		}

		if delta > 0 {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, delta)
			if err != nil {
				return NewStorageError("db error")
			}
			if !ok {
				return NewConflictError("stock exceeded")
			}
		} else {
			if err := r.Inventory().IncreaseStock(ctx, it.ProductID, -delta); err != nil {
				return NewStorageError("db error")
			}
		}

		if err := r.Inventory().CreateMovement(ctx, model.StockMovement{
			ProductID: it.ProductID,
			OrderID:   &o.ID,
			Kind:      model.MovementOrderEdit,
			Delta:     -delta,
			Reason:    o.OrderNumber,
			CreatedAt: u.clock.Now(),
		}); err != nil {
			return NewStorageError("db error")
		}

		if err := r.OrderItems().UpdateQuantity(ctx, it.ID, in.Quantity, it.UnitPriceSnapshot*in.Quantity); err != nil {
			return NewStorageError("db error")
		}

		if err := recomputeTotal(ctx, r, o.ID); err != nil {
			return err
		}

		out, err = loadOrderOutput(ctx, r, o.ID)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 全額入金のみ。入金と状態遷移は同時に書く
func (u *OrderUsecase) Pay(ctx context.Context, in PayOrderInput) (OrderOutput, error) {
	if in.OrderID <= 0 {
		return OrderOutput{}, NewValidationError("invalid order id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, in.OrderID)
		if err != nil {
			return err
		}
		if o.Status == model.OrderStatusPaid {
			return NewConflictError("order already paid")
		}
		if o.Status == model.OrderStatusCancelled {
			return NewConflictError("cannot pay cancelled order")
		}

		if in.Amount != o.TotalAmount {
			return NewValidationError("amount must equal total")
		}

		if err := r.Orders().MarkPaid(ctx, o.ID, in.Amount); err != nil {
			return NewStorageError("db error")
		}

		out, err = loadOrderOutput(ctx, r, o.ID)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// キャンセルは全明細の在庫を戻す
func (u *OrderUsecase) Cancel(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewValidationError("invalid order id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		if o.Status == model.OrderStatusCancelled {
			return NewConflictError("order already cancelled")
		}
		if o.Status == model.OrderStatusPaid {
			return NewConflictError("cannot cancel paid order")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return NewStorageError("db error")
		}

		now := u.clock.Now()
		for _, it := range items {
			if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
				return NewStorageError("db error")
			}
			if err := r.Inventory().CreateMovement(ctx, model.StockMovement{
				ProductID: it.ProductID,
				OrderID:   &o.ID,
				Kind:      model.MovementOrderCancel,
				Delta:     it.Quantity,
				Reason:    o.OrderNumber,
				CreatedAt: now,
			}); err != nil {
				return NewStorageError("db error")
			}
		}

		if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusCancelled); err != nil {
			return NewStorageError("db error")
		}

		out, err = loadOrderOutput(ctx, r, o.ID)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) Get(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewValidationError("invalid order id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		out, err = loadOrderOutput(ctx, r, orderID)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetByNumber(ctx context.Context, orderNumber string) (OrderOutput, error) {
	number := strings.TrimSpace(orderNumber)
	if number == "" {
		return OrderOutput{}, NewValidationError("order number required")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByNumber(ctx, number)
		if err == repo.ErrNotFound {
			return NewNotFoundError("order not found")
		}
		if err != nil {
			return NewStorageError("db error")
		}

		out, err = loadOrderOutput(ctx, r, o.ID)
		return err
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) List(ctx context.Context, in ListOrdersInput) (OrderListOutput, error) {
	if in.Page < 1 {
		return OrderListOutput{}, NewValidationError("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return OrderListOutput{}, NewValidationError("invalid limit")
	}
	switch in.Status {
	case "", string(model.OrderStatusCreated), string(model.OrderStatusPaid), string(model.OrderStatusCancelled):
	default:
		return OrderListOutput{}, NewValidationError("invalid status")
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return OrderListOutput{}, NewValidationError("from must be <= to")
	}

	var out OrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().List(ctx, repo.OrderListFilter{
			Page:       in.Page,
			Limit:      in.Limit,
			Status:     in.Status,
			CustomerID: in.CustomerID,
			From:       in.From,
			To:         in.To,
		})
		if err != nil {
			return NewStorageError("db error")
		}

		outs := make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewStorageError("db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}

		out = OrderListOutput{
			Items: outs,
			Total: total,
			Page:  in.Page,
			Limit: in.Limit,
		}
		return nil
	})

	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

// 未入金（CREATEDのまま）の注文
func (u *OrderUsecase) ListUnpaid(ctx context.Context) (OrderListOutput, error) {
	return u.List(ctx, ListOrdersInput{
		Page:   1,
		Limit:  100,
		Status: string(model.OrderStatusCreated),
	})
}

func findOrder(ctx context.Context, r repo.TxRepos, orderID int64) (model.Order, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Order{}, NewNotFoundError("order not found")
	}
	if err != nil {
		return model.Order{}, NewStorageError("db error")
	}
	return o, nil
}

// 他の注文の明細は「存在しない扱い」にする
func findItemOf(ctx context.Context, r repo.TxRepos, orderID int64, itemID int64) (model.OrderItem, error) {
	it, err := r.OrderItems().FindByID(ctx, itemID)
	if err == repo.ErrNotFound {
		return model.OrderItem{}, NewNotFoundError("item not found")
	}
	if err != nil {
		return model.OrderItem{}, NewStorageError("db error")
	}
	if it.OrderID != orderID {
		return model.OrderItem{}, NewNotFoundError("item not found")
	}
	return it, nil
}

// 終端状態の注文は明細をいじれない
func guardEditable(o model.Order) error {
	switch o.Status {
	case model.OrderStatusPaid:
		return NewConflictError("cannot edit paid order")
	case model.OrderStatusCancelled:
		return NewConflictError("cannot edit cancelled order")
	}
	return nil
}

// 合計は常に明細のSUMから計算し直す
func recomputeTotal(ctx context.Context, r repo.TxRepos, orderID int64) error {
	total, err := r.OrderItems().TotalByOrderID(ctx, orderID)
	if err != nil {
		return NewStorageError("db error")
	}
	if err := r.Orders().UpdateTotal(ctx, orderID, total); err != nil {
		return NewStorageError("db error")
	}
	return nil
}

func loadOrderOutput(ctx context.Context, r repo.TxRepos, orderID int64) (OrderOutput, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewNotFoundError("order not found")
	}
	if err != nil {
		return OrderOutput{}, NewStorageError("db error")
	}

	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewStorageError("db error")
	}

	return toOrderOutput(o, items), nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			UnitPrice: it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		})
	}

	return OrderOutput{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		PaidAmount:  o.PaidAmount,
		Notes:       o.Notes,
		OrderDate:   o.OrderDate,
		Items:       outItems,
	}
}
