package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bizapp/internal/domain/model"
	repo "bizapp/internal/repository"
	"bizapp/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// OrdTxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type OrdTxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *OrdTxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type OrdTxReposMock struct {
	customers  repo.CustomerRepository
	products   repo.ProductRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	inventory  repo.InventoryRepository
	settings   repo.SettingsRepository
}

func (r *OrdTxReposMock) Customers() repo.CustomerRepository   { return r.customers }
func (r *OrdTxReposMock) Products() repo.ProductRepository     { return r.products }
func (r *OrdTxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *OrdTxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *OrdTxReposMock) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *OrdTxReposMock) Settings() repo.SettingsRepository    { return r.settings }

// =====================
// Repository mocks（衝突回避の命名）
// =====================

type OrdCustomerRepoMock struct{ mock.Mock }

func (m *OrdCustomerRepoMock) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *OrdCustomerRepoMock) List(ctx context.Context, q repo.CustomerListQuery) ([]model.Customer, int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrdCustomerRepoMock) Create(ctx context.Context, c model.Customer) (model.Customer, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrdCustomerRepoMock) Update(ctx context.Context, c model.Customer) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrdCustomerRepoMock) Delete(ctx context.Context, id int64) error {
	panic("not used in OrderUsecase tests")
}

type OrdProductRepoMock struct{ mock.Mock }

func (m *OrdProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrdProductRepoMock) ListLowStock(ctx context.Context, threshold int64) ([]model.Product, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrdProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *OrdProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrdProductRepoMock) Update(ctx context.Context, p model.Product) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrdProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	panic("not used in OrderUsecase tests")
}

type OrdOrderRepoMock struct{ mock.Mock }

func (m *OrdOrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrdOrderRepoMock) FindByNumber(ctx context.Context, orderNumber string) (model.Order, error) {
	args := m.Called(ctx, orderNumber)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrdOrderRepoMock) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrdOrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrdOrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrdOrderRepoMock) UpdateTotal(ctx context.Context, orderID int64, total int64) error {
	args := m.Called(ctx, orderID, total)
	return args.Error(0)
}

func (m *OrdOrderRepoMock) MarkPaid(ctx context.Context, orderID int64, amount int64) error {
	args := m.Called(ctx, orderID, amount)
	return args.Error(0)
}

func (m *OrdOrderRepoMock) CountByCustomerID(ctx context.Context, customerID int64) (int64, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrdOrderRepoMock) NextNumber(ctx context.Context, prefix string, day time.Time) (string, error) {
	args := m.Called(ctx, prefix, day)
	return args.String(0), args.Error(1)
}

type OrdItemRepoMock struct{ mock.Mock }

func (m *OrdItemRepoMock) FindByID(ctx context.Context, itemID int64) (model.OrderItem, error) {
	args := m.Called(ctx, itemID)
	it, _ := args.Get(0).(model.OrderItem)
	return it, args.Error(1)
}

func (m *OrdItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrdItemRepoMock) Create(ctx context.Context, item model.OrderItem) (int64, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrdItemRepoMock) UpdateQuantity(ctx context.Context, itemID int64, quantity int64, lineTotal int64) error {
	args := m.Called(ctx, itemID, quantity, lineTotal)
	return args.Error(0)
}

func (m *OrdItemRepoMock) Delete(ctx context.Context, itemID int64) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *OrdItemRepoMock) TotalByOrderID(ctx context.Context, orderID int64) (int64, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(int64), args.Error(1)
}

type OrdInventoryRepoMock struct{ mock.Mock }

func (m *OrdInventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *OrdInventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *OrdInventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrdInventoryRepoMock) CreateMovement(ctx context.Context, mv model.StockMovement) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *OrdInventoryRepoMock) ListMovements(ctx context.Context, productID int64, limit int) ([]model.StockMovement, error) {
	panic("not used in OrderUsecase tests")
}

type OrdSettingsRepoMock struct{ mock.Mock }

func (m *OrdSettingsRepoMock) Get(ctx context.Context, key string) (model.Setting, error) {
	panic("not used in OrderUsecase tests")
}

func (m *OrdSettingsRepoMock) GetValue(ctx context.Context, key string, def string) (string, error) {
	args := m.Called(ctx, key, def)
	return args.String(0), args.Error(1)
}

func (m *OrdSettingsRepoMock) Set(ctx context.Context, key string, value string, description string) error {
	panic("not used in OrderUsecase tests")
}

func (m *OrdSettingsRepoMock) List(ctx context.Context) ([]model.Setting, error) {
	panic("not used in OrderUsecase tests")
}

// =====================
// Helpers
// =====================

// テストでは時刻を固定する
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// error contains（AppErrorの実装詳細に依存しない）
func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func assertKind(t *testing.T, err error, kind usecase.ErrKind) {
	t.Helper()
	assert.True(t, usecase.IsKind(err, kind), "err=%v want kind=%s", err, kind)
}

// =====================
// Create tests
// =====================

func TestOrderUsecase_Create_InvalidCustomerID(t *testing.T) {
	tx := new(OrdTxManagerMock)
	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.Create(context.Background(), usecase.CreateOrderInput{CustomerID: 0})
	assertErrContains(t, err, "invalid customer id")
	assertKind(t, err, usecase.KindValidation)
}

// 実在しない顧客では注文を作れない
func TestOrderUsecase_Create_CustomerNotFound(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	customers := new(OrdCustomerRepoMock)
	orders := new(OrdOrderRepoMock)

	tx.Repos = &OrdTxReposMock{customers: customers, orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	customers.On("FindByID", mock.Anything, int64(99)).Return(model.Customer{}, repo.ErrNotFound)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.Create(ctx, usecase.CreateOrderInput{CustomerID: 99})
	assertErrContains(t, err, "customer not found")
	assertKind(t, err, usecase.KindValidation)

	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// 番号は settings の order_prefix + 日付 + 連番
func TestOrderUsecase_Create_Success_UsesPrefixFromSettings(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 10, 30, 0, 0, time.UTC)

	tx := new(OrdTxManagerMock)
	customers := new(OrdCustomerRepoMock)
	orders := new(OrdOrderRepoMock)
	items := new(OrdItemRepoMock)
	settings := new(OrdSettingsRepoMock)

	tx.Repos = &OrdTxReposMock{
		customers:  customers,
		orders:     orders,
		orderItems: items,
		settings:   settings,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	customers.On("FindByID", mock.Anything, int64(7)).Return(model.Customer{ID: 7, Name: "Budi"}, nil)
	settings.On("GetValue", mock.Anything, model.SettingOrderPrefix, "ORD").Return("INV", nil)
	orders.On("NextNumber", mock.Anything, "INV", now).Return("INV202601020001", nil)

	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.OrderNumber == "INV202601020001" &&
			o.CustomerID == 7 &&
			o.Status == model.OrderStatusCreated &&
			o.TotalAmount == 0 &&
			o.PaidAmount == 0 &&
			o.Notes == "first order"
	})).Return(int64(42), nil)

	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{
		ID:          42,
		OrderNumber: "INV202601020001",
		CustomerID:  7,
		Status:      model.OrderStatusCreated,
		OrderDate:   now,
	}, nil)
	items.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{}, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: now})

	out, err := uc.Create(ctx, usecase.CreateOrderInput{CustomerID: 7, Notes: " first order "})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
	assert.Equal(t, "INV202601020001", out.OrderNumber)
	assert.Equal(t, "CREATED", out.Status)
	assert.Equal(t, 0, len(out.Items))

	orders.AssertExpectations(t)
	settings.AssertExpectations(t)
}

// =====================
// AddItem tests
// =====================

func TestOrderUsecase_AddItem_InvalidQuantity(t *testing.T) {
	tx := new(OrdTxManagerMock)
	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.AddItem(context.Background(), usecase.AddItemInput{OrderID: 1, ProductID: 1, Quantity: 0})
	assertErrContains(t, err, "quantity must be >= 1")
}

func TestOrderUsecase_AddItem_OrderNotFound(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.AddItem(ctx, usecase.AddItemInput{OrderID: 99, ProductID: 1, Quantity: 1})
	assertErrContains(t, err, "order not found")
	assertKind(t, err, usecase.KindNotFound)
}

// 入金済みの注文には明細を足せない
func TestOrderUsecase_AddItem_PaidOrder_Conflict(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)
	products := new(OrdProductRepoMock)
	inventory := new(OrdInventoryRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders, products: products, inventory: inventory}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{
		ID:     5,
		Status: model.OrderStatusPaid,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.AddItem(ctx, usecase.AddItemInput{OrderID: 5, ProductID: 1, Quantity: 1})
	assertErrContains(t, err, "cannot edit paid order")
	assertKind(t, err, usecase.KindConflict)

	products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

// 削除済み（=見つからない）商品は validation エラー
func TestOrderUsecase_AddItem_ProductNotFound(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)
	products := new(OrdProductRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders, products: products}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{
		ID:     5,
		Status: model.OrderStatusCreated,
	}, nil)
	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{}, repo.ErrNotFound)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.AddItem(ctx, usecase.AddItemInput{OrderID: 5, ProductID: 100, Quantity: 1})
	assertErrContains(t, err, "product not found")
	assertKind(t, err, usecase.KindValidation)
}

// 在庫が足りなければ明細は作られない
func TestOrderUsecase_AddItem_StockExceeded(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)
	products := new(OrdProductRepoMock)
	inventory := new(OrdInventoryRepoMock)
	items := new(OrdItemRepoMock)

	tx.Repos = &OrdTxReposMock{
		orders:     orders,
		products:   products,
		inventory:  inventory,
		orderItems: items,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{
		ID:          5,
		OrderNumber: "ORD202601020001",
		Status:      model.OrderStatusCreated,
	}, nil)
	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID:    100,
		Name:  "Coffee Beans",
		Price: 2500,
		Stock: 1,
	}, nil)
	inventory.On("DecreaseStockIfEnough", mock.Anything, int64(100), int64(5)).Return(false, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.AddItem(ctx, usecase.AddItemInput{OrderID: 5, ProductID: 100, Quantity: 5})
	assertErrContains(t, err, "stock exceeded")
	assertKind(t, err, usecase.KindConflict)

	items.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	inventory.AssertNotCalled(t, "CreateMovement", mock.Anything, mock.Anything)
}

// 成功時：在庫減算 + 変動履歴 + スナップショット + 合計再計算
func TestOrderUsecase_AddItem_Success_SnapshotsAndRecomputesTotal(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 11, 0, 0, 0, time.UTC)

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)
	products := new(OrdProductRepoMock)
	inventory := new(OrdInventoryRepoMock)
	items := new(OrdItemRepoMock)

	tx.Repos = &OrdTxReposMock{
		orders:     orders,
		products:   products,
		inventory:  inventory,
		orderItems: items,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orderID := int64(10)

	orders.On("FindByID", mock.Anything, orderID).Return(model.Order{
		ID:          orderID,
		OrderNumber: "ORD202601020001",
		Status:      model.OrderStatusCreated,
	}, nil)

	products.On("FindByID", mock.Anything, int64(100)).Return(model.Product{
		ID:    100,
		Name:  "Coffee Beans",
		Price: 2500,
		Stock: 10,
	}, nil)

	inventory.On("DecreaseStockIfEnough", mock.Anything, int64(100), int64(2)).Return(true, nil)

	inventory.On("CreateMovement", mock.Anything, mock.MatchedBy(func(mv model.StockMovement) bool {
		return mv.ProductID == 100 &&
			mv.OrderID != nil && *mv.OrderID == orderID &&
			mv.Kind == model.MovementOrderItem &&
			mv.Delta == -2 &&
			mv.Reason == "ORD202601020001"
	})).Return(nil)

	items.On("Create", mock.Anything, mock.MatchedBy(func(it model.OrderItem) bool {
		// 価格と商品名はこの時点のスナップショット
		return it.OrderID == orderID &&
			it.ProductID == 100 &&
			it.ProductNameSnapshot == "Coffee Beans" &&
			it.Quantity == 2 &&
			it.UnitPriceSnapshot == 2500 &&
			it.LineTotal == 5000
	})).Return(int64(77), nil)

	items.On("TotalByOrderID", mock.Anything, orderID).Return(int64(5000), nil)
	orders.On("UpdateTotal", mock.Anything, orderID, int64(5000)).Return(nil)

	items.On("ListByOrderID", mock.Anything, orderID).Return([]model.OrderItem{
		{ID: 77, OrderID: orderID, ProductID: 100, ProductNameSnapshot: "Coffee Beans", Quantity: 2, UnitPriceSnapshot: 2500, LineTotal: 5000},
	}, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: now})

	out, err := uc.AddItem(ctx, usecase.AddItemInput{OrderID: orderID, ProductID: 100, Quantity: 2})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(2500), out.Items[0].UnitPrice)
	assert.Equal(t, int64(5000), out.Items[0].LineTotal)

	orders.AssertExpectations(t)
	products.AssertExpectations(t)
	inventory.AssertExpectations(t)
	items.AssertExpectations(t)
}

// =====================
// RemoveItem tests
// =====================

// 他の注文の明細は「存在しない扱い」
func TestOrderUsecase_RemoveItem_ItemOfOtherOrder_NotFound(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)
	items := new(OrdItemRepoMock)
	inventory := new(OrdInventoryRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders, orderItems: items, inventory: inventory}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{
		ID:     1,
		Status: model.OrderStatusCreated,
	}, nil)
	items.On("FindByID", mock.Anything, int64(50)).Return(model.OrderItem{
		ID:      50,
		OrderID: 99,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.RemoveItem(ctx, usecase.RemoveItemInput{OrderID: 1, ItemID: 50})
	assertErrContains(t, err, "item not found")
	assertKind(t, err, usecase.KindNotFound)

	inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
	items.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// 削除した分の在庫は戻る
func TestOrderUsecase_RemoveItem_Success_RestoresStock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)
	items := new(OrdItemRepoMock)
	inventory := new(OrdInventoryRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders, orderItems: items, inventory: inventory}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orderID := int64(4)

	orders.On("FindByID", mock.Anything, orderID).Return(model.Order{
		ID:          orderID,
		OrderNumber: "ORD202601020002",
		Status:      model.OrderStatusCreated,
	}, nil)

	items.On("FindByID", mock.Anything, int64(30)).Return(model.OrderItem{
		ID:        30,
		OrderID:   orderID,
		ProductID: 100,
		Quantity:  3,
	}, nil)

	inventory.On("IncreaseStock", mock.Anything, int64(100), int64(3)).Return(nil)
	inventory.On("CreateMovement", mock.Anything, mock.MatchedBy(func(mv model.StockMovement) bool {
		return mv.ProductID == 100 &&
			mv.Kind == model.MovementOrderEdit &&
			mv.Delta == 3
	})).Return(nil)

	items.On("Delete", mock.Anything, int64(30)).Return(nil)
	items.On("TotalByOrderID", mock.Anything, orderID).Return(int64(0), nil)
	orders.On("UpdateTotal", mock.Anything, orderID, int64(0)).Return(nil)
	items.On("ListByOrderID", mock.Anything, orderID).Return([]model.OrderItem{}, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: now})

	out, err := uc.RemoveItem(ctx, usecase.RemoveItemInput{OrderID: orderID, ItemID: 30})
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Items))

	inventory.AssertExpectations(t)
	items.AssertExpectations(t)
	orders.AssertExpectations(t)
}

// =====================
// UpdateItemQuantity tests
// =====================

// 同じ数量なら在庫も明細も触らない
func TestOrderUsecase_UpdateItemQuantity_SameQuantity_NoOp(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)
	items := new(OrdItemRepoMock)
	inventory := new(OrdInventoryRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders, orderItems: items, inventory: inventory}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orderID := int64(4)

	orders.On("FindByID", mock.Anything, orderID).Return(model.Order{
		ID:     orderID,
		Status: model.OrderStatusCreated,
	}, nil)
	items.On("FindByID", mock.Anything, int64(30)).Return(model.OrderItem{
		ID:       30,
		OrderID:  orderID,
		Quantity: 2,
	}, nil)
	items.On("ListByOrderID", mock.Anything, orderID).Return([]model.OrderItem{}, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.UpdateItemQuantity(ctx, usecase.UpdateItemQuantityInput{OrderID: orderID, ItemID: 30, Quantity: 2})
	assert.NoError(t, err)

	inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
	inventory.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
	items.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// 増やす分の在庫が無ければ conflict
func TestOrderUsecase_UpdateItemQuantity_Increase_StockExceeded(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)
	items := new(OrdItemRepoMock)
	inventory := new(OrdInventoryRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders, orderItems: items, inventory: inventory}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orderID := int64(4)

	orders.On("FindByID", mock.Anything, orderID).Return(model.Order{
		ID:     orderID,
		Status: model.OrderStatusCreated,
	}, nil)
	items.On("FindByID", mock.Anything, int64(30)).Return(model.OrderItem{
		ID:        30,
		OrderID:   orderID,
		ProductID: 100,
		Quantity:  2,
	}, nil)

	// 2 -> 5 で差分3の減算に失敗
	inventory.On("DecreaseStockIfEnough", mock.Anything, int64(100), int64(3)).Return(false, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.UpdateItemQuantity(ctx, usecase.UpdateItemQuantityInput{OrderID: orderID, ItemID: 30, Quantity: 5})
	assertErrContains(t, err, "stock exceeded")
	assertKind(t, err, usecase.KindConflict)

	items.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// 減らした差分は在庫に戻り、行合計はスナップショット単価で再計算
func TestOrderUsecase_UpdateItemQuantity_Decrease_RestoresDiff(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 13, 0, 0, 0, time.UTC)

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)
	items := new(OrdItemRepoMock)
	inventory := new(OrdInventoryRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders, orderItems: items, inventory: inventory}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orderID := int64(4)

	orders.On("FindByID", mock.Anything, orderID).Return(model.Order{
		ID:          orderID,
		OrderNumber: "ORD202601020003",
		Status:      model.OrderStatusCreated,
	}, nil)
	items.On("FindByID", mock.Anything, int64(30)).Return(model.OrderItem{
		ID:                30,
		OrderID:           orderID,
		ProductID:         100,
		Quantity:          3,
		UnitPriceSnapshot: 1000,
		LineTotal:         3000,
	}, nil)

	// 3 -> 1 なので2戻す
	inventory.On("IncreaseStock", mock.Anything, int64(100), int64(2)).Return(nil)
	inventory.On("CreateMovement", mock.Anything, mock.MatchedBy(func(mv model.StockMovement) bool {
		return mv.Kind == model.MovementOrderEdit && mv.Delta == 2
	})).Return(nil)

	items.On("UpdateQuantity", mock.Anything, int64(30), int64(1), int64(1000)).Return(nil)
	items.On("TotalByOrderID", mock.Anything, orderID).Return(int64(1000), nil)
	orders.On("UpdateTotal", mock.Anything, orderID, int64(1000)).Return(nil)
	items.On("ListByOrderID", mock.Anything, orderID).Return([]model.OrderItem{
		{ID: 30, OrderID: orderID, ProductID: 100, Quantity: 1, UnitPriceSnapshot: 1000, LineTotal: 1000},
	}, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: now})

	out, err := uc.UpdateItemQuantity(ctx, usecase.UpdateItemQuantityInput{OrderID: orderID, ItemID: 30, Quantity: 1})
	assert.NoError(t, err)
	assert.Equal(t, int64(1000), out.Items[0].LineTotal)

	inventory.AssertExpectations(t)
	items.AssertExpectations(t)
	orders.AssertExpectations(t)
}

// =====================
// Pay tests
// =====================

func TestOrderUsecase_Pay_AlreadyPaid(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{
		ID:     5,
		Status: model.OrderStatusPaid,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.Pay(ctx, usecase.PayOrderInput{OrderID: 5, Amount: 100})
	assertErrContains(t, err, "order already paid")
	assertKind(t, err, usecase.KindConflict)
}

func TestOrderUsecase_Pay_CancelledOrder(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{
		ID:     5,
		Status: model.OrderStatusCancelled,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.Pay(ctx, usecase.PayOrderInput{OrderID: 5, Amount: 100})
	assertErrContains(t, err, "cannot pay cancelled order")
	assertKind(t, err, usecase.KindConflict)
}

// 入金は合計額ちょうどのみ
func TestOrderUsecase_Pay_AmountMustEqualTotal(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{
		ID:          5,
		Status:      model.OrderStatusCreated,
		TotalAmount: 8000,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.Pay(ctx, usecase.PayOrderInput{OrderID: 5, Amount: 5000})
	assertErrContains(t, err, "amount must equal total")
	assertKind(t, err, usecase.KindValidation)

	orders.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_Pay_Success(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)
	items := new(OrdItemRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders, orderItems: items}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(5)).Return(model.Order{
		ID:          5,
		Status:      model.OrderStatusCreated,
		TotalAmount: 8000,
	}, nil)
	orders.On("MarkPaid", mock.Anything, int64(5), int64(8000)).Return(nil)
	items.On("ListByOrderID", mock.Anything, int64(5)).Return([]model.OrderItem{}, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.Pay(ctx, usecase.PayOrderInput{OrderID: 5, Amount: 8000})
	assert.NoError(t, err)

	orders.AssertExpectations(t)
}

// =====================
// Cancel tests
// =====================

func TestOrderUsecase_Cancel_AlreadyCancelled(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(9)).Return(model.Order{
		ID:     9,
		Status: model.OrderStatusCancelled,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.Cancel(ctx, 9)
	assertErrContains(t, err, "order already cancelled")
	assertKind(t, err, usecase.KindConflict)
}

func TestOrderUsecase_Cancel_PaidOrder(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(9)).Return(model.Order{
		ID:     9,
		Status: model.OrderStatusPaid,
	}, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.Cancel(ctx, 9)
	assertErrContains(t, err, "cannot cancel paid order")
	assertKind(t, err, usecase.KindConflict)
}

// キャンセルで全明細の在庫が戻る
func TestOrderUsecase_Cancel_RestoresAllItems(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 14, 0, 0, 0, time.UTC)

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)
	items := new(OrdItemRepoMock)
	inventory := new(OrdInventoryRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders, orderItems: items, inventory: inventory}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orderID := int64(9)

	orders.On("FindByID", mock.Anything, orderID).Return(model.Order{
		ID:          orderID,
		OrderNumber: "ORD202601020004",
		Status:      model.OrderStatusCreated,
	}, nil)

	items.On("ListByOrderID", mock.Anything, orderID).Return([]model.OrderItem{
		{ID: 1, OrderID: orderID, ProductID: 100, Quantity: 2},
		{ID: 2, OrderID: orderID, ProductID: 101, Quantity: 1},
	}, nil)

	inventory.On("IncreaseStock", mock.Anything, int64(100), int64(2)).Return(nil)
	inventory.On("IncreaseStock", mock.Anything, int64(101), int64(1)).Return(nil)

	inventory.On("CreateMovement", mock.Anything, mock.MatchedBy(func(mv model.StockMovement) bool {
		return mv.ProductID == 100 && mv.Kind == model.MovementOrderCancel && mv.Delta == 2
	})).Return(nil)
	inventory.On("CreateMovement", mock.Anything, mock.MatchedBy(func(mv model.StockMovement) bool {
		return mv.ProductID == 101 && mv.Kind == model.MovementOrderCancel && mv.Delta == 1
	})).Return(nil)

	orders.On("UpdateStatus", mock.Anything, orderID, model.OrderStatusCancelled).Return(nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: now})

	out, err := uc.Cancel(ctx, orderID)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(out.Items))

	orders.AssertExpectations(t)
	inventory.AssertExpectations(t)
}

// =====================
// Get / List tests
// =====================

func TestOrderUsecase_GetByNumber_NotFound(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByNumber", mock.Anything, "ORD999").Return(model.Order{}, repo.ErrNotFound)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.GetByNumber(ctx, "ORD999")
	assertErrContains(t, err, "order not found")
	assertKind(t, err, usecase.KindNotFound)
}

func TestOrderUsecase_List_InvalidStatus(t *testing.T) {
	tx := new(OrdTxManagerMock)
	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.List(context.Background(), usecase.ListOrdersInput{Page: 1, Limit: 20, Status: "SHIPPED"})
	assertErrContains(t, err, "invalid status")
}

func TestOrderUsecase_List_FromAfterTo(t *testing.T) {
	tx := new(OrdTxManagerMock)
	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := uc.List(context.Background(), usecase.ListOrdersInput{Page: 1, Limit: 20, From: &from, To: &to})
	assertErrContains(t, err, "from must be <= to")
}

func TestOrderUsecase_List_Success_LoadsItemsPerOrder(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)
	items := new(OrdItemRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders, orderItems: items}
	tx.On("WithinTx", mock.Anything).Return(nil)

	f := repo.OrderListFilter{Page: 1, Limit: 20}

	orders.On("List", mock.Anything, f).Return([]model.Order{
		{ID: 10, Status: model.OrderStatusCreated},
		{ID: 11, Status: model.OrderStatusPaid},
	}, int64(2), nil)
	items.On("ListByOrderID", mock.Anything, int64(10)).Return([]model.OrderItem{}, nil)
	items.On("ListByOrderID", mock.Anything, int64(11)).Return([]model.OrderItem{}, nil)

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	out, err := uc.List(ctx, usecase.ListOrdersInput{Page: 1, Limit: 20})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.Total)
	assert.Equal(t, 2, len(out.Items))

	orders.AssertExpectations(t)
	items.AssertExpectations(t)
}

// DBエラーは storage として返る
func TestOrderUsecase_Get_DBError(t *testing.T) {
	ctx := context.Background()

	tx := new(OrdTxManagerMock)
	orders := new(OrdOrderRepoMock)

	tx.Repos = &OrdTxReposMock{orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{}, errors.New("db down"))

	uc := usecase.NewOrderUsecase(tx, fixedClock{t: time.Now()})

	_, err := uc.Get(ctx, 1)
	assertErrContains(t, err, "db error")
	assertKind(t, err, usecase.KindStorage)
}
