package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"bizapp/internal/config"
	"bizapp/internal/domain/model"
	"bizapp/internal/infra/db"
	infra "bizapp/internal/infra/repository"

	"gorm.io/gorm"
)

// 実SQLiteで回す。テストごとに独立したDBファイルを開く
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Config{
		DataDir:   dir,
		DBFile:    filepath.Join(dir, "test.db"),
		BackupDir: filepath.Join(dir, "backup"),
		LogDir:    filepath.Join(dir, "logs"),
	}

	gdb, err := db.Connect(cfg)
	if err != nil {
		t.Fatalf("db.Connect failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(gdb) })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("db.Migrate failed: %v", err)
	}
	if err := db.SeedDefaults(gdb); err != nil {
		t.Fatalf("db.SeedDefaults failed: %v", err)
	}

	return gdb
}

func mustCreateCustomer(t *testing.T, gdb *gorm.DB, name string) model.Customer {
	t.Helper()

	c, err := infra.NewCustomerGormRepository(gdb).Create(context.Background(), model.Customer{
		Name:  name,
		Phone: "0812-0000",
		Email: name + "@example.com",
	})
	if err != nil {
		t.Fatalf("create customer failed: %v", err)
	}
	return c
}

func mustCreateProduct(t *testing.T, gdb *gorm.DB, name string, price int64, stock int64) model.Product {
	t.Helper()

	p, err := infra.NewProductGormRepository(gdb).Create(context.Background(), model.Product{
		Name:  name,
		Price: price,
		Stock: stock,
		Unit:  "pcs",
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return p
}

func mustCreateOrder(t *testing.T, gdb *gorm.DB, customerID int64, number string) model.Order {
	t.Helper()

	orders := infra.NewOrderGormRepository(gdb)
	id, err := orders.Create(context.Background(), model.Order{
		OrderNumber: number,
		CustomerID:  customerID,
		Status:      model.OrderStatusCreated,
		OrderDate:   time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	o, err := orders.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	return o
}

func currentStock(t *testing.T, gdb *gorm.DB, productID int64) int64 {
	t.Helper()

	p, err := infra.NewProductGormRepository(gdb).FindByID(context.Background(), productID)
	if err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	return p.Stock
}
