package model

import "time"

// ここから下は予約テーブル。スキーマだけ先に作り、操作セットはまだ無い。

// 作業工程（予約）。
type Process struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string     `gorm:"type:varchar(255);not null" json:"name"`
	Description   string     `gorm:"type:text" json:"description"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority      string     `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	AssignedTo    string     `gorm:"type:varchar(255)" json:"assigned_to"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
	OrderID       *int64     `gorm:"index" json:"order_id,omitempty"`
	CreatedAt     time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 入出金（予約）。
type FinancialTransaction struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Type          string    `gorm:"type:varchar(20);not null" json:"type"`
	Category      string    `gorm:"type:varchar(100);not null" json:"category"`
	Amount        int64     `gorm:"not null" json:"amount"`
	Description   string    `gorm:"type:text" json:"description"`
	Date          time.Time `gorm:"not null;index" json:"date"`
	ReferenceID   *int64    `gorm:"index" json:"reference_id,omitempty"`
	ReferenceType string    `gorm:"type:varchar(50)" json:"reference_type"`
	PaymentMethod string    `gorm:"type:varchar(50)" json:"payment_method"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 請求書（予約）。
type Invoice struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceNumber string     `gorm:"type:varchar(20);not null;uniqueIndex" json:"invoice_number"`
	OrderID       int64      `gorm:"not null;index" json:"order_id"`
	CustomerID    int64      `gorm:"not null;index" json:"customer_id"`
	IssueDate     time.Time  `gorm:"not null" json:"issue_date"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Status        string     `gorm:"type:varchar(20);not null;default:'unpaid'" json:"status"`
	Subtotal      int64      `gorm:"not null" json:"subtotal"`
	TaxRate       int64      `gorm:"not null;default:0" json:"tax_rate"`
	TaxAmount     int64      `gorm:"not null;default:0" json:"tax_amount"`
	TotalAmount   int64      `gorm:"not null" json:"total_amount"`
	Notes         string     `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
