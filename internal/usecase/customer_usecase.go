package usecase

import (
	"context"
	"net/mail"
	"strings"

	"bizapp/internal/domain/model"
	repo "bizapp/internal/repository"
)

type CustomerUsecase struct {
	customerRepo repo.CustomerRepository
	orderRepo    repo.OrderRepository
	clock        Clock
}

// DI
func NewCustomerUsecase(
	customerRepo repo.CustomerRepository,
	orderRepo repo.OrderRepository,
	clock Clock,
) *CustomerUsecase {
	return &CustomerUsecase{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		clock:        clock,
	}
}

type CustomerInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

type ListCustomersInput struct {
	Page  int
	Limit int
	Q     string
}

type CustomerListOutput struct {
	Items []model.Customer `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func validateCustomerInput(in CustomerInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewValidationError("name required")
	}
	if len(in.Name) > 100 {
		return NewValidationError("name too long")
	}
	if strings.TrimSpace(in.Email) != "" {
		if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
			return NewValidationError("invalid email format")
		}
	}
	return nil
}

func (u *CustomerUsecase) Create(ctx context.Context, in CustomerInput) (int64, error) {
	if err := validateCustomerInput(in); err != nil {
		return 0, err
	}

	now := u.clock.Now()
	c, err := u.customerRepo.Create(ctx, model.Customer{
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return 0, NewStorageError("db error")
	}
	return c.ID, nil
}

func (u *CustomerUsecase) Update(ctx context.Context, customerID int64, in CustomerInput) error {
	if customerID <= 0 {
		return NewValidationError("invalid customer id")
	}
	if err := validateCustomerInput(in); err != nil {
		return err
	}

	err := u.customerRepo.Update(ctx, model.Customer{
		ID:        customerID,
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		Address:   strings.TrimSpace(in.Address),
		UpdatedAt: u.clock.Now(),
	})
	if err == repo.ErrNotFound {
		return NewNotFoundError("customer not found")
	}
	if err != nil {
		return NewStorageError("db error")
	}
	return nil
}

// 注文が1件でも紐づく顧客は消せない（履歴保全）
func (u *CustomerUsecase) Delete(ctx context.Context, customerID int64) error {
	if customerID <= 0 {
		return NewValidationError("invalid customer id")
	}

	count, err := u.orderRepo.CountByCustomerID(ctx, customerID)
	if err != nil {
		return NewStorageError("db error")
	}
	if count > 0 {
		return NewConflictError("customer has orders")
	}

	err = u.customerRepo.Delete(ctx, customerID)
	if err == repo.ErrNotFound {
		return NewNotFoundError("customer not found")
	}
	if err != nil {
		return NewStorageError("db error")
	}
	return nil
}

func (u *CustomerUsecase) Get(ctx context.Context, customerID int64) (model.Customer, error) {
	if customerID <= 0 {
		return model.Customer{}, NewValidationError("invalid customer id")
	}

	c, err := u.customerRepo.FindByID(ctx, customerID)
	if err == repo.ErrNotFound {
		return model.Customer{}, NewNotFoundError("customer not found")
	}
	if err != nil {
		return model.Customer{}, NewStorageError("db error")
	}
	return c, nil
}

func (u *CustomerUsecase) List(ctx context.Context, in ListCustomersInput) (CustomerListOutput, error) {
	if in.Page < 1 {
		return CustomerListOutput{}, NewValidationError("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return CustomerListOutput{}, NewValidationError("invalid limit")
	}
	if len(in.Q) > 100 {
		return CustomerListOutput{}, NewValidationError("q too long")
	}

	items, total, err := u.customerRepo.List(ctx, repo.CustomerListQuery{
		Page:  in.Page,
		Limit: in.Limit,
		Q:     strings.TrimSpace(in.Q),
	})
	if err != nil {
		return CustomerListOutput{}, NewStorageError("db error")
	}

	return CustomerListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}
