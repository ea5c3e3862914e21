package service

import (
	"context"
	"errors"
	"strings"

	"brewops/internal/model"
	"brewops/internal/repository"
	"brewops/pkg/validator"

	"gorm.io/gorm"
)

type CustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=30"`
	Address string `json:"address"`
	Enabled *bool  `json:"enabled"`
}

type CustomerService interface {
	Create(ctx context.Context, req *CustomerRequest) (*model.Customer, error)
	Update(ctx context.Context, id uint, req *CustomerRequest) (*model.Customer, error)
	Get(ctx context.Context, id uint) (*model.Customer, error)
	List(ctx context.Context, enabledOnly bool) ([]model.Customer, error)
	SetEnabled(ctx context.Context, id uint, enabled bool) (*model.Customer, error)
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req *CustomerRequest) (*model.Customer, error) {
	if err := validateCustomer(req); err != nil {
		return nil, err
	}
	customer := &model.Customer{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
		Enabled: req.Enabled == nil || *req.Enabled,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, id uint, req *CustomerRequest) (*model.Customer, error) {
	if err := validateCustomer(req); err != nil {
		return nil, err
	}
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.Name = strings.TrimSpace(req.Name)
	customer.Email = strings.TrimSpace(req.Email)
	customer.Phone = strings.TrimSpace(req.Phone)
	customer.Address = strings.TrimSpace(req.Address)
	if req.Enabled != nil {
		customer.Enabled = *req.Enabled
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Get(ctx context.Context, id uint) (*model.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCustomerNotFound
	}
	return customer, err
}

func (s *customerService) List(ctx context.Context, enabledOnly bool) ([]model.Customer, error) {
	return s.repo.FindAll(ctx, enabledOnly)
}

func (s *customerService) SetEnabled(ctx context.Context, id uint, enabled bool) (*model.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.Enabled = enabled
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func validateCustomer(req *CustomerRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return invalid(ErrInvalidInput, "%s", validator.Message(errs))
	}
	return nil
}
