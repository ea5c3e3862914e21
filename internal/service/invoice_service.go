package service

import (
	"context"
	"errors"

	"brewops/internal/model"
	"brewops/internal/repository"

	"gorm.io/gorm"
)

type InvoicePage struct {
	Invoices   []model.InvoiceResponse `json:"invoices"`
	TotalPages int                     `json:"totalPages"`
}

type InvoiceService interface {
	List(ctx context.Context, page, limit int) (*InvoicePage, error)
	Get(ctx context.Context, invoiceID uint) (*model.InvoiceResponse, error)
}

type invoiceService struct {
	repo repository.InvoiceRepository
}

func NewInvoiceService(repo repository.InvoiceRepository) InvoiceService {
	return &invoiceService{repo: repo}
}

func (s *invoiceService) List(ctx context.Context, page, limit int) (*InvoicePage, error) {
	_, limit, offset := normalizePage(page, limit)

	invoices, count, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	result := &InvoicePage{
		Invoices:   make([]model.InvoiceResponse, 0, len(invoices)),
		TotalPages: totalPages(count, limit),
	}
	for i := range invoices {
		result.Invoices = append(result.Invoices, invoices[i].ToResponse())
	}
	return result, nil
}

func (s *invoiceService) Get(ctx context.Context, invoiceID uint) (*model.InvoiceResponse, error) {
	invoice, err := s.repo.FindByID(ctx, invoiceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	resp := invoice.ToResponse()
	return &resp, nil
}
