package repository

import (
	"context"

	"brewops/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	// Create inserts the invoice header and its items.
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id uint) (*model.Invoice, error)
	FindByOrderID(ctx context.Context, orderID uint) (*model.Invoice, error)
	List(ctx context.Context, offset, limit int) ([]model.Invoice, int64, error)
	SumOpenTotals(ctx context.Context) (decimal.Decimal, error)
}

type invoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepo(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db}
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(invoice).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uint) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepo) FindByOrderID(ctx context.Context, orderID uint) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("order_id = ?", orderID).
		First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepo) List(ctx context.Context, offset, limit int) ([]model.Invoice, int64, error) {
	var (
		invoices []model.Invoice
		count    int64
	)
	if err := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("status <> ?", model.InvoiceCancelled).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("status <> ?", model.InvoiceCancelled).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&invoices).Error
	return invoices, count, err
}

func (r *invoiceRepo) SumOpenTotals(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Select("COALESCE(SUM(total), 0)").
		Where("status <> ?", model.InvoiceCancelled).
		Row().Scan(&total)
	return total.Round(moneyScale), err
}
