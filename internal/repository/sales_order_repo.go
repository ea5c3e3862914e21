package repository

import (
	"context"

	"brewops/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SalesOrderRepository interface {
	Create(ctx context.Context, order *model.SalesOrder) error
	FindByID(ctx context.Context, id uint) (*model.SalesOrder, error)
	// FindByIDForUpdate reads the header with a row lock where the database supports one.
	FindByIDForUpdate(ctx context.Context, id uint) (*model.SalesOrder, error)
	List(ctx context.Context, offset, limit int) ([]model.SalesOrder, int64, error)
	UpdateHeader(ctx context.Context, order *model.SalesOrder) error
	// ReplaceItems deletes every line of the order and inserts items in order.
	ReplaceItems(ctx context.Context, orderID uint, items []model.SalesOrderItem) error
	CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error)
}

type salesOrderRepo struct {
	db *gorm.DB
}

func NewSalesOrderRepo(db *gorm.DB) SalesOrderRepository {
	return &salesOrderRepo{db}
}

func (r *salesOrderRepo) Create(ctx context.Context, order *model.SalesOrder) error {
	return r.db.WithContext(ctx).Omit("Customer", "Invoice").Create(order).Error
}

func (r *salesOrderRepo) FindByID(ctx context.Context, id uint) (*model.SalesOrder, error) {
	var order model.SalesOrder
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Invoice").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *salesOrderRepo) FindByIDForUpdate(ctx context.Context, id uint) (*model.SalesOrder, error) {
	var order model.SalesOrder
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *salesOrderRepo) List(ctx context.Context, offset, limit int) ([]model.SalesOrder, int64, error) {
	var (
		orders []model.SalesOrder
		count  int64
	)
	base := r.db.WithContext(ctx).Model(&model.SalesOrder{}).Where("status <> ?", model.OrderCancelled)
	if err := base.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Invoice").
		Where("status <> ?", model.OrderCancelled).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	return orders, count, err
}

func (r *salesOrderRepo) UpdateHeader(ctx context.Context, order *model.SalesOrder) error {
	return r.db.WithContext(ctx).Model(&model.SalesOrder{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"customer_id": order.CustomerID,
			"po_number":   order.PONumber,
			"status":      order.Status,
		}).Error
}

func (r *salesOrderRepo) ReplaceItems(ctx context.Context, orderID uint, items []model.SalesOrderItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&model.SalesOrderItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].OrderID = orderID
	}
	return db.Create(&items).Error
}

func (r *salesOrderRepo) CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SalesOrder{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
