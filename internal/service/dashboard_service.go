package service

import (
	"context"
	"time"

	"brewops/internal/model"
	"brewops/internal/repository"

	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	DraftOrders         int64           `json:"draftOrders"`
	ApprovedOrders      int64           `json:"approvedOrders"`
	InvoicedTotal       decimal.Decimal `json:"invoicedTotal"`
	FilledKegs          int64           `json:"filledKegs"`
	KegsAtCustomers     int64           `json:"kegsAtCustomers"`
	FinishedGoodsOnHand decimal.Decimal `json:"finishedGoodsOnHand"`
}

type DashboardService interface {
	GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	orders    repository.SalesOrderRepository
	invoices  repository.InvoiceRepository
	kegs      repository.KegRepository
	inventory repository.InventoryRepository
}

func NewDashboardService(orders repository.SalesOrderRepository, invoices repository.InvoiceRepository, kegs repository.KegRepository, inventory repository.InventoryRepository) DashboardService {
	return &dashboardService{orders: orders, invoices: invoices, kegs: kegs, inventory: inventory}
}

func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.inventory.GetStockMovement(ctx, startDate, endDate)
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)
	if stats.DraftOrders, err = s.orders.CountByStatus(ctx, model.OrderDraft); err != nil {
		return nil, err
	}
	if stats.ApprovedOrders, err = s.orders.CountByStatus(ctx, model.OrderApproved); err != nil {
		return nil, err
	}
	if stats.InvoicedTotal, err = s.invoices.SumOpenTotals(ctx); err != nil {
		return nil, err
	}
	if stats.FilledKegs, err = s.kegs.CountByStatus(ctx, model.KegFilled); err != nil {
		return nil, err
	}
	if stats.KegsAtCustomers, err = s.kegs.CountByStatus(ctx, model.KegCustomer); err != nil {
		return nil, err
	}
	if stats.FinishedGoodsOnHand, err = s.inventory.SumQuantityByType(ctx, model.InvFinishedGoods); err != nil {
		return nil, err
	}
	return &stats, nil
}
