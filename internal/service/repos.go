package service

import (
	"brewops/internal/repository"

	"gorm.io/gorm"
)

// repos bundles the repositories one unit of work needs. Inside a
// transaction it must be built from the tx handle.
type repos struct {
	orders    repository.SalesOrderRepository
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
	catalog   repository.CatalogRepository
	inventory repository.InventoryRepository
	kegs      repository.KegRepository
	settings  repository.SettingRepository
}

func reposFor(db *gorm.DB) repos {
	return repos{
		orders:    repository.NewSalesOrderRepo(db),
		invoices:  repository.NewInvoiceRepo(db),
		customers: repository.NewCustomerRepo(db),
		catalog:   repository.NewCatalogRepo(db),
		inventory: repository.NewInventoryRepo(db),
		kegs:      repository.NewKegRepo(db),
		settings:  repository.NewSettingRepo(db),
	}
}
