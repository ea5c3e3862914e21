package router

import (
	"time"

	"brewops/internal/cache"
	"brewops/internal/handler"
	"brewops/internal/middleware"
	"brewops/internal/model"
	"brewops/internal/repository"
	"brewops/internal/service"
	"brewops/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Services is everything the HTTP layer needs, built once at startup.
type Services struct {
	Auth       service.AuthService
	Users      service.UserService
	SalesOrder service.SalesOrderService
	Invoice    service.InvoiceService
	Customer   service.CustomerService
	Catalog    service.CatalogService
	Keg        service.KegService
	Inventory  service.InventoryService
	Setting    service.SettingService
	Dashboard  service.DashboardService

	UserRepo      repository.UserRepository
	RoleRepo      repository.RoleRepository
	PrivilegeRepo repository.PrivilegeRepository
}

// NewServices wires repositories and services on db. A nil prices cache
// disables price caching.
func NewServices(db *gorm.DB, hub *ws.Hub, prices cache.PriceCache, priceTTL time.Duration) *Services {
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	orderRepo := repository.NewSalesOrderRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	catalogRepo := repository.NewCatalogRepo(db)
	kegRepo := repository.NewKegRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)

	settingService := service.NewSettingService(repository.NewSettingRepo(db))

	return &Services{
		Auth:       service.NewAuthService(userRepo, roleRepo, privilegeRepo),
		Users:      service.NewUserService(userRepo, roleRepo),
		SalesOrder: service.NewSalesOrderService(db, settingService, prices, priceTTL, hub),
		Invoice:    service.NewInvoiceService(invoiceRepo),
		Customer:   service.NewCustomerService(repository.NewCustomerRepo(db)),
		Catalog:    service.NewCatalogService(catalogRepo, prices),
		Keg:        service.NewKegService(kegRepo, catalogRepo, hub),
		Inventory:  service.NewInventoryService(inventoryRepo, db, hub),
		Setting:    settingService,
		Dashboard:  service.NewDashboardService(orderRepo, invoiceRepo, kegRepo, inventoryRepo),

		UserRepo:      userRepo,
		RoleRepo:      roleRepo,
		PrivilegeRepo: privilegeRepo,
	}
}

// Setup registers every route under /api plus the /ws socket.
func Setup(app *fiber.App, s *Services, hub *ws.Hub) {
	authHandler := handler.NewAuthHandler(s.Auth)
	userHandler := handler.NewUserHandler(s.Users)
	roleHandler := handler.NewRoleHandler(s.RoleRepo, s.PrivilegeRepo)
	orderHandler := handler.NewSalesOrderHandler(s.SalesOrder)
	invoiceHandler := handler.NewInvoiceHandler(s.Invoice)
	customerHandler := handler.NewCustomerHandler(s.Customer)
	catalogHandler := handler.NewCatalogHandler(s.Catalog)
	kegHandler := handler.NewKegHandler(s.Keg)
	invHandler := handler.NewInventoryHandler(s.Inventory)
	settingHandler := handler.NewSettingHandler(s.Setting)
	dashHandler := handler.NewDashboardHandler(s.Dashboard)

	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(s.UserRepo))
	require := middleware.RequirePrivilege

	protected.Get("/auth/me", userHandler.Me)

	// Sales orders; approving through PATCH is checked again in the handler
	protected.Get("/sales-orders", require(model.PrivSalesOrderView), orderHandler.GetOrders)
	protected.Get("/sales-orders/:orderId", require(model.PrivSalesOrderView), orderHandler.GetOrder)
	protected.Post("/sales-orders", require(model.PrivSalesOrderCreate), orderHandler.CreateOrder)
	protected.Patch("/sales-orders/:orderId", require(model.PrivSalesOrderUpdate), orderHandler.UpdateOrder)

	// Invoices
	protected.Get("/invoices", require(model.PrivInvoiceView), invoiceHandler.GetInvoices)
	protected.Get("/invoices/:invoiceId", require(model.PrivInvoiceView), invoiceHandler.GetInvoice)

	// Customers; order editors need the list to pick one
	readCustomers := middleware.RequireAnyPrivilege(model.PrivCustomerManage, model.PrivSalesOrderView)
	protected.Get("/customers", readCustomers, customerHandler.GetCustomers)
	protected.Get("/customers/:id", readCustomers, customerHandler.GetCustomer)
	protected.Post("/customers", require(model.PrivCustomerManage), customerHandler.CreateCustomer)
	protected.Put("/customers/:id", require(model.PrivCustomerManage), customerHandler.UpdateCustomer)
	protected.Post("/customers/:id/enable", require(model.PrivCustomerManage), customerHandler.SetEnabled(true))
	protected.Post("/customers/:id/disable", require(model.PrivCustomerManage), customerHandler.SetEnabled(false))

	// Catalog
	readCatalog := middleware.RequireAnyPrivilege(model.PrivCatalogManage, model.PrivSalesOrderView)
	protected.Get("/catalog/products", readCatalog, catalogHandler.GetProducts)
	protected.Get("/catalog/products/:id", readCatalog, catalogHandler.GetProduct)
	protected.Post("/catalog/products", require(model.PrivCatalogManage), catalogHandler.CreateProduct)
	protected.Put("/catalog/products/:id", require(model.PrivCatalogManage), catalogHandler.UpdateProduct)
	protected.Post("/catalog/package-types", require(model.PrivCatalogManage), catalogHandler.CreatePackageType)
	protected.Put("/catalog/package-types/:id", require(model.PrivCatalogManage), catalogHandler.UpdatePackageType)

	// Kegs; order editors look up Filled kegs by code
	readKegs := middleware.RequireAnyPrivilege(model.PrivKegManage, model.PrivSalesOrderView)
	protected.Get("/kegs", readKegs, kegHandler.GetKegs)
	protected.Get("/kegs/:code", readKegs, kegHandler.GetKeg)
	protected.Post("/kegs", require(model.PrivKegManage), kegHandler.RegisterKeg)
	protected.Post("/kegs/:code/fill", require(model.PrivKegManage), kegHandler.FillKeg)
	protected.Post("/kegs/:code/return", require(model.PrivKegManage), kegHandler.ReturnKeg)
	protected.Post("/kegs/:code/retire", require(model.PrivKegManage), kegHandler.RetireKeg)

	// Inventory ledger
	protected.Get("/inventory", require(model.PrivInventoryView), invHandler.GetInventory)
	protected.Get("/inventory/transactions", require(model.PrivInventoryView), invHandler.GetTransactions)
	protected.Post("/inventory/receive", require(model.PrivInventoryManage), invHandler.Receive)
	protected.Post("/inventory/:id/adjust", require(model.PrivInventoryManage), invHandler.Adjust)
	protected.Post("/inventory/:id/move", require(model.PrivInventoryManage), invHandler.Move)
	protected.Post("/inventory/:id/lose", require(model.PrivInventoryManage), invHandler.Lose)

	// Settings
	protected.Get("/settings", require(model.PrivSettingManage), settingHandler.GetSettings)
	protected.Get("/settings/:key", require(model.PrivSettingManage), settingHandler.GetSetting)
	protected.Put("/settings/:key", require(model.PrivSettingManage), settingHandler.PutSetting)

	// Dashboard
	protected.Get("/dashboard/stats", require(model.PrivDashboardView), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", require(model.PrivDashboardView), dashHandler.GetStockMovement)

	// Users and roles
	protected.Get("/users", require(model.PrivUserManage), userHandler.GetUsers)
	protected.Get("/users/:id", require(model.PrivUserManage), userHandler.GetUser)
	protected.Post("/users", require(model.PrivUserManage), userHandler.CreateUser)
	protected.Put("/users/:id", require(model.PrivUserManage), userHandler.UpdateUser)
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(hub.Serve))
}
