package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "sales_order:approve"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivSalesOrderView    = "sales_order:view"
	PrivSalesOrderCreate  = "sales_order:create"
	PrivSalesOrderUpdate  = "sales_order:update"
	PrivSalesOrderApprove = "sales_order:approve"
	PrivInvoiceView       = "invoice:view"
	PrivInventoryView     = "inventory:view"
	PrivInventoryManage   = "inventory:manage"
	PrivKegManage         = "keg:manage"
	PrivCatalogManage     = "catalog:manage"
	PrivCustomerManage    = "customer:manage"
	PrivSettingManage     = "setting:manage"
	PrivDashboardView     = "dashboard:view"
	PrivUserManage        = "user:manage"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	{Code: PrivSalesOrderView, Name: "View Sales Orders"},
	{Code: PrivSalesOrderCreate, Name: "Create Sales Orders"},
	{Code: PrivSalesOrderUpdate, Name: "Update Sales Orders"},
	{Code: PrivSalesOrderApprove, Name: "Approve Sales Orders"},
	{Code: PrivInvoiceView, Name: "View Invoices"},
	{Code: PrivInventoryView, Name: "View Inventory"},
	{Code: PrivInventoryManage, Name: "Receive, Move and Adjust Inventory"},
	{Code: PrivKegManage, Name: "Manage Kegs"},
	{Code: PrivCatalogManage, Name: "Manage Products and Package Types"},
	{Code: PrivCustomerManage, Name: "Manage Customers"},
	{Code: PrivSettingManage, Name: "Manage System Settings"},
	{Code: PrivDashboardView, Name: "View Dashboard"},
	{Code: PrivUserManage, Name: "Manage Users"},
}
