package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleMasterAdmin = "MASTER_ADMIN"
	RoleSales       = "SALES"
)

var DefaultRoles = []Role{
	{
		Code:        RoleMasterAdmin,
		Name:        "Master Administrator",
		Description: "Full system access with all privileges",
	},
	{
		Code:        RoleSales,
		Name:        "Sales",
		Description: "Drafts and edits sales orders; cannot approve or change stock",
	},
}

// SalesRolePrivileges is what the SALES role is granted at seed time.
var SalesRolePrivileges = []string{
	PrivSalesOrderView,
	PrivSalesOrderCreate,
	PrivSalesOrderUpdate,
	PrivInvoiceView,
	PrivInventoryView,
	PrivDashboardView,
}
