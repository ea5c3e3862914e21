package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel handles ID (UUID) and standard audit trails for account records.
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`

	CreatedBy string `json:"created_by"`
	UpdatedBy string `json:"updated_by"`
}

// BeforeCreate generates the UUID when the caller did not set one.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return
}

// All lists every model migrated at startup.
func All() []interface{} {
	return []interface{}{
		&Privilege{}, &Role{}, &User{},
		&Customer{},
		&Product{}, &PackageType{},
		&InventoryRecord{}, &InventoryTransaction{},
		&Keg{},
		&SalesOrder{}, &SalesOrderItem{},
		&Invoice{}, &InvoiceItem{},
		&SystemSetting{},
	}
}
