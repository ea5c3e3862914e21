package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable liquid (a beer, a whiskey) independent of how it is packaged.
type Product struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Name         string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Type         string        `gorm:"type:varchar(50)" json:"type"`
	Enabled      bool          `gorm:"not null" json:"enabled"`
	PackageTypes []PackageType `gorm:"foreignKey:ProductID" json:"packageTypes,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// PackageType prices one product in one container, e.g. "750ml Bottle" or "1/2 BBL Keg".
type PackageType struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	ProductID        uint            `gorm:"not null;uniqueIndex:idx_product_package" json:"productId"`
	Product          *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Type             string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_package" json:"type"`
	Price            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	IsKegDepositItem bool            `gorm:"not null" json:"isKegDepositItem"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ItemName is the display string order lines carry for this package.
func (p PackageType) ItemName(productName string) string {
	return productName + " " + p.Type
}
