package model

import "time"

type KegStatus string

const (
	KegEmpty    KegStatus = "Empty"
	KegFilled   KegStatus = "Filled"
	KegCustomer KegStatus = "Customer"
	KegRetired  KegStatus = "Retired"
)

type Keg struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Code         string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Status       KegStatus  `gorm:"type:varchar(20);not null;index" json:"status"`
	ProductID    *uint      `gorm:"index" json:"productId"`
	Product      *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CustomerID   *uint      `gorm:"index" json:"customerId"`
	OrderID      *uint      `gorm:"index" json:"orderId"`
	Location     string     `gorm:"type:varchar(100)" json:"location"`
	LastActivity *time.Time `json:"lastActivity"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
