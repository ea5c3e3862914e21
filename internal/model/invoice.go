package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type InvoiceStatus string

const (
	InvoicePending   InvoiceStatus = "Pending"
	InvoicePaid      InvoiceStatus = "Paid"
	InvoiceCancelled InvoiceStatus = "Cancelled"
)

// KegDepositLineName is the synthetic invoice line carrying the deposit charge.
const KegDepositLineName = "Keg Deposit"

type Invoice struct {
	ID              uint            `gorm:"primaryKey"`
	OrderID         uint            `gorm:"not null;uniqueIndex"`
	CustomerID      uint            `gorm:"not null;index"`
	Customer        *Customer       `gorm:"foreignKey:CustomerID"`
	Status          InvoiceStatus   `gorm:"type:varchar(20);not null;index"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	KegDepositTotal decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	KegDepositPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Items           []InvoiceItem   `gorm:"foreignKey:InvoiceID"`
	CreatedAt       time.Time       `gorm:"index"`
	UpdatedAt       time.Time
}

type InvoiceItem struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	InvoiceID     uint                        `gorm:"not null;index" json:"invoiceId"`
	ItemName      string                      `gorm:"type:varchar(255);not null" json:"itemName"`
	Quantity      int                         `gorm:"not null" json:"quantity"`
	Unit          string                      `gorm:"type:varchar(20)" json:"unit"`
	Price         decimal.Decimal             `gorm:"type:decimal(12,2);not null" json:"price"`
	HasKegDeposit bool                        `gorm:"not null" json:"hasKegDeposit"`
	KegCodes      datatypes.JSONSlice[string] `json:"kegCodes"`
}

type InvoiceResponse struct {
	InvoiceID       uint            `json:"invoiceId"`
	OrderID         uint            `json:"orderId"`
	CustomerID      uint            `json:"customerId"`
	CustomerName    string          `json:"customerName,omitempty"`
	Status          InvoiceStatus   `json:"status"`
	CreatedDate     time.Time       `json:"createdDate"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	KegDepositTotal decimal.Decimal `json:"kegDepositTotal"`
	Total           decimal.Decimal `json:"total"`
	KegDepositPrice decimal.Decimal `json:"kegDepositPrice"`
	Items           []InvoiceItem   `json:"items"`
}

func (inv *Invoice) ToResponse() InvoiceResponse {
	resp := InvoiceResponse{
		InvoiceID:       inv.ID,
		OrderID:         inv.OrderID,
		CustomerID:      inv.CustomerID,
		Status:          inv.Status,
		CreatedDate:     inv.CreatedAt,
		Subtotal:        inv.Subtotal,
		KegDepositTotal: inv.KegDepositTotal,
		Total:           inv.Total,
		KegDepositPrice: inv.KegDepositPrice,
		Items:           inv.Items,
	}
	if resp.Items == nil {
		resp.Items = []InvoiceItem{}
	}
	if inv.Customer != nil {
		resp.CustomerName = inv.Customer.Name
	}
	return resp
}
