package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderDraft     OrderStatus = "Draft"
	OrderApproved  OrderStatus = "Approved"
	OrderCancelled OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderDraft, OrderApproved, OrderCancelled:
		return true
	}
	return false
}

type SalesOrder struct {
	ID         uint             `gorm:"primaryKey"`
	CustomerID uint             `gorm:"not null;index"`
	Customer   *Customer        `gorm:"foreignKey:CustomerID"`
	PONumber   *string          `gorm:"type:varchar(100)"`
	Status     OrderStatus      `gorm:"type:varchar(20);not null;index"`
	Items      []SalesOrderItem `gorm:"foreignKey:OrderID"`
	Invoice    *Invoice         `gorm:"foreignKey:OrderID"`
	CreatedBy  string           `gorm:"type:varchar(255)"`
	CreatedAt  time.Time        `gorm:"index"`
	UpdatedAt  time.Time
}

// SalesOrderItem is one priced line. ProductID/PackageTypeID are set when the
// line resolved against the catalog; ItemName stays the display string.
type SalesOrderItem struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	OrderID       uint                        `gorm:"not null;index" json:"orderId"`
	ItemName      string                      `gorm:"type:varchar(255);not null" json:"itemName"`
	Quantity      int                         `gorm:"not null" json:"quantity"`
	Unit          string                      `gorm:"type:varchar(20);not null" json:"unit"`
	Price         decimal.Decimal             `gorm:"type:decimal(12,2);not null" json:"price"`
	HasKegDeposit bool                        `gorm:"not null" json:"hasKegDeposit"`
	KegCodes      datatypes.JSONSlice[string] `json:"kegCodes"`
	ProductID     *uint                       `json:"productId,omitempty"`
	PackageTypeID *uint                       `json:"packageTypeId,omitempty"`
}

// LineTotal is price × quantity.
func (i SalesOrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SalesOrderResponse is the API shape of an order.
type SalesOrderResponse struct {
	OrderID         uint             `json:"orderId"`
	CustomerID      uint             `json:"customerId"`
	CustomerName    string           `json:"customerName,omitempty"`
	PONumber        *string          `json:"poNumber"`
	Status          OrderStatus      `json:"status"`
	CreatedDate     time.Time        `json:"createdDate"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	Items           []SalesOrderItem `json:"items"`
	InvoiceID       *uint            `json:"invoiceId,omitempty"`
	KegDepositPrice string           `json:"keg_deposit_price"`
}

// ToResponse converts SalesOrder to SalesOrderResponse. The keg deposit
// price is a live setting and is filled in by the caller.
func (o *SalesOrder) ToResponse() SalesOrderResponse {
	resp := SalesOrderResponse{
		OrderID:     o.ID,
		CustomerID:  o.CustomerID,
		PONumber:    o.PONumber,
		Status:      o.Status,
		CreatedDate: o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Items:       o.Items,
	}
	if resp.Items == nil {
		resp.Items = []SalesOrderItem{}
	}
	for i := range resp.Items {
		if resp.Items[i].KegCodes == nil {
			resp.Items[i].KegCodes = datatypes.JSONSlice[string]{}
		}
	}
	if o.Customer != nil {
		resp.CustomerName = o.Customer.Name
	}
	if o.Invoice != nil {
		id := o.Invoice.ID
		resp.InvoiceID = &id
	}
	return resp
}
