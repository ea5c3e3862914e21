package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryType string

const (
	InvFinishedGoods InventoryType = "Finished Goods"
	InvMarketing     InventoryType = "Marketing"
	InvRawMaterial   InventoryType = "Raw Material"
	InvPackaging     InventoryType = "Packaging"
	InvInProcess     InventoryType = "In Process"
)

// SellableInventoryTypes are the stock pools a sales order draws from.
var SellableInventoryTypes = []InventoryType{InvFinishedGoods, InvMarketing}

func (t InventoryType) Valid() bool {
	switch t {
	case InvFinishedGoods, InvMarketing, InvRawMaterial, InvPackaging, InvInProcess:
		return true
	}
	return false
}

// InventoryRecord is stock of one identifier, of one type, at one location.
type InventoryRecord struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Identifier       string          `gorm:"type:varchar(255);not null;index:idx_inventory_lookup" json:"identifier"`
	Type             InventoryType   `gorm:"type:varchar(30);not null;index:idx_inventory_lookup" json:"type"`
	Location         string          `gorm:"type:varchar(100);not null;default:''" json:"location"`
	Quantity         decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"quantity"`
	Unit             string          `gorm:"type:varchar(20)" json:"unit"`
	ProofGallons     decimal.Decimal `gorm:"type:decimal(14,3);not null" json:"proofGallons"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"totalCost"`
	Price            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	IsKegDepositItem bool            `gorm:"not null" json:"isKegDepositItem"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type TransactionAction string

const (
	TxReceived TransactionAction = "Received"
	TxMoved    TransactionAction = "Moved"
	TxPackaged TransactionAction = "Packaged"
	TxAdjusted TransactionAction = "Adjusted"
	TxLost     TransactionAction = "Lost"
	TxSold     TransactionAction = "Sold"
)

// InventoryTransaction is an append-only ledger row; Quantity is signed.
type InventoryTransaction struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	Action       TransactionAction `gorm:"type:varchar(20);not null;index" json:"action"`
	InventoryID  uint              `gorm:"index" json:"inventoryId"`
	Identifier   string            `gorm:"type:varchar(255);not null" json:"identifier"`
	Quantity     decimal.Decimal   `gorm:"type:decimal(14,3);not null" json:"quantity"`
	ProofGallons decimal.Decimal   `gorm:"type:decimal(14,3);not null" json:"proofGallons"`
	Unit         string            `gorm:"type:varchar(20)" json:"unit"`
	Reference    string            `gorm:"type:varchar(100);index" json:"reference"`
	Notes        string            `gorm:"type:text" json:"notes"`
	CreatedBy    string            `gorm:"type:varchar(255)" json:"createdBy"`
	CreatedAt    time.Time         `gorm:"index" json:"createdAt"`
}

// TableName keeps the ledger in the historical "transactions" table.
func (InventoryTransaction) TableName() string {
	return "transactions"
}
