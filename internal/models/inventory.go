// internal/models/inventory.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is one stocked product owned by an account (a manager's namespace,
// shared with its staff). Total is derived and must equal Quantity * Price after
// every accepted mutation.
type InventoryItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	AccountID   uuid.UUID       `json:"account_id" gorm:"type:uuid;not null;index"`
	ProductName string          `json:"productName" gorm:"size:255;not null"`
	SKU         string          `json:"SKU" gorm:"size:100;not null"`
	Barcode     string          `json:"barcode" gorm:"size:100;not null"`
	Brand       string          `json:"brand" gorm:"size:100;not null"`
	Category    string          `json:"category" gorm:"size:100;not null;index"`
	Quantity    int             `json:"quantity" gorm:"not null;default:0"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Total       decimal.Decimal `json:"total" gorm:"type:decimal(14,2);not null"`
	ImageURL    string          `json:"image,omitempty" gorm:"size:512"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ComputeTotal derives the monetary total for a quantity at a unit price.
func ComputeTotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// StatusForQuantityChange tags a pure stock movement by the sign of its delta.
// Callers must reject prev == next before logging; an unchanged quantity never
// reaches the ledger.
func StatusForQuantityChange(prev, next int) StockStatus {
	if next > prev {
		return StockStatusIncrease
	}
	return StockStatusDecrease
}

// StatusForFieldUpdate tags a field-level update: a price change with the
// quantity untouched is a price update, anything else is an info update.
func StatusForFieldUpdate(prevPrice, newPrice decimal.Decimal, prevQty, newQty int) StockStatus {
	if !newPrice.Equal(prevPrice) && newQty == prevQty {
		return StockStatusPriceUpdate
	}
	return StockStatusUpdateInfo
}

// StockChangeLog is the per-item half of the ledger: one immutable row per accepted
// mutation. ItemID is nullable so history survives item deletion.
type StockChangeLog struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	AccountID     uuid.UUID       `json:"account_id" gorm:"type:uuid;not null;index"`
	ItemID        *uint           `json:"item_id" gorm:"index"`
	ProductName   string          `json:"productName" gorm:"size:255;not null"`
	Status        StockStatus     `json:"stock_status" gorm:"type:varchar(20);not null"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Total         decimal.Decimal `json:"total" gorm:"type:decimal(14,2);not null"`
	PreviousTotal decimal.Decimal `json:"previous_total" gorm:"type:decimal(14,2);not null"`
	ActorEmail    string          `json:"actor_email" gorm:"size:255;not null"`
	CreatedAt     time.Time       `json:"created_at"`
}

// AccountTotalsSnapshot is the per-account half of the ledger: account-wide stock
// count and monetary total before and after a single mutation, plus the unit price
// of the item that changed.
type AccountTotalsSnapshot struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	AccountID   uuid.UUID       `json:"account_id" gorm:"type:uuid;not null;index"`
	StockBefore int             `json:"beforestock" gorm:"not null"`
	StockAfter  int             `json:"latestStock" gorm:"not null"`
	TotalBefore decimal.Decimal `json:"beforetotal" gorm:"type:decimal(14,2);not null"`
	TotalAfter  decimal.Decimal `json:"latestTotal" gorm:"type:decimal(14,2);not null"`
	PriceBefore decimal.Decimal `json:"price_before" gorm:"type:decimal(12,2);not null"`
	PriceAfter  decimal.Decimal `json:"price_after" gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AccountTotals is the single running-totals row per account, updated atomically
// inside the same transaction as the item mutation. It replaces full-table
// re-aggregation so two concurrent mutations can never read overlapping
// before/after windows.
type AccountTotals struct {
	AccountID uuid.UUID       `json:"account_id" gorm:"type:uuid;primaryKey"`
	Stock     int             `json:"stock" gorm:"not null;default:0"`
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(14,2);not null;default:0"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DisposalRecord freezes an item's fields at deletion time. Never mutated.
type DisposalRecord struct {
	BaseModel
	AccountID   uuid.UUID       `json:"account_id" gorm:"type:uuid;not null;index"`
	ItemID      uint            `json:"item_id" gorm:"not null"`
	ProductName string          `json:"productName" gorm:"size:255;not null"`
	SKU         string          `json:"SKU" gorm:"size:100"`
	Barcode     string          `json:"barcode" gorm:"size:100"`
	Brand       string          `json:"brand" gorm:"size:100"`
	Category    string          `json:"category" gorm:"size:100"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Total       decimal.Decimal `json:"total" gorm:"type:decimal(14,2);not null"`
	ImageURL    string          `json:"image,omitempty" gorm:"size:512"`
	ActorEmail  string          `json:"actor_email" gorm:"size:255;not null"`
}
