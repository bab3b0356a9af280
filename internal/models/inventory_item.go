package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Below this ratio of quantity to min_quantity, low stock is reported as critical.
var criticalStockRatio = decimal.NewFromFloat(0.3)

type StockSeverity string

const (
	StockOK       StockSeverity = "ok"
	StockLow      StockSeverity = "low"
	StockCritical StockSeverity = "critical"
)

type InventoryItem struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"size:150;not null" json:"name"`
	SKU         string          `gorm:"size:50;uniqueIndex;not null" json:"sku"`
	Category    string          `gorm:"size:60;index" json:"category"`
	Unit        string          `gorm:"size:20;not null" json:"unit"`
	Quantity    decimal.Decimal `gorm:"type:numeric(18,3);not null;default:0;check:quantity >= 0" json:"quantity"`
	MinQuantity decimal.Decimal `gorm:"type:numeric(18,3);not null;default:0" json:"min_quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"unit_price"`
	WarehouseID string          `gorm:"type:uuid;index;not null" json:"warehouse_id"`
	Warehouse   *Warehouse      `json:"warehouse,omitempty"`
	SupplierID  *string         `gorm:"type:uuid;index" json:"supplier_id"`
	Supplier    *Supplier       `json:"supplier,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (i InventoryItem) IsLowStock() bool {
	return i.Quantity.LessThan(i.MinQuantity)
}

func (i InventoryItem) StockSeverity() StockSeverity {
	if !i.IsLowStock() {
		return StockOK
	}
	if i.MinQuantity.IsPositive() && i.Quantity.Div(i.MinQuantity).LessThan(criticalStockRatio) {
		return StockCritical
	}
	return StockLow
}
