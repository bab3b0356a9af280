package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Project struct {
	ID        string        `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string        `gorm:"size:150;not null" json:"name"`
	Code      string        `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Client    string        `gorm:"size:150" json:"client"`
	Location  string        `gorm:"size:150" json:"location"`
	Status    ProjectStatus `gorm:"size:20;not null;default:active" json:"status"`
	StartDate *time.Time    `gorm:"type:date" json:"start_date"`
	EndDate   *time.Time    `gorm:"type:date" json:"end_date"`
	CreatedBy string        `gorm:"size:64" json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Warehouse.CurrentStock is maintained by whoever mutates inventory in bulk;
// voucher approvals only touch InventoryItem quantities.
type Warehouse struct {
	ID           string           `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string           `gorm:"size:150;not null" json:"name"`
	Code         string           `gorm:"size:30;uniqueIndex" json:"code"`
	Location     string           `gorm:"size:150" json:"location"`
	Capacity     *decimal.Decimal `gorm:"type:numeric(18,3)" json:"capacity"`
	CurrentStock decimal.Decimal  `gorm:"type:numeric(18,3);not null;default:0" json:"current_stock"`
	ManagerID    *string          `gorm:"size:64" json:"manager_id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type Supplier struct {
	ID           string           `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string           `gorm:"size:150;not null" json:"name"`
	Code         string           `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Category     SupplierCategory `gorm:"size:20;not null" json:"category"`
	Status       SupplierStatus   `gorm:"size:20;not null;default:active" json:"status"`
	City         string           `gorm:"size:100" json:"city"`
	ContactName  string           `gorm:"size:100" json:"contact_name"`
	ContactPhone string           `gorm:"size:40" json:"contact_phone"`
	ContactEmail string           `gorm:"size:100" json:"contact_email"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
