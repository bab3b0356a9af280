package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/lineitems"
)

// Voucher type discriminators stored on voucher_lines.
const (
	VoucherMRRV = "mrrv"
	VoucherMIRV = "mirv"
	VoucherMRV  = "mrv"
	VoucherRFIM = "rfim"
)

// VoucherHeader is the part every voucher shares.
type VoucherHeader struct {
	ID           string          `gorm:"type:uuid;primaryKey" json:"id"`
	FormNumber   string          `gorm:"size:20;uniqueIndex;not null" json:"form_number"`
	Status       Status          `gorm:"size:30;index;not null" json:"status"`
	DocumentDate time.Time       `gorm:"type:date;not null" json:"document_date"`
	JobOrderID   *string         `gorm:"type:uuid;index" json:"job_order_id"`
	Notes        string          `gorm:"type:text" json:"notes"`
	TotalValue   decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"total_value"`
	CreatedBy    string          `gorm:"size:64;not null" json:"created_by"`
	ApprovedBy   *string         `gorm:"size:64" json:"approved_by"`
	ApprovedAt   *time.Time      `json:"approved_at"`
	RejectReason string          `gorm:"size:255" json:"reject_reason"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (h VoucherHeader) RecordID() string      { return h.ID }
func (h VoucherHeader) CurrentStatus() Status { return h.Status }
func (h VoucherHeader) Number() string        { return h.FormNumber }

// VoucherLine is one ordered line of any voucher. LineTotal is derived from
// quantity and unit price and is never persisted.
type VoucherLine struct {
	ID           string           `gorm:"type:uuid;primaryKey" json:"id"`
	VoucherID    string           `gorm:"type:uuid;index:idx_voucher_lines_owner;not null" json:"-"`
	VoucherType  string           `gorm:"size:10;index:idx_voucher_lines_owner;not null" json:"-"`
	Position     int              `gorm:"not null" json:"position"`
	ItemID       *string          `gorm:"type:uuid;index" json:"item_id"`
	ItemCode     string           `gorm:"size:50" json:"item_code"`
	Description  string           `gorm:"size:255" json:"description"`
	Unit         string           `gorm:"size:20" json:"unit"`
	Quantity     decimal.Decimal  `gorm:"type:numeric(18,3);not null" json:"quantity"`
	UnitPrice    decimal.Decimal  `gorm:"type:numeric(18,2);not null;default:0" json:"unit_price"`
	AvailableQty *decimal.Decimal `gorm:"type:numeric(18,3)" json:"available_qty,omitempty"`
	LineTotal    decimal.Decimal  `gorm:"-" json:"line_total"`
	CreatedAt    time.Time        `json:"-"`
}

func (l *VoucherLine) AfterFind(tx *gorm.DB) error {
	l.LineTotal = lineitems.Total(l.Quantity, l.UnitPrice)
	return nil
}

// TotalOf sums the line totals, refreshing each derived LineTotal.
func TotalOf(lines []VoucherLine) decimal.Decimal {
	sum := decimal.Zero
	for i := range lines {
		lines[i].LineTotal = lineitems.Total(lines[i].Quantity, lines[i].UnitPrice)
		sum = sum.Add(lines[i].LineTotal)
	}
	return sum
}

// MRRV is a Material Receipt Report Voucher.
type MRRV struct {
	VoucherHeader
	SupplierID   string        `gorm:"type:uuid;index;not null" json:"supplier_id"`
	WarehouseID  string        `gorm:"type:uuid;index;not null" json:"warehouse_id"`
	PONumber     string        `gorm:"size:50" json:"po_number"`
	DeliveryNote string        `gorm:"size:50" json:"delivery_note"`
	ReceivedBy   string        `gorm:"size:64" json:"received_by"`
	RFIMRequired bool          `gorm:"not null;default:false" json:"rfim_required"`
	RFIMCreated  bool          `gorm:"not null;default:false" json:"rfim_created"`
	Lines        []VoucherLine `gorm:"polymorphic:Voucher;polymorphicValue:mrrv" json:"lines"`
}

func (MRRV) TableName() string { return "mrrvs" }

// MIRV is a Material Issue Request Voucher.
type MIRV struct {
	VoucherHeader
	ProjectID       string        `gorm:"type:uuid;index;not null" json:"project_id"`
	ProjectName     string        `gorm:"size:150" json:"project_name"`
	WarehouseID     string        `gorm:"type:uuid;index;not null" json:"warehouse_id"`
	RequestedBy     string        `gorm:"size:64" json:"requested_by"`
	ApprovalLevel   ApprovalLevel `gorm:"size:40" json:"approval_level"`
	GatePassCreated bool          `gorm:"not null;default:false" json:"gate_pass_created"`
	Lines           []VoucherLine `gorm:"polymorphic:Voucher;polymorphicValue:mirv" json:"lines"`
}

func (MIRV) TableName() string { return "mirvs" }

// MRV is a Material Return Voucher.
type MRV struct {
	VoucherHeader
	ReturnType  ReturnType    `gorm:"size:30;not null" json:"return_type"`
	ProjectID   string        `gorm:"type:uuid;index;not null" json:"project_id"`
	ProjectName string        `gorm:"size:150" json:"project_name"`
	WarehouseID string        `gorm:"type:uuid;index;not null" json:"warehouse_id"`
	Reason      string        `gorm:"type:text" json:"reason"`
	Lines       []VoucherLine `gorm:"polymorphic:Voucher;polymorphicValue:mrv" json:"lines"`
}

func (MRV) TableName() string { return "mrvs" }

// RFIM is a Request for Inspection of Material raised against one MRRV.
type RFIM struct {
	VoucherHeader
	MRRVID         string             `gorm:"type:uuid;index;not null" json:"mrrv_id"`
	InspectionType InspectionType     `gorm:"size:20;not null" json:"inspection_type"`
	Priority       InspectionPriority `gorm:"size:20;not null" json:"priority"`
	InspectorID    *string            `gorm:"size:64" json:"inspector_id"`
	ResultNotes    string             `gorm:"type:text" json:"result_notes"`
	InspectedAt    *time.Time         `json:"inspected_at"`
	Lines          []VoucherLine      `gorm:"polymorphic:Voucher;polymorphicValue:rfim" json:"lines"`
}

func (RFIM) TableName() string { return "rfims" }

// GatePass authorizes material on an approved MIRV to leave site. One per MIRV.
type GatePass struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	PassNumber    string    `gorm:"size:20;uniqueIndex;not null" json:"pass_number"`
	MIRVID        string    `gorm:"type:uuid;uniqueIndex;not null" json:"mirv_id"`
	VehicleNumber string    `gorm:"size:30" json:"vehicle_number"`
	DriverName    string    `gorm:"size:100" json:"driver_name"`
	Destination   string    `gorm:"size:150" json:"destination"`
	IssuedBy      string    `gorm:"size:64;not null" json:"issued_by"`
	IssuedAt      time.Time `json:"issued_at"`
}

func (g GatePass) Number() string { return g.PassNumber }

// OSDReport records an over/short/damage discrepancy on a receipt.
type OSDReport struct {
	ID             string          `gorm:"type:uuid;primaryKey" json:"id"`
	FormNumber     string          `gorm:"size:20;uniqueIndex;not null" json:"form_number"`
	MRRVID         string          `gorm:"type:uuid;index;not null" json:"mrrv_id"`
	RFIMID         *string         `gorm:"type:uuid;index" json:"rfim_id"`
	ReportType     OSDType         `gorm:"size:10;not null" json:"report_type"`
	QtyAffected    decimal.Decimal `gorm:"type:numeric(18,3);not null" json:"qty_affected"`
	Description    string          `gorm:"type:text" json:"description"`
	ActionRequired OSDAction       `gorm:"size:10;not null" json:"action_required"`
	Status         Status          `gorm:"size:20;not null" json:"status"`
	CreatedBy      string          `gorm:"size:64;not null" json:"created_by"`
	ResolvedBy     *string         `gorm:"size:64" json:"resolved_by"`
	ResolvedAt     *time.Time      `json:"resolved_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (o OSDReport) RecordID() string      { return o.ID }
func (o OSDReport) CurrentStatus() Status { return o.Status }
func (o OSDReport) Number() string        { return o.FormNumber }

// ScrapEntry is the write-off ledger for damaged returns; these quantities
// never go back to usable inventory.
type ScrapEntry struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	MRVID       string          `gorm:"type:uuid;index;not null" json:"mrv_id"`
	ItemID      string          `gorm:"type:uuid;index;not null" json:"item_id"`
	WarehouseID string          `gorm:"type:uuid;index;not null" json:"warehouse_id"`
	Quantity    decimal.Decimal `gorm:"type:numeric(18,3);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"unit_price"`
	Reason      string          `gorm:"type:text" json:"reason"`
	CreatedBy   string          `gorm:"size:64" json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Attachment references an uploaded file; the bytes live elsewhere.
type Attachment struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerType  string    `gorm:"size:20;index:idx_attachments_owner;not null" json:"owner_type"`
	OwnerID    string    `gorm:"type:uuid;index:idx_attachments_owner;not null" json:"owner_id"`
	Name       string    `gorm:"size:255" json:"name"`
	URL        string    `gorm:"size:1024;not null" json:"url"`
	UploadedBy string    `gorm:"size:64" json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}
