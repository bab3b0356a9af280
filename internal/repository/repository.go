// Package repository defines the persistence contract of the document
// service. Every status change is a conditional write: it only applies when
// the stored status still equals the status the caller read.
package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateNumber   = errors.New("duplicate form number")
	ErrDuplicate         = errors.New("record already exists")
	ErrStatusConflict    = errors.New("status changed by another request")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ListFilter narrows document lists. Zero values mean no filter.
type ListFilter struct {
	Status      models.Status
	WarehouseID string
	ProjectID   string
	Number      string
	Limit       int
	Offset      int
}

const DefaultLimit = 50

func (f ListFilter) PageSize() int {
	if f.Limit <= 0 || f.Limit > 500 {
		return DefaultLimit
	}
	return f.Limit
}

type Store interface {
	// WithinTx runs fn atomically. Calls made through the Store handed to fn
	// are committed together or not at all. Nested calls join the outer
	// transaction.
	WithinTx(ctx context.Context, fn func(tx Store) error) error

	GetProject(ctx context.Context, id string) (*models.Project, error)
	GetWarehouse(ctx context.Context, id string) (*models.Warehouse, error)
	GetSupplier(ctx context.Context, id string) (*models.Supplier, error)
	GetInventoryItem(ctx context.Context, id string) (*models.InventoryItem, error)
	// AdjustInventory adds delta to the item quantity, failing with
	// ErrInsufficientStock if the result would be negative.
	AdjustInventory(ctx context.Context, itemID string, delta decimal.Decimal) error

	CreateMRRV(ctx context.Context, m *models.MRRV) error
	GetMRRV(ctx context.Context, id string) (*models.MRRV, error)
	UpdateMRRV(ctx context.Context, m *models.MRRV, expect models.Status) error
	ListMRRVs(ctx context.Context, f ListFilter) ([]models.MRRV, error)

	CreateMIRV(ctx context.Context, m *models.MIRV) error
	GetMIRV(ctx context.Context, id string) (*models.MIRV, error)
	UpdateMIRV(ctx context.Context, m *models.MIRV, expect models.Status) error
	ListMIRVs(ctx context.Context, f ListFilter) ([]models.MIRV, error)

	CreateMRV(ctx context.Context, m *models.MRV) error
	GetMRV(ctx context.Context, id string) (*models.MRV, error)
	UpdateMRV(ctx context.Context, m *models.MRV, expect models.Status) error
	ListMRVs(ctx context.Context, f ListFilter) ([]models.MRV, error)

	CreateRFIM(ctx context.Context, r *models.RFIM) error
	GetRFIM(ctx context.Context, id string) (*models.RFIM, error)
	UpdateRFIM(ctx context.Context, r *models.RFIM, expect models.Status) error
	ListRFIMs(ctx context.Context, f ListFilter) ([]models.RFIM, error)
	ListRFIMsByMRRV(ctx context.Context, mrrvID string) ([]models.RFIM, error)

	CreateGatePass(ctx context.Context, g *models.GatePass) error
	GetGatePassByMIRV(ctx context.Context, mirvID string) (*models.GatePass, error)

	CreateOSD(ctx context.Context, o *models.OSDReport) error
	GetOSD(ctx context.Context, id string) (*models.OSDReport, error)
	UpdateOSD(ctx context.Context, o *models.OSDReport, expect models.Status) error
	ListOSDs(ctx context.Context, mrrvID string) ([]models.OSDReport, error)

	CreateScrapEntry(ctx context.Context, e *models.ScrapEntry) error
	ListScrapEntries(ctx context.Context, mrvID string) ([]models.ScrapEntry, error)

	CreateJobOrder(ctx context.Context, j *models.JobOrder) error
	GetJobOrder(ctx context.Context, id string) (*models.JobOrder, error)
	UpdateJobOrder(ctx context.Context, j *models.JobOrder, expect models.Status) error
	ListJobOrders(ctx context.Context, f ListFilter) ([]models.JobOrder, error)

	RecordActivity(ctx context.Context, a *models.ActivityLog) error
	ListActivity(ctx context.Context, entityType, entityID string) ([]models.ActivityLog, error)

	AddAttachment(ctx context.Context, a *models.Attachment) error
	ListAttachments(ctx context.Context, ownerType, ownerID string) ([]models.Attachment, error)
}
