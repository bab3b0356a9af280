// Package gormstore implements repository.Store on PostgreSQL through gorm.
// The *gorm.DB must come from database.Open so unique violations keep the
// name of the violated index.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/database"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
)

type Store struct {
	db   *gorm.DB
	inTx bool
}

var _ repository.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, inTx: true})
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		if numberIndex(database.ConstraintOf(err)) {
			return repository.ErrDuplicateNumber
		}
		return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
	}
	return err
}

// numberIndex reports whether a unique index guards an allocated number.
// Only those collisions are retried with a fresh number.
func numberIndex(name string) bool {
	for _, col := range []string{"_form_number", "_pass_number", "_order_number"} {
		if strings.HasSuffix(name, col) {
			return true
		}
	}
	return false
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func first[T any](db *gorm.DB, id string, withLines bool) (*T, error) {
	var out T
	q := db
	if withLines {
		q = q.Preload("Lines", byPosition)
	}
	if err := q.First(&out, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// conditional applies cols only while the row still has status expect.
func conditional[T any](db *gorm.DB, id string, expect models.Status, cols map[string]any) error {
	cols["updated_at"] = time.Now()
	res := db.Model(new(T)).Where("id = ? AND status = ?", id, expect).Updates(cols)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrStatusConflict
	}
	return nil
}

type columns struct {
	warehouse bool
	project   bool
	number    string
}

func filtered(db *gorm.DB, f repository.ListFilter, c columns) *gorm.DB {
	q := db.Order("created_at DESC").Limit(f.PageSize()).Offset(f.Offset)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if c.warehouse && f.WarehouseID != "" {
		q = q.Where("warehouse_id = ?", f.WarehouseID)
	}
	if c.project && f.ProjectID != "" {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	if f.Number != "" {
		q = q.Where(c.number+" ILIKE ?", "%"+f.Number+"%")
	}
	return q
}

func headerColumns(h models.VoucherHeader) map[string]any {
	return map[string]any{
		"status":        h.Status,
		"total_value":   h.TotalValue,
		"notes":         h.Notes,
		"job_order_id":  h.JobOrderID,
		"approved_by":   h.ApprovedBy,
		"approved_at":   h.ApprovedAt,
		"reject_reason": h.RejectReason,
	}
}

func (s *Store) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return first[models.Project](s.conn(ctx), id, false)
}

func (s *Store) GetWarehouse(ctx context.Context, id string) (*models.Warehouse, error) {
	return first[models.Warehouse](s.conn(ctx), id, false)
}

func (s *Store) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	return first[models.Supplier](s.conn(ctx), id, false)
}

func (s *Store) GetInventoryItem(ctx context.Context, id string) (*models.InventoryItem, error) {
	return first[models.InventoryItem](s.conn(ctx), id, false)
}

// AdjustInventory is a single guarded UPDATE, so concurrent decrements can
// never take the quantity below zero.
func (s *Store) AdjustInventory(ctx context.Context, itemID string, delta decimal.Decimal) error {
	db := s.conn(ctx)
	res := db.Model(&models.InventoryItem{}).
		Where("id = ? AND quantity + ? >= 0", itemID, delta).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.Model(&models.InventoryItem{}).Where("id = ?", itemID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrInsufficientStock
	}
	return nil
}
