package gormstore

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/database"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
)

// Runs against a disposable Postgres:
// INTEGRATION_TESTS=1 DATABASE_DSN=... go test ./internal/repository/gormstore
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run postgres tests")
	}
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		t.Skip("DATABASE_DSN not set")
	}
	logger := logrus.New()
	db, err := database.Open(dsn, logger)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, logger))
	return db
}

func seedItem(t *testing.T, db *gorm.DB, qty int64) *models.InventoryItem {
	t.Helper()
	w := &models.Warehouse{ID: models.NewID(), Name: "Main", Code: "W-" + models.NewID()[:8]}
	require.NoError(t, db.Create(w).Error)
	it := &models.InventoryItem{
		ID:          models.NewID(),
		Name:        "Cable",
		SKU:         "SKU-" + models.NewID()[:8],
		Unit:        "m",
		Quantity:    decimal.NewFromInt(qty),
		WarehouseID: w.ID,
	}
	require.NoError(t, db.Create(it).Error)
	return it
}

func TestAdjustInventoryGuard(t *testing.T) {
	db := openTestDB(t)
	s := New(db)
	ctx := context.Background()
	it := seedItem(t, db, 3)

	require.NoError(t, s.AdjustInventory(ctx, it.ID, decimal.NewFromInt(-3)))
	assert.ErrorIs(t, s.AdjustInventory(ctx, it.ID, decimal.NewFromInt(-1)), repository.ErrInsufficientStock)
	assert.ErrorIs(t, s.AdjustInventory(ctx, models.NewID(), decimal.NewFromInt(1)), repository.ErrNotFound)
}

func TestVoucherRoundTrip(t *testing.T) {
	db := openTestDB(t)
	s := New(db)
	ctx := context.Background()
	it := seedItem(t, db, 0)

	number := "MRRV-209901-" + models.NewID()[:3]
	m := &models.MRRV{
		VoucherHeader: models.VoucherHeader{
			ID: models.NewID(), FormNumber: number, Status: models.StatusPendingApproval, CreatedBy: "u1",
		},
		SupplierID:  models.NewID(),
		WarehouseID: it.WarehouseID,
		Lines: []models.VoucherLine{
			{ID: models.NewID(), Position: 2, ItemID: &it.ID, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(4)},
			{ID: models.NewID(), Position: 1, ItemID: &it.ID, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(5)},
		},
	}
	require.NoError(t, s.CreateMRRV(ctx, m))

	dup := *m
	dup.ID = models.NewID()
	dup.Lines = nil
	assert.ErrorIs(t, s.CreateMRRV(ctx, &dup), repository.ErrDuplicateNumber)

	got, err := s.GetMRRV(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, 1, got.Lines[0].Position)
	assert.True(t, got.Lines[0].LineTotal.Equal(decimal.NewFromInt(50)))

	got.Status = models.StatusApproved
	require.NoError(t, s.UpdateMRRV(ctx, got, models.StatusPendingApproval))
	assert.ErrorIs(t, s.UpdateMRRV(ctx, got, models.StatusPendingApproval), repository.ErrStatusConflict)
}

func TestWithinTxRollback(t *testing.T) {
	db := openTestDB(t)
	s := New(db)
	ctx := context.Background()
	a := seedItem(t, db, 10)
	b := seedItem(t, db, 1)

	err := s.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.AdjustInventory(ctx, a.ID, decimal.NewFromInt(-5)); err != nil {
			return err
		}
		return tx.AdjustInventory(ctx, b.ID, decimal.NewFromInt(-5))
	})
	require.ErrorIs(t, err, repository.ErrInsufficientStock)

	got, err := s.GetInventoryItem(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(10)))
}

func TestTranslateUniqueViolations(t *testing.T) {
	dup := func(index string) error {
		return &database.UniqueViolation{Constraint: index, Err: errors.New("23505")}
	}
	for _, index := range []string{"idx_mrrvs_form_number", "idx_gate_passes_pass_number", "idx_job_orders_order_number"} {
		assert.ErrorIs(t, translate(dup(index)), repository.ErrDuplicateNumber, index)
	}

	err := translate(dup("idx_gate_passes_mirv_id"))
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NotErrorIs(t, err, repository.ErrDuplicateNumber)
	assert.NotErrorIs(t, translate(dup("idx_inventory_items_sku")), repository.ErrDuplicateNumber)

	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), repository.ErrNotFound)
	assert.NoError(t, translate(nil))
}
