package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
)

func mrrv(number string, status models.Status) *models.MRRV {
	return &models.MRRV{
		VoucherHeader: models.VoucherHeader{ID: models.NewID(), FormNumber: number, Status: status},
		WarehouseID:   "w1",
		Lines: []models.VoucherLine{
			{ID: models.NewID(), Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(3)},
		},
	}
}

func TestAdjustInventory(t *testing.T) {
	ctx := context.Background()
	s := New()
	it := s.PutInventoryItem(models.InventoryItem{SKU: "A", Quantity: decimal.NewFromInt(5)})

	require.NoError(t, s.AdjustInventory(ctx, it.ID, decimal.NewFromInt(-5)))
	err := s.AdjustInventory(ctx, it.ID, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.ErrorIs(t, s.AdjustInventory(ctx, "missing", decimal.NewFromInt(1)), repository.ErrNotFound)

	got, err := s.GetInventoryItem(ctx, it.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.IsZero())
}

func TestWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := s.PutInventoryItem(models.InventoryItem{SKU: "A", Quantity: decimal.NewFromInt(10)})
	b := s.PutInventoryItem(models.InventoryItem{SKU: "B", Quantity: decimal.NewFromInt(1)})

	err := s.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.AdjustInventory(ctx, a.ID, decimal.NewFromInt(-4)); err != nil {
			return err
		}
		require.NoError(t, tx.CreateMRRV(ctx, mrrv("MRRV-202601-001", models.StatusDraft)))
		return tx.AdjustInventory(ctx, b.ID, decimal.NewFromInt(-2))
	})
	require.ErrorIs(t, err, repository.ErrInsufficientStock)

	got, _ := s.GetInventoryItem(ctx, a.ID)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(10)))
	list, _ := s.ListMRRVs(ctx, repository.ListFilter{})
	assert.Empty(t, list)

	// the number is free again after rollback
	assert.NoError(t, s.CreateMRRV(ctx, mrrv("MRRV-202601-001", models.StatusDraft)))
}

func TestWithinTxNested(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.WithinTx(ctx, func(inner repository.Store) error {
			return inner.CreateMRRV(ctx, mrrv("MRRV-202601-002", models.StatusDraft))
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)
	list, _ := s.ListMRRVs(ctx, repository.ListFilter{})
	assert.Empty(t, list)
}

func TestDuplicateNumber(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateMRRV(ctx, mrrv("MRRV-202601-003", models.StatusDraft)))
	err := s.CreateMRRV(ctx, mrrv("MRRV-202601-003", models.StatusDraft))
	assert.ErrorIs(t, err, repository.ErrDuplicateNumber)
}

func TestConditionalUpdate(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := mrrv("MRRV-202601-004", models.StatusPendingApproval)
	require.NoError(t, s.CreateMRRV(ctx, m))

	first, _ := s.GetMRRV(ctx, m.ID)
	second, _ := s.GetMRRV(ctx, m.ID)

	first.Status = models.StatusApproved
	require.NoError(t, s.UpdateMRRV(ctx, first, models.StatusPendingApproval))

	second.Status = models.StatusRejected
	err := s.UpdateMRRV(ctx, second, models.StatusPendingApproval)
	assert.ErrorIs(t, err, repository.ErrStatusConflict)

	got, err := s.GetMRRV(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Lines[0].LineTotal.Equal(decimal.NewFromInt(6)))
}

func TestGetReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	m := mrrv("MRRV-202601-005", models.StatusDraft)
	require.NoError(t, s.CreateMRRV(ctx, m))

	got, _ := s.GetMRRV(ctx, m.ID)
	got.Lines[0].Quantity = decimal.NewFromInt(99)

	again, _ := s.GetMRRV(ctx, m.ID)
	assert.True(t, again.Lines[0].Quantity.Equal(decimal.NewFromInt(2)))
}

func TestListFilterAndPage(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateMRRV(ctx, mrrv("MRRV-202601-010", models.StatusDraft)))
	require.NoError(t, s.CreateMRRV(ctx, mrrv("MRRV-202601-011", models.StatusApproved)))
	require.NoError(t, s.CreateMRRV(ctx, mrrv("MRRV-202601-012", models.StatusDraft)))

	drafts, err := s.ListMRRVs(ctx, repository.ListFilter{Status: models.StatusDraft})
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "MRRV-202601-012", drafts[0].FormNumber)

	byNumber, _ := s.ListMRRVs(ctx, repository.ListFilter{Number: "011"})
	require.Len(t, byNumber, 1)

	paged, _ := s.ListMRRVs(ctx, repository.ListFilter{Limit: 1, Offset: 1})
	require.Len(t, paged, 1)
	assert.Equal(t, "MRRV-202601-011", paged[0].FormNumber)

	empty, _ := s.ListMRRVs(ctx, repository.ListFilter{Offset: 10})
	assert.Empty(t, empty)
}

func TestGatePassOnePerMIRV(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateGatePass(ctx, &models.GatePass{ID: models.NewID(), PassNumber: "GP-202601-001", MIRVID: "m1"}))
	err := s.CreateGatePass(ctx, &models.GatePass{ID: models.NewID(), PassNumber: "GP-202601-002", MIRVID: "m1"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NotErrorIs(t, err, repository.ErrDuplicateNumber)

	gp, err := s.GetGatePassByMIRV(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "GP-202601-001", gp.PassNumber)
	_, err = s.GetGatePassByMIRV(ctx, "m2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
