package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStockSeverity(t *testing.T) {
	cases := []struct {
		qty, min int64
		want     StockSeverity
	}{
		{10, 10, StockOK},
		{11, 10, StockOK},
		{9, 10, StockLow},
		{3, 10, StockLow},
		{2, 10, StockCritical},
		{0, 10, StockCritical},
		{0, 0, StockOK},
	}
	for _, tc := range cases {
		it := InventoryItem{Quantity: decimal.NewFromInt(tc.qty), MinQuantity: decimal.NewFromInt(tc.min)}
		assert.Equal(t, tc.want, it.StockSeverity(), "%d/%d", tc.qty, tc.min)
		assert.Equal(t, tc.want != StockOK, it.IsLowStock())
	}
}

func TestTotalOf(t *testing.T) {
	lines := []VoucherLine{
		{Quantity: decimal.NewFromInt(10), UnitPrice: decimal.RequireFromString("12.5")},
		{Quantity: decimal.RequireFromString("0.5"), UnitPrice: decimal.NewFromInt(3)},
	}
	assert.True(t, decimal.RequireFromString("126.5").Equal(TotalOf(lines)))
	assert.True(t, decimal.RequireFromString("1.5").Equal(lines[1].LineTotal))
	assert.True(t, TotalOf(nil).IsZero())
}

func TestStrPtr(t *testing.T) {
	assert.Nil(t, StrPtr(""))
	assert.Equal(t, "x", StrVal(StrPtr("x")))
	assert.Equal(t, "", StrVal(nil))
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleWarehouse, RoleTransport, RoleEngineer} {
		assert.True(t, r.Valid())
	}
	assert.False(t, Role("super_admin").Valid())
}
