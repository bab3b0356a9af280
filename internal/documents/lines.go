package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/lineitems"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
)

// Approval thresholds on the MIRV total value.
var (
	storekeeperLimit      = decimal.NewFromInt(10_000)
	logisticsManagerLimit = decimal.NewFromInt(50_000)
)

func ApprovalLevelFor(total decimal.Decimal) models.ApprovalLevel {
	switch {
	case total.LessThan(storekeeperLimit):
		return models.ApprovalLevelStorekeeper
	case total.LessThan(logisticsManagerLimit):
		return models.ApprovalLevelLogisticsManager
	}
	return models.ApprovalLevelDepartmentHead
}

type LineInput struct {
	ItemID      string          `json:"item_id" validate:"required,uuid"`
	ItemCode    string          `json:"item_code" validate:"max=50"`
	Description string          `json:"description" validate:"max=255"`
	Unit        string          `json:"unit" validate:"max=20"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// priceSource says where line unit prices come from.
type priceSource int

const (
	priceFromInput priceSource = iota
	// priceFromInventory also snapshots the available quantity on each line.
	priceFromInventory
)

// buildLines resolves every input line against inventory in warehouseID and
// returns the recomputed sheet. Quantities are clamped like the entry form
// does, then must be positive.
func buildLines(ctx context.Context, tx repository.Store, warehouseID string, in []LineInput, prices priceSource) (*lineitems.Sheet, error) {
	if len(in) == 0 {
		return nil, apperr.Field("lines", "must contain at least one line")
	}
	drafts := make([]lineitems.Line, 0, len(in))
	snaps := make([]lineitems.Snapshot, 0, len(in))
	fields := map[string]string{}
	for i, li := range in {
		item, err := tx.GetInventoryItem(ctx, li.ItemID)
		if err != nil {
			return nil, notFound(err, "inventory item", li.ItemID)
		}
		if item.WarehouseID != warehouseID {
			fields[fmt.Sprintf("lines[%d].item_id", i)] = "is not stocked in this warehouse"
		}
		qty := lineitems.Clamp(li.Quantity)
		if !qty.IsPositive() {
			fields[fmt.Sprintf("lines[%d].quantity", i)] = "must be greater than zero"
		}
		drafts = append(drafts, lineitems.Line{
			ID:          models.NewID(),
			ItemID:      item.ID,
			ItemCode:    orDefault(li.ItemCode, item.SKU),
			Description: orDefault(li.Description, item.Name),
			Unit:        orDefault(li.Unit, item.Unit),
			Quantity:    qty,
			UnitPrice:   li.UnitPrice,
		})
		snaps = append(snaps, lineitems.Snapshot{
			ItemID:    item.ID,
			Code:      item.SKU,
			Name:      item.Name,
			Unit:      item.Unit,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid lines", fields)
	}

	sheet := lineitems.FromLines(drafts)
	if prices == priceFromInventory {
		for i, l := range sheet.Lines() {
			if err := sheet.SelectItem(l.ID, snaps[i]); err != nil {
				return nil, err
			}
		}
	}
	return sheet, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func toVoucherLines(lines []lineitems.Line) []models.VoucherLine {
	out := make([]models.VoucherLine, len(lines))
	for i, l := range lines {
		out[i] = models.VoucherLine{
			ID:           l.ID,
			Position:     i + 1,
			ItemID:       models.StrPtr(l.ItemID),
			ItemCode:     l.ItemCode,
			Description:  l.Description,
			Unit:         l.Unit,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			AvailableQty: l.AvailableQty,
			LineTotal:    l.Total,
		}
	}
	return out
}

func copyLines(lines []models.VoucherLine) []models.VoucherLine {
	out := make([]models.VoucherLine, len(lines))
	for i, l := range lines {
		l.ID = models.NewID()
		l.VoucherID, l.VoucherType = "", ""
		l.AvailableQty = nil
		l.CreatedAt = time.Time{}
		out[i] = l
	}
	return out
}

// perItem sums line quantities by inventory item, in first-seen order.
func perItem(lines []models.VoucherLine) ([]string, map[string]decimal.Decimal) {
	var order []string
	sums := map[string]decimal.Decimal{}
	for _, l := range lines {
		id := models.StrVal(l.ItemID)
		if id == "" {
			continue
		}
		if _, ok := sums[id]; !ok {
			order = append(order, id)
		}
		sums[id] = sums[id].Add(l.Quantity)
	}
	return order, sums
}

func parseDate(field, v string, def time.Time) (time.Time, error) {
	if v == "" {
		return def, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, apperr.Field(field, "must be a date in YYYY-MM-DD form")
	}
	return t, nil
}

// PreviewInput is an unsaved line sheet plus the edits to apply to it.
type PreviewInput struct {
	Lines []lineitems.Line `json:"lines"`
	Edits []LineEdit       `json:"edits" validate:"dive"`
}

type LineEdit struct {
	LineID string          `json:"line_id"`
	Op     string          `json:"op" validate:"required,oneof=add remove update"`
	Field  lineitems.Field `json:"field"`
	Value  string          `json:"value"`
}

type Preview struct {
	Lines      []lineitems.Line     `json:"lines"`
	GrandTotal decimal.Decimal      `json:"grand_total"`
	Shortages  []lineitems.Shortage `json:"shortages"`
}

// PreviewLines applies edits to a line sheet the way the entry form does.
// Nothing is stored.
func PreviewLines(in PreviewInput) (*Preview, error) {
	if err := apperr.Validate(in); err != nil {
		return nil, err
	}
	sheet := lineitems.FromLines(in.Lines)
	for i, e := range in.Edits {
		switch e.Op {
		case "add":
			sheet.Add()
		case "remove":
			sheet.Remove(e.LineID)
		case "update":
			if err := sheet.Update(e.LineID, e.Field, e.Value); err != nil {
				return nil, apperr.Field(fmt.Sprintf("edits[%d]", i), err.Error())
			}
		}
	}
	shortages := sheet.Shortages()
	if shortages == nil {
		shortages = []lineitems.Shortage{}
	}
	return &Preview{Lines: sheet.Lines(), GrandTotal: sheet.GrandTotal(), Shortages: shortages}, nil
}
