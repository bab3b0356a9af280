package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

// Column order used when the sheet has no header row.
var defaultColumns = []string{"sku", "name", "unit", "category", "min_quantity", "unit_price", "quantity"}

var headerAliases = map[string]string{
	"sku":          "sku",
	"code":         "sku",
	"item code":    "sku",
	"name":         "name",
	"item":         "name",
	"item name":    "name",
	"description":  "name",
	"unit":         "unit",
	"uom":          "unit",
	"category":     "category",
	"min":          "min_quantity",
	"min qty":      "min_quantity",
	"min quantity": "min_quantity",
	"min_quantity": "min_quantity",
	"unit price":   "unit_price",
	"unit_price":   "unit_price",
	"price":        "unit_price",
	"qty":          "quantity",
	"quantity":     "quantity",
	"opening qty":  "quantity",
}

type importRow struct {
	Row         int
	SKU         string
	Name        string
	Unit        string
	Category    string
	MinQuantity decimal.Decimal
	UnitPrice   decimal.Decimal
	Quantity    decimal.Decimal
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Errors  []RowError `json:"errors"`
}

// columnsFor maps column positions to field names. The first row is a
// header when any of its cells is a known alias.
func columnsFor(first []string) (cols []string, header bool) {
	cols = make([]string, len(first))
	for i, cell := range first {
		if f, ok := headerAliases[strings.ToLower(strings.TrimSpace(cell))]; ok {
			cols[i] = f
			header = true
		}
	}
	if !header {
		return defaultColumns, false
	}
	return cols, true
}

// parseItemRows turns sheet rows into import rows. Row numbers are 1-based
// as shown in a spreadsheet.
func parseItemRows(rows [][]string) ([]importRow, []RowError) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols, header := columnsFor(rows[0])
	start := 0
	if header {
		start = 1
	}

	var out []importRow
	var errs []RowError
	seen := map[string]int{}
	for i := start; i < len(rows); i++ {
		vals := map[string]string{}
		empty := true
		for j, cell := range rows[i] {
			if j >= len(cols) || cols[j] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				empty = false
			}
			vals[cols[j]] = cell
		}
		if empty {
			continue
		}

		r := importRow{
			Row:      i + 1,
			SKU:      strings.ToUpper(vals["sku"]),
			Name:     vals["name"],
			Unit:     vals["unit"],
			Category: vals["category"],
		}
		if r.SKU == "" || r.Name == "" || r.Unit == "" {
			errs = append(errs, RowError{Row: r.Row, Message: "sku, name and unit are required"})
			continue
		}
		if prev, dup := seen[r.SKU]; dup {
			errs = append(errs, RowError{Row: r.Row, Message: fmt.Sprintf("sku %s repeats row %d", r.SKU, prev)})
			continue
		}

		var bad string
		for field, dst := range map[string]*decimal.Decimal{
			"min_quantity": &r.MinQuantity,
			"unit_price":   &r.UnitPrice,
			"quantity":     &r.Quantity,
		} {
			raw := strings.ReplaceAll(vals[field], ",", "")
			if raw == "" {
				continue
			}
			d, err := decimal.NewFromString(raw)
			if err != nil || d.IsNegative() {
				bad = field
				break
			}
			*dst = d
		}
		if bad != "" {
			errs = append(errs, RowError{Row: r.Row, Message: bad + " must be a non-negative number"})
			continue
		}
		seen[r.SKU] = r.Row
		out = append(out, r)
	}
	return out, errs
}

// applyImport creates unknown SKUs with their opening quantity and updates
// catalogue fields of known ones. Existing quantities are left alone.
func applyImport(tx *gorm.DB, warehouseID string, rows []importRow) (ImportResult, error) {
	res := ImportResult{Errors: []RowError{}}
	for _, r := range rows {
		var existing models.InventoryItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&existing, "sku = ?", r.SKU).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			it := models.InventoryItem{
				ID:          models.NewID(),
				Name:        r.Name,
				SKU:         r.SKU,
				Category:    r.Category,
				Unit:        r.Unit,
				Quantity:    r.Quantity,
				MinQuantity: r.MinQuantity,
				UnitPrice:   r.UnitPrice,
				WarehouseID: warehouseID,
			}
			if err := tx.Create(&it).Error; err != nil {
				return res, err
			}
			res.Created++
		case err != nil:
			return res, err
		case existing.WarehouseID != warehouseID:
			res.Errors = append(res.Errors, RowError{Row: r.Row, Message: "sku " + r.SKU + " belongs to another warehouse"})
		default:
			err := tx.Model(&existing).Updates(map[string]any{
				"name":         r.Name,
				"unit":         r.Unit,
				"category":     r.Category,
				"min_quantity": r.MinQuantity,
				"unit_price":   r.UnitPrice,
			}).Error
			if err != nil {
				return res, err
			}
			res.Updated++
		}
	}
	return res, nil
}

// POST /api/inventory/import (multipart: file, warehouse_id)
func ImportItemsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		warehouseID := c.FormValue("warehouse_id")
		if warehouseID == "" {
			return apperr.Field("warehouse_id", "is required")
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return apperr.Field("file", "is required")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return apperr.Field("file", "must be an .xlsx workbook")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return apperr.Internal("could not open upload", err)
		}
		defer file.Close()

		book, err := excelize.OpenReader(file)
		if err != nil {
			return apperr.Field("file", "is not a readable workbook")
		}
		defer book.Close()

		sheets := book.GetSheetList()
		if len(sheets) == 0 {
			return apperr.Field("file", "has no sheets")
		}
		rows, err := book.GetRows(sheets[0])
		if err != nil {
			return apperr.Field("file", "first sheet could not be read")
		}

		parsed, rowErrs := parseItemRows(rows)
		if len(parsed) == 0 && len(rowErrs) == 0 {
			return apperr.Field("file", "contains no items")
		}

		var res ImportResult
		err = db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			var wh models.Warehouse
			if err := tx.First(&wh, "id = ?", warehouseID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("warehouse %s not found", warehouseID)
				}
				return err
			}
			applied, err := applyImport(tx, warehouseID, parsed)
			res = applied
			return err
		})
		if err != nil {
			if !apperr.Is(err, apperr.KindInternal) {
				return err
			}
			return apperr.Internal("import failed", err)
		}
		res.Errors = append(append([]RowError{}, rowErrs...), res.Errors...)
		return c.JSON(res)
	}
}
