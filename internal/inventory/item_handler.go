// Package inventory serves the stock catalogue. Quantities change only
// through approved vouchers; these handlers edit everything else.
package inventory

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

type ItemResponse struct {
	models.InventoryItem
	LowStock bool                 `json:"low_stock"`
	Severity models.StockSeverity `json:"severity"`
}

func toResponse(it models.InventoryItem) ItemResponse {
	return ItemResponse{InventoryItem: it, LowStock: it.IsLowStock(), Severity: it.StockSeverity()}
}

type CreateItemRequest struct {
	Name        string          `json:"name" validate:"required,max=150"`
	SKU         string          `json:"sku" validate:"required,max=50"`
	Category    string          `json:"category" validate:"max=60"`
	Unit        string          `json:"unit" validate:"required,max=20"`
	WarehouseID string          `json:"warehouse_id" validate:"required,uuid"`
	SupplierID  string          `json:"supplier_id" validate:"omitempty,uuid"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	// Quantity is the opening balance.
	Quantity decimal.Decimal `json:"quantity"`
}

// UpdateItemRequest has no quantity: stock moves only through vouchers.
type UpdateItemRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=150"`
	Category    *string          `json:"category" validate:"omitempty,max=60"`
	Unit        *string          `json:"unit" validate:"omitempty,max=20"`
	SupplierID  *string          `json:"supplier_id" validate:"omitempty,uuid"`
	MinQuantity *decimal.Decimal `json:"min_quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

func (r CreateItemRequest) validate() error {
	if err := apperr.Validate(r); err != nil {
		return err
	}
	return nonNegative(map[string]decimal.Decimal{
		"quantity":     r.Quantity,
		"min_quantity": r.MinQuantity,
		"unit_price":   r.UnitPrice,
	})
}

func (r UpdateItemRequest) validate() error {
	if err := apperr.Validate(r); err != nil {
		return err
	}
	vals := map[string]decimal.Decimal{}
	if r.MinQuantity != nil {
		vals["min_quantity"] = *r.MinQuantity
	}
	if r.UnitPrice != nil {
		vals["unit_price"] = *r.UnitPrice
	}
	return nonNegative(vals)
}

func nonNegative(vals map[string]decimal.Decimal) error {
	fields := map[string]string{}
	for k, v := range vals {
		if v.IsNegative() {
			fields[k] = "must not be negative"
		}
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid fields", fields)
	}
	return nil
}

func itemQuery(db *gorm.DB, c *fiber.Ctx) *gorm.DB {
	q := db.WithContext(c.UserContext()).Model(&models.InventoryItem{})
	if wh := c.Query("warehouse_id"); wh != "" {
		q = q.Where("warehouse_id = ?", wh)
	}
	if cat := c.Query("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}
	if term := strings.TrimSpace(c.Query("q")); term != "" {
		like := "%" + term + "%"
		q = q.Where("name ILIKE ? OR sku ILIKE ?", like, like)
	}
	return q
}

// GET /api/inventory?warehouse_id=&category=&q=&low_stock=true
func ListItemsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := itemQuery(db, c)
		if c.QueryBool("low_stock") {
			q = q.Where("quantity < min_quantity")
		}
		var items []models.InventoryItem
		if err := q.Order("name asc").Limit(c.QueryInt("limit", 200)).Offset(c.QueryInt("offset", 0)).Find(&items).Error; err != nil {
			return apperr.Internal("could not list inventory", err)
		}
		res := make([]ItemResponse, 0, len(items))
		for _, it := range items {
			res = append(res, toResponse(it))
		}
		return c.JSON(res)
	}
}

// GET /api/inventory/low-stock lists items under their minimum, most
// critical first.
func LowStockHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.InventoryItem
		err := itemQuery(db, c).Where("quantity < min_quantity").
			Order("CASE WHEN min_quantity > 0 THEN quantity / min_quantity ELSE 1 END asc").
			Limit(c.QueryInt("limit", 50)).Find(&items).Error
		if err != nil {
			return apperr.Internal("could not list low stock", err)
		}
		res := make([]ItemResponse, 0, len(items))
		for _, it := range items {
			res = append(res, toResponse(it))
		}
		return c.JSON(res)
	}
}

// GET /api/inventory/:id
func GetItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var it models.InventoryItem
		err := db.WithContext(c.UserContext()).Preload("Warehouse").Preload("Supplier").First(&it, "id = ?", c.Params("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("inventory item %s not found", c.Params("id"))
		}
		if err != nil {
			return apperr.Internal("could not load inventory item", err)
		}
		return c.JSON(toResponse(it))
	}
}

// POST /api/inventory
func CreateItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("invalid request body", nil)
		}
		body.Name = strings.TrimSpace(body.Name)
		body.SKU = strings.ToUpper(strings.TrimSpace(body.SKU))
		body.Unit = strings.TrimSpace(body.Unit)
		if err := body.validate(); err != nil {
			return err
		}

		it := models.InventoryItem{
			ID:          models.NewID(),
			Name:        body.Name,
			SKU:         body.SKU,
			Category:    strings.TrimSpace(body.Category),
			Unit:        body.Unit,
			Quantity:    body.Quantity,
			MinQuantity: body.MinQuantity,
			UnitPrice:   body.UnitPrice,
			WarehouseID: body.WarehouseID,
			SupplierID:  models.StrPtr(body.SupplierID),
		}
		if err := db.WithContext(c.UserContext()).Create(&it).Error; err != nil {
			return writeError(err, "sku "+it.SKU)
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(it))
	}
}

// PUT /api/inventory/:id
func UpdateItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("invalid request body", nil)
		}
		if err := body.validate(); err != nil {
			return err
		}

		var it models.InventoryItem
		err := db.WithContext(c.UserContext()).First(&it, "id = ?", c.Params("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("inventory item %s not found", c.Params("id"))
		}
		if err != nil {
			return apperr.Internal("could not load inventory item", err)
		}

		updates := map[string]any{}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return apperr.Field("name", "must not be empty")
			}
			updates["name"] = name
		}
		if body.Unit != nil {
			unit := strings.TrimSpace(*body.Unit)
			if unit == "" {
				return apperr.Field("unit", "must not be empty")
			}
			updates["unit"] = unit
		}
		if body.Category != nil {
			updates["category"] = strings.TrimSpace(*body.Category)
		}
		if body.SupplierID != nil {
			updates["supplier_id"] = models.StrPtr(*body.SupplierID)
		}
		if body.MinQuantity != nil {
			updates["min_quantity"] = *body.MinQuantity
		}
		if body.UnitPrice != nil {
			updates["unit_price"] = *body.UnitPrice
		}
		if len(updates) > 0 {
			if err := db.WithContext(c.UserContext()).Model(&it).Updates(updates).Error; err != nil {
				return writeError(err, "inventory item")
			}
		}
		if err := db.WithContext(c.UserContext()).First(&it, "id = ?", it.ID).Error; err != nil {
			return apperr.Internal("could not reload inventory item", err)
		}
		return c.JSON(toResponse(it))
	}
}

func writeError(err error, what string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict("%s already exists", what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.Validation("referenced warehouse or supplier does not exist", nil)
	}
	return apperr.Internal("could not save "+what, err)
}

func RegisterRoutes(r fiber.Router, db *gorm.DB, write fiber.Handler) {
	g := r.Group("/inventory")
	g.Get("/", ListItemsHandler(db))
	g.Get("/low-stock", LowStockHandler(db))
	g.Get("/:id", GetItemHandler(db))
	g.Post("/", write, CreateItemHandler(db))
	g.Post("/import", write, ImportItemsHandler(db))
	g.Put("/:id", write, UpdateItemHandler(db))
}
