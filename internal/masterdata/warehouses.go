package masterdata

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

type WarehouseRequest struct {
	Name      string           `json:"name" validate:"required,max=150"`
	Code      string           `json:"code" validate:"max=30"`
	Location  string           `json:"location" validate:"max=150"`
	Capacity  *decimal.Decimal `json:"capacity"`
	ManagerID string           `json:"manager_id" validate:"max=64"`
}

func (r WarehouseRequest) apply(w *models.Warehouse) error {
	if r.Capacity != nil && !r.Capacity.IsPositive() {
		return apperr.Field("capacity", "must be positive")
	}
	w.Name = strings.TrimSpace(r.Name)
	w.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	w.Location = r.Location
	w.Capacity = r.Capacity
	w.ManagerID = models.StrPtr(r.ManagerID)
	return nil
}

type WarehouseResponse struct {
	models.Warehouse
	// Utilization is current stock over capacity in percent; nil without a capacity.
	Utilization *decimal.Decimal `json:"utilization"`
}

func withUtilization(w models.Warehouse) WarehouseResponse {
	res := WarehouseResponse{Warehouse: w}
	if w.Capacity != nil && w.Capacity.IsPositive() {
		u := w.CurrentStock.Div(*w.Capacity).Mul(decimal.NewFromInt(100)).Round(1)
		res.Utilization = &u
	}
	return res
}

func ListWarehousesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := searchable(db.WithContext(c.UserContext()).Model(&models.Warehouse{}), c.Query("q"), "name", "code", "location")
		var rows []models.Warehouse
		if err := q.Order("name asc").Find(&rows).Error; err != nil {
			return apperr.Internal("could not list warehouses", err)
		}
		out := make([]WarehouseResponse, 0, len(rows))
		for _, w := range rows {
			out = append(out, withUtilization(w))
		}
		return c.JSON(out)
	}
}

func GetWarehouseHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var w models.Warehouse
		if err := loadOr404(db.WithContext(c.UserContext()), &w, "warehouse", c.Params("id")); err != nil {
			return err
		}
		return c.JSON(withUtilization(w))
	}
}

func CreateWarehouseHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body WarehouseRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		w := models.Warehouse{ID: models.NewID()}
		if err := body.apply(&w); err != nil {
			return err
		}
		if err := db.WithContext(c.UserContext()).Create(&w).Error; err != nil {
			return saveError(err, "warehouse")
		}
		return c.Status(fiber.StatusCreated).JSON(withUtilization(w))
	}
}

// UpdateWarehouseHandler leaves current_stock alone.
func UpdateWarehouseHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body WarehouseRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		tx := db.WithContext(c.UserContext())
		var w models.Warehouse
		if err := loadOr404(tx, &w, "warehouse", c.Params("id")); err != nil {
			return err
		}
		if err := body.apply(&w); err != nil {
			return err
		}
		err := tx.Model(&w).Select("name", "code", "location", "capacity", "manager_id").Updates(&w).Error
		if err != nil {
			return saveError(err, "warehouse")
		}
		return c.JSON(withUtilization(w))
	}
}
