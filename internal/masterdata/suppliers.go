package masterdata

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

type SupplierRequest struct {
	Name         string `json:"name" validate:"required,max=150"`
	Code         string `json:"code" validate:"required,max=30"`
	Category     string `json:"category" validate:"required,oneof=local international manufacturer"`
	Status       string `json:"status" validate:"omitempty,oneof=active inactive blacklisted"`
	City         string `json:"city" validate:"max=100"`
	ContactName  string `json:"contact_name" validate:"max=100"`
	ContactPhone string `json:"contact_phone" validate:"max=40"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email,max=100"`
}

func (r SupplierRequest) apply(s *models.Supplier) {
	s.Name = strings.TrimSpace(r.Name)
	s.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	s.Category = models.SupplierCategory(r.Category)
	s.Status = models.SupplierStatus(r.Status)
	if s.Status == "" {
		s.Status = models.SupplierActive
	}
	s.City = r.City
	s.ContactName = r.ContactName
	s.ContactPhone = r.ContactPhone
	s.ContactEmail = r.ContactEmail
}

// GET /api/suppliers?category=&status=&q=
func ListSuppliersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := db.WithContext(c.UserContext()).Model(&models.Supplier{})
		if cat := c.Query("category"); cat != "" {
			q = q.Where("category = ?", cat)
		}
		if st := c.Query("status"); st != "" {
			q = q.Where("status = ?", st)
		}
		q = searchable(q, c.Query("q"), "name", "code", "city")
		var out []models.Supplier
		if err := q.Order("name asc").Find(&out).Error; err != nil {
			return apperr.Internal("could not list suppliers", err)
		}
		return c.JSON(out)
	}
}

func GetSupplierHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Supplier
		if err := loadOr404(db.WithContext(c.UserContext()), &s, "supplier", c.Params("id")); err != nil {
			return err
		}
		return c.JSON(s)
	}
}

func CreateSupplierHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		s := models.Supplier{ID: models.NewID()}
		body.apply(&s)
		if err := db.WithContext(c.UserContext()).Create(&s).Error; err != nil {
			return saveError(err, "supplier")
		}
		return c.Status(fiber.StatusCreated).JSON(s)
	}
}

func UpdateSupplierHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		tx := db.WithContext(c.UserContext())
		var s models.Supplier
		if err := loadOr404(tx, &s, "supplier", c.Params("id")); err != nil {
			return err
		}
		body.apply(&s)
		if err := tx.Save(&s).Error; err != nil {
			return saveError(err, "supplier")
		}
		return c.JSON(s)
	}
}
