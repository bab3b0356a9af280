// Package masterdata serves projects, warehouses and suppliers, the
// reference rows every voucher points at.
package masterdata

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
)

const dateLayout = "2006-01-02"

func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Validation("invalid request body", nil)
	}
	return apperr.Validate(dst)
}

func parseDate(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, apperr.Field(field, "must be a date like 2026-01-31")
	}
	return &t, nil
}

// searchable narrows q by a case-insensitive match over cols.
func searchable(q *gorm.DB, term string, cols ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" {
		return q
	}
	like := "%" + term + "%"
	conds := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		conds[i] = col + " ILIKE ?"
		args[i] = like
	}
	return q.Where(strings.Join(conds, " OR "), args...)
}

func loadOr404(db *gorm.DB, dst any, what, id string) error {
	err := db.First(dst, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("%s %s not found", what, id)
	}
	if err != nil {
		return apperr.Internal("could not load "+what, err)
	}
	return nil
}

func saveError(err error, what string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict("%s with this code already exists", what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.Conflict("%s is still referenced", what)
	}
	return apperr.Internal("could not save "+what, err)
}

// RegisterRoutes mounts the reads for every role and routes writes through
// the write guard.
func RegisterRoutes(r fiber.Router, db *gorm.DB, write fiber.Handler) {
	p := r.Group("/projects")
	p.Get("/", ListProjectsHandler(db))
	p.Get("/:id", GetProjectHandler(db))
	p.Post("/", write, CreateProjectHandler(db))
	p.Put("/:id", write, UpdateProjectHandler(db))

	w := r.Group("/warehouses")
	w.Get("/", ListWarehousesHandler(db))
	w.Get("/:id", GetWarehouseHandler(db))
	w.Post("/", write, CreateWarehouseHandler(db))
	w.Put("/:id", write, UpdateWarehouseHandler(db))

	s := r.Group("/suppliers")
	s.Get("/", ListSuppliersHandler(db))
	s.Get("/:id", GetSupplierHandler(db))
	s.Post("/", write, CreateSupplierHandler(db))
	s.Put("/:id", write, UpdateSupplierHandler(db))
}
