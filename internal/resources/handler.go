package resources

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
)

const (
	maxPage   = 500
	maxExport = 10000
	sheetName = "Sheet1"
)

type ListResponse struct {
	Resource Resource         `json:"resource"`
	Rows     []map[string]any `json:"rows"`
}

func lookup(reg *Registry, c *fiber.Ctx) (Resource, error) {
	r, ok := reg.Get(c.Params("name"))
	if !ok {
		return Resource{}, apperr.NotFound("unknown resource %q", c.Params("name"))
	}
	return r, nil
}

// Workbook writes a header row of column labels followed by one row per
// record.
func Workbook(r Resource, rows []any) (*excelize.File, error) {
	f := excelize.NewFile()
	header := make([]any, len(r.Columns))
	for i, c := range r.Columns {
		header[i] = c.Label
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	for i, row := range rows {
		cells := make([]any, len(r.Columns))
		for j, c := range r.Columns {
			cells[j] = c.cell(row)
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, addr, &cells); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// GET /api/resources
func CatalogHandler(reg *Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(reg.All())
	}
}

// GET /api/resources/:name?status=&limit=&offset=
func ListHandler(db *gorm.DB, reg *Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := lookup(reg, c)
		if err != nil {
			return err
		}
		limit := c.QueryInt("limit", 50)
		if limit < 1 || limit > maxPage {
			return apperr.Field("limit", fmt.Sprintf("must be between 1 and %d", maxPage))
		}
		rows, err := r.Load(db.WithContext(c.UserContext()), Filter{
			Status: c.Query("status"),
			Limit:  limit,
			Offset: c.QueryInt("offset", 0),
		})
		if err != nil {
			return apperr.Internal("could not load "+r.Name, err)
		}
		return c.JSON(ListResponse{Resource: r, Rows: r.Render(rows)})
	}
}

// GET /api/resources/:name/export
func ExportHandler(db *gorm.DB, reg *Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := lookup(reg, c)
		if err != nil {
			return err
		}
		rows, err := r.Load(db.WithContext(c.UserContext()), Filter{Status: c.Query("status"), Limit: maxExport})
		if err != nil {
			return apperr.Internal("could not load "+r.Name, err)
		}
		f, err := Workbook(r, rows)
		if err != nil {
			return apperr.Internal("could not build workbook", err)
		}
		defer f.Close()

		var buf bytes.Buffer
		if err := f.Write(&buf); err != nil {
			return apperr.Internal("could not write workbook", err)
		}
		name := fmt.Sprintf("%s-%s.xlsx", r.Name, time.Now().Format("20060102"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, "attachment; filename="+name)
		return c.Send(buf.Bytes())
	}
}

// RegisterRoutes mounts the catalogue behind guard.
func RegisterRoutes(r fiber.Router, db *gorm.DB, reg *Registry, guard fiber.Handler) {
	g := r.Group("/resources", guard)
	g.Get("/", CatalogHandler(reg))
	g.Get("/:name", ListHandler(db, reg))
	g.Get("/:name/export", ExportHandler(db, reg))
}
