package dashboard

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

const (
	minSearchLen  = 2
	searchPerKind = 5
)

type SearchResult struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Link     string `json:"link"`
}

// searchTerm normalizes q into an ILIKE pattern.
func searchTerm(q string) (string, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < minSearchLen {
		return "", apperr.Field("q", "must be at least 2 characters")
	}
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%", nil
}

type voucherHit struct {
	ID         string
	FormNumber string
	Status     models.Status
}

func searchVouchers(ctx context.Context, db *gorm.DB, model any, kind, pattern string) ([]SearchResult, error) {
	var hits []voucherHit
	err := db.WithContext(ctx).Model(model).Select("id, form_number, status").
		Where("form_number ILIKE ?", pattern).Order("created_at DESC").Limit(searchPerKind).Find(&hits).Error
	if err != nil {
		return nil, err
	}
	out := make([]SearchResult, len(hits))
	for i, h := range hits {
		out[i] = SearchResult{Type: kind, ID: h.ID, Title: h.FormNumber, Subtitle: string(h.Status), Link: "/documents/" + kind + "/" + h.ID}
	}
	return out, nil
}

// GET /api/dashboard/search?q=
func SearchHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pattern, err := searchTerm(c.Query("q"))
		if err != nil {
			return err
		}
		ctx := c.UserContext()
		results := []SearchResult{}

		var jobs []models.JobOrder
		if err := db.WithContext(ctx).Select("id, order_number, type, status").
			Where("order_number ILIKE ? OR description ILIKE ?", pattern, pattern).
			Limit(searchPerKind).Find(&jobs).Error; err != nil {
			return apperr.Internal("search failed", err)
		}
		for _, j := range jobs {
			results = append(results, SearchResult{Type: "job_order", ID: j.ID, Title: j.OrderNumber, Subtitle: string(j.Type) + " · " + string(j.Status), Link: "/job-orders/" + j.ID})
		}

		var items []models.InventoryItem
		if err := db.WithContext(ctx).Select("id, name, sku").
			Where("name ILIKE ? OR sku ILIKE ?", pattern, pattern).
			Limit(searchPerKind).Find(&items).Error; err != nil {
			return apperr.Internal("search failed", err)
		}
		for _, it := range items {
			results = append(results, SearchResult{Type: "inventory", ID: it.ID, Title: it.Name, Subtitle: it.SKU, Link: "/inventory/" + it.ID})
		}

		var projects []models.Project
		if err := db.WithContext(ctx).Select("id, name, code").
			Where("name ILIKE ? OR code ILIKE ?", pattern, pattern).
			Limit(searchPerKind).Find(&projects).Error; err != nil {
			return apperr.Internal("search failed", err)
		}
		for _, p := range projects {
			results = append(results, SearchResult{Type: "project", ID: p.ID, Title: p.Name, Subtitle: p.Code, Link: "/projects/" + p.ID})
		}

		vouchers := []struct {
			kind  string
			model any
		}{
			{"mrrv", &models.MRRV{}},
			{"mirv", &models.MIRV{}},
			{"mrv", &models.MRV{}},
			{"rfim", &models.RFIM{}},
		}
		for _, v := range vouchers {
			hits, err := searchVouchers(ctx, db, v.model, v.kind, pattern)
			if err != nil {
				return apperr.Internal("search failed", err)
			}
			results = append(results, hits...)
		}
		return c.JSON(results)
	}
}

func RegisterRoutes(r fiber.Router, db *gorm.DB, stats fiber.Handler) {
	g := r.Group("/dashboard")
	g.Get("/stats", stats)
	g.Get("/flow-chart", FlowChartHandler(db))
	g.Get("/search", SearchHandler(db))
}
