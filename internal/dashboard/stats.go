// Package dashboard serves the landing page aggregates: headline stats,
// stock flow over time and the global search box.
package dashboard

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/cache"
	"github.com/arahman1700/nit-logistics-portal/internal/config"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

const statsKey = "dashboard:stats"

type Stats struct {
	TotalJobOrders      int64            `json:"total_job_orders"`
	PendingJobOrders    int64            `json:"pending_job_orders"`
	InProgressJobOrders int64            `json:"in_progress_job_orders"`
	CompletedJobOrders  int64            `json:"completed_job_orders"`
	TotalInventoryItems int64            `json:"total_inventory_items"`
	LowStockItems       int64            `json:"low_stock_items"`
	InventoryValue      decimal.Decimal  `json:"inventory_value"`
	TotalProjects       int64            `json:"total_projects"`
	ActiveProjects      int64            `json:"active_projects"`
	PendingDocuments    map[string]int64 `json:"pending_documents"`
	GeneratedAt         time.Time        `json:"generated_at"`
}

type StatsLoader func(ctx context.Context) (*Stats, error)

type counter struct {
	dest  *int64
	model any
	where string
	args  []any
}

// LoadStats computes Stats with one query per figure.
func LoadStats(db *gorm.DB) StatsLoader {
	return func(ctx context.Context) (*Stats, error) {
		s := &Stats{PendingDocuments: map[string]int64{}, GeneratedAt: time.Now().UTC()}
		var mrrv, mirv, mrv, rfim, osd int64
		counters := []counter{
			{&s.TotalJobOrders, &models.JobOrder{}, "", nil},
			{&s.PendingJobOrders, &models.JobOrder{}, "status = ?", []any{models.StatusPending}},
			{&s.InProgressJobOrders, &models.JobOrder{}, "status = ?", []any{models.StatusInProgress}},
			{&s.CompletedJobOrders, &models.JobOrder{}, "status = ?", []any{models.StatusCompleted}},
			{&s.TotalInventoryItems, &models.InventoryItem{}, "", nil},
			{&s.LowStockItems, &models.InventoryItem{}, "quantity < min_quantity", nil},
			{&s.TotalProjects, &models.Project{}, "", nil},
			{&s.ActiveProjects, &models.Project{}, "status = ?", []any{models.ProjectActive}},
			{&mrrv, &models.MRRV{}, "status = ?", []any{models.StatusPendingApproval}},
			{&mirv, &models.MIRV{}, "status = ?", []any{models.StatusPendingApproval}},
			{&mrv, &models.MRV{}, "status = ?", []any{models.StatusPending}},
			{&rfim, &models.RFIM{}, "status = ?", []any{models.StatusPending}},
			{&osd, &models.OSDReport{}, "status = ?", []any{models.StatusOpen}},
		}
		for _, ct := range counters {
			q := db.WithContext(ctx).Model(ct.model)
			if ct.where != "" {
				q = q.Where(ct.where, ct.args...)
			}
			if err := q.Count(ct.dest).Error; err != nil {
				return nil, err
			}
		}
		s.PendingDocuments["mrrv"] = mrrv
		s.PendingDocuments["mirv"] = mirv
		s.PendingDocuments["mrv"] = mrv
		s.PendingDocuments["rfim"] = rfim
		s.PendingDocuments["osd"] = osd

		row := db.WithContext(ctx).Model(&models.InventoryItem{}).
			Select("COALESCE(SUM(quantity * unit_price), 0)").Row()
		if err := row.Scan(&s.InventoryValue); err != nil {
			return nil, err
		}
		return s, nil
	}
}

// GET /api/dashboard/stats
//
// Served from cache for ttl. Cache failures fall through to the loader.
func StatsHandler(load StatsLoader, c *cache.Cache, ttl time.Duration, logger logrus.FieldLogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var cached Stats
		found, err := c.GetObject(ctx.UserContext(), statsKey, &cached)
		if err != nil {
			config.LogError(logger, "dashboard", "StatsHandler", "cache read", statsKey, err)
		}
		if found {
			return ctx.JSON(cached)
		}

		s, err := load(ctx.UserContext())
		if err != nil {
			return apperr.Internal("could not load dashboard stats", err)
		}
		if err := c.SetObject(ctx.UserContext(), statsKey, s, ttl); err != nil {
			config.LogError(logger, "dashboard", "StatsHandler", "cache write", statsKey, err)
		}
		return ctx.JSON(s)
	}
}
