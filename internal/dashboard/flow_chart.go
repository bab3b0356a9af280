package dashboard

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
)

const (
	directionReceived = "received"
	directionIssued   = "issued"
	directionReturned = "returned"
)

type FlowPoint struct {
	Label    string          `json:"label"`
	Received decimal.Decimal `json:"received"`
	Issued   decimal.Decimal `json:"issued"`
	Returned decimal.Decimal `json:"returned"`
	Net      decimal.Decimal `json:"net"`
}

type FlowTotals struct {
	Received decimal.Decimal `json:"received"`
	Issued   decimal.Decimal `json:"issued"`
	Returned decimal.Decimal `json:"returned"`
	Net      decimal.Decimal `json:"net"`
}

type FlowChartResponse struct {
	WarehouseID string      `json:"warehouse_id,omitempty"`
	Period      string      `json:"period"`
	From        string      `json:"from"`
	To          string      `json:"to"`
	Points      []FlowPoint `json:"points"`
	Totals      FlowTotals  `json:"totals"`
}

type flowRow struct {
	Bucket    time.Time       `gorm:"column:bucket"`
	Direction string          `gorm:"column:direction"`
	Total     decimal.Decimal `gorm:"column:total"`
}

// window returns the bucket unit and the [start, end) range covering count
// buckets up to and including the one containing now.
func window(period string, count int, now time.Time) (string, string, time.Time, time.Time) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	switch period {
	case "weekly":
		if count <= 0 {
			count = 8
		}
		monday := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
		return "weekly", "week", monday.AddDate(0, 0, -7*(count-1)), monday.AddDate(0, 0, 7)
	case "monthly":
		if count <= 0 {
			count = 12
		}
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return "monthly", "month", first.AddDate(0, -(count - 1), 0), first.AddDate(0, 1, 0)
	}
	if count <= 0 {
		count = 7
	}
	return "daily", "day", today.AddDate(0, 0, -(count - 1)), today.AddDate(0, 0, 1)
}

// buildFlow folds per-direction bucket sums into ordered points.
func buildFlow(rows []flowRow) ([]FlowPoint, FlowTotals) {
	buckets := map[time.Time]*FlowPoint{}
	for _, r := range rows {
		p, ok := buckets[r.Bucket]
		if !ok {
			p = &FlowPoint{Label: r.Bucket.Format(time.DateOnly)}
			buckets[r.Bucket] = p
		}
		switch r.Direction {
		case directionReceived:
			p.Received = p.Received.Add(r.Total)
		case directionIssued:
			p.Issued = p.Issued.Add(r.Total)
		case directionReturned:
			p.Returned = p.Returned.Add(r.Total)
		}
	}

	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	points := make([]FlowPoint, 0, len(keys))
	var totals FlowTotals
	for _, k := range keys {
		p := buckets[k]
		p.Net = p.Received.Add(p.Returned).Sub(p.Issued)
		points = append(points, *p)
		totals.Received = totals.Received.Add(p.Received)
		totals.Issued = totals.Issued.Add(p.Issued)
		totals.Returned = totals.Returned.Add(p.Returned)
	}
	totals.Net = totals.Received.Add(totals.Returned).Sub(totals.Issued)
	return points, totals
}

const flowSQL = `
	SELECT date_trunc(@unit, document_date)::date AS bucket, 'received' AS direction, SUM(total_value) AS total
	FROM mrrvs
	WHERE status IN ('approved', 'inspected') AND document_date >= @from AND document_date < @to
	  AND (@warehouse = '' OR warehouse_id::text = @warehouse)
	GROUP BY bucket
	UNION ALL
	SELECT date_trunc(@unit, document_date)::date, 'issued', SUM(total_value)
	FROM mirvs
	WHERE status IN ('approved', 'issued') AND document_date >= @from AND document_date < @to
	  AND (@warehouse = '' OR warehouse_id::text = @warehouse)
	GROUP BY 1
	UNION ALL
	SELECT date_trunc(@unit, document_date)::date, 'returned', SUM(total_value)
	FROM mrvs
	WHERE status = 'completed' AND return_type <> 'damaged' AND document_date >= @from AND document_date < @to
	  AND (@warehouse = '' OR warehouse_id::text = @warehouse)
	GROUP BY 1`

// GET /api/dashboard/flow-chart?period=daily&count=7&warehouse_id=
func FlowChartHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count := c.QueryInt("count", 0)
		if count < 0 || count > 60 {
			return apperr.Field("count", "must be between 1 and 60")
		}
		period, unit, start, end := window(c.Query("period", "daily"), count, time.Now())
		warehouseID := c.Query("warehouse_id")

		var rows []flowRow
		err := db.WithContext(c.UserContext()).Raw(flowSQL, map[string]any{
			"unit":      unit,
			"from":      start,
			"to":        end,
			"warehouse": warehouseID,
		}).Scan(&rows).Error
		if err != nil {
			return apperr.Internal("could not aggregate stock flow", err)
		}

		points, totals := buildFlow(rows)
		return c.JSON(FlowChartResponse{
			WarehouseID: warehouseID,
			Period:      period,
			From:        start.Format(time.DateOnly),
			To:          end.AddDate(0, 0, -1).Format(time.DateOnly),
			Points:      points,
			Totals:      totals,
		})
	}
}
