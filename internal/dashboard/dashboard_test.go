package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
)

func TestWindow(t *testing.T) {
	// Wednesday
	now := time.Date(2026, time.October, 14, 15, 4, 0, 0, time.UTC)

	tests := []struct {
		period     string
		count      int
		wantPeriod string
		wantUnit   string
		from, to   string
	}{
		{"daily", 7, "daily", "day", "2026-10-08", "2026-10-15"},
		{"", 0, "daily", "day", "2026-10-08", "2026-10-15"},
		{"weekly", 2, "weekly", "week", "2026-10-05", "2026-10-19"},
		{"monthly", 3, "monthly", "month", "2026-08-01", "2026-11-01"},
		{"yearly", 1, "daily", "day", "2026-10-14", "2026-10-15"},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			period, unit, from, to := window(tt.period, tt.count, now)
			assert.Equal(t, tt.wantPeriod, period)
			assert.Equal(t, tt.wantUnit, unit)
			assert.Equal(t, tt.from, from.Format(time.DateOnly))
			assert.Equal(t, tt.to, to.Format(time.DateOnly))
		})
	}
}

func TestBuildFlow(t *testing.T) {
	d1 := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)
	points, totals := buildFlow([]flowRow{
		{Bucket: d2, Direction: directionIssued, Total: decimal.NewFromInt(40)},
		{Bucket: d1, Direction: directionReceived, Total: decimal.NewFromInt(100)},
		{Bucket: d2, Direction: directionReturned, Total: decimal.NewFromInt(5)},
		{Bucket: d1, Direction: directionIssued, Total: decimal.NewFromInt(30)},
	})

	require.Len(t, points, 2)
	assert.Equal(t, "2026-10-01", points[0].Label)
	assert.True(t, points[0].Net.Equal(decimal.NewFromInt(70)))
	assert.True(t, points[1].Net.Equal(decimal.NewFromInt(-35)))
	assert.True(t, totals.Received.Equal(decimal.NewFromInt(100)))
	assert.True(t, totals.Issued.Equal(decimal.NewFromInt(70)))
	assert.True(t, totals.Net.Equal(decimal.NewFromInt(35)))

	points, totals = buildFlow(nil)
	assert.Empty(t, points)
	assert.True(t, totals.Net.IsZero())
}

func TestSearchTerm(t *testing.T) {
	_, err := searchTerm(" a ")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	p, err := searchTerm("MRRV-2026")
	require.NoError(t, err)
	assert.Equal(t, "%MRRV-2026%", p)

	p, err = searchTerm("50%_off")
	require.NoError(t, err)
	assert.Equal(t, `%50\%\_off%`, p)
}

func TestStatsHandlerWithoutCache(t *testing.T) {
	calls := 0
	load := func(context.Context) (*Stats, error) {
		calls++
		return &Stats{TotalJobOrders: 4, PendingDocuments: map[string]int64{"mrrv": 2}}, nil
	}
	logger, _ := test.NewNullLogger()
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Get("/stats", StatsHandler(load, nil, time.Minute, logger))

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/stats", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var got Stats
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, int64(4), got.TotalJobOrders)
		assert.Equal(t, int64(2), got.PendingDocuments["mrrv"])
	}
	assert.Equal(t, 2, calls)

	app = fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Get("/stats", StatsHandler(func(context.Context) (*Stats, error) { return nil, errors.New("db down") }, nil, time.Minute, logger))
	resp, err := app.Test(httptest.NewRequest("GET", "/stats", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestSearchRejectsShortQuery(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Get("/search", SearchHandler(nil))
	resp, err := app.Test(httptest.NewRequest("GET", "/search?q=x", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
