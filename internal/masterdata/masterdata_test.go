package masterdata

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

func TestProjectRequestApply(t *testing.T) {
	var p models.Project
	err := ProjectRequest{Name: " Ring Road ", Code: "rr-01", StartDate: "2026-01-01", EndDate: "2026-12-31"}.apply(&p)
	require.NoError(t, err)
	assert.Equal(t, "Ring Road", p.Name)
	assert.Equal(t, "RR-01", p.Code)
	assert.Equal(t, models.ProjectActive, p.Status)
	require.NotNil(t, p.EndDate)

	err = ProjectRequest{Name: "x", Code: "x", StartDate: "2026-05-01", EndDate: "2026-04-01"}.apply(&p)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	err = ProjectRequest{Name: "x", Code: "x", StartDate: "01/05/2026"}.apply(&p)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestWarehouseUtilization(t *testing.T) {
	capacity := decimal.NewFromInt(400)
	r := withUtilization(models.Warehouse{Capacity: &capacity, CurrentStock: decimal.NewFromInt(150)})
	require.NotNil(t, r.Utilization)
	assert.Equal(t, "37.5", r.Utilization.String())

	assert.Nil(t, withUtilization(models.Warehouse{CurrentStock: decimal.NewFromInt(5)}).Utilization)

	var w models.Warehouse
	zero := decimal.Zero
	assert.Error(t, WarehouseRequest{Name: "Main", Capacity: &zero}.apply(&w))
}

func TestSupplierDefaults(t *testing.T) {
	var s models.Supplier
	SupplierRequest{Name: "Acme", Code: "ac", Category: "local"}.apply(&s)
	assert.Equal(t, models.SupplierActive, s.Status)
	assert.Equal(t, "AC", s.Code)
}

func TestCreateValidation(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Post("/suppliers", CreateSupplierHandler(nil))
	app.Post("/projects", CreateProjectHandler(nil))
	app.Post("/warehouses", CreateWarehouseHandler(nil))

	cases := []struct {
		name, path, body string
	}{
		{"supplier category", "/suppliers", `{"name":"Acme","code":"AC","category":"galactic"}`},
		{"supplier email", "/suppliers", `{"name":"Acme","code":"AC","category":"local","contact_email":"nope"}`},
		{"project name", "/projects", `{"code":"P1"}`},
		{"project status", "/projects", `{"name":"P","code":"P1","status":"paused"}`},
		{"warehouse capacity", "/warehouses", `{"name":"Main","capacity":"-1"}`},
		{"malformed", "/warehouses", `{"name":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}
