package navigation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/auth"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

func TestDefaultRouteFor(t *testing.T) {
	cases := map[models.Role]string{
		models.RoleAdmin:     "/admin",
		models.RoleWarehouse: "/warehouse",
		models.RoleTransport: "/transport",
		models.RoleEngineer:  "/engineer",
		"visitor":            "/login",
	}
	for role, want := range cases {
		assert.Equal(t, want, DefaultRouteFor(role), role)
	}
}

func TestRedirect(t *testing.T) {
	assert.Equal(t, "", Redirect(models.RoleWarehouse, "/warehouse"))
	assert.Equal(t, "", Redirect(models.RoleWarehouse, "/warehouse/issue"))
	assert.Equal(t, "/warehouse", Redirect(models.RoleWarehouse, "/warehouses"))
	assert.Equal(t, "/warehouse", Redirect(models.RoleWarehouse, "/admin/map"))
	assert.Equal(t, "/engineer", Redirect(models.RoleEngineer, "/"))
}

func TestMenuPathsStayInSection(t *testing.T) {
	for role := range menus {
		home := DefaultRouteFor(role)
		var walk func([]Item)
		walk = func(items []Item) {
			for _, it := range items {
				if it.Path != "" {
					assert.Empty(t, Redirect(role, it.Path), "%s: %s", role, it.Path)
				}
				walk(it.Children)
			}
		}
		walk(MenuFor(role))
		assert.Equal(t, home, MenuFor(role)[0].Path)
	}
}

func TestMenuForReturnsCopy(t *testing.T) {
	m := MenuFor(models.RoleAdmin)
	m[1].Children[0].Label = "changed"
	assert.NotEqual(t, "changed", MenuFor(models.RoleAdmin)[1].Children[0].Label)
	assert.Empty(t, MenuFor("visitor"))
}

func TestSessionHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		if c.Get("X-Test-Role") != "" {
			auth.WithSession(c, auth.Session{UserID: "u-1", Role: models.Role(c.Get("X-Test-Role")), Name: "Hassan"})
		}
		return c.Next()
	})
	RegisterRoutes(app)

	req := httptest.NewRequest(http.MethodGet, "/session?path=/admin", nil)
	req.Header.Set("X-Test-Role", "transport")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "/transport", body.DefaultRoute)
	assert.Equal(t, "/transport", body.Redirect)
	assert.Equal(t, "u-1", body.User.UserID)
	assert.Len(t, body.Menu, 3)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/session", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
