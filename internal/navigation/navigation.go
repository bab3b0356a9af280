// Package navigation resolves where a session lands and what its menu
// shows. Everything here is a pure function of the role.
package navigation

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/arahman1700/nit-logistics-portal/internal/auth"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

type Item struct {
	Label    string `json:"label"`
	Path     string `json:"path,omitempty"`
	Divider  bool   `json:"divider,omitempty"`
	Children []Item `json:"children,omitempty"`
}

var divider = Item{Divider: true}

var menus = map[models.Role][]Item{
	models.RoleAdmin: {
		{Label: "Dashboard", Path: "/admin"},
		{Label: "Operation Forms", Children: []Item{
			{Label: "Issue Request (MIRV)", Path: "/admin/forms/mirv"},
			{Label: "Material Receipt (MRRV)", Path: "/admin/forms/mrrv"},
			{Label: "Inspection Request (RFIM)", Path: "/admin/forms/rfim"},
			{Label: "OSD Report", Path: "/admin/forms/osd"},
			{Label: "Material Return (MRV)", Path: "/admin/forms/mrv"},
			{Label: "Job Order", Path: "/admin/forms/jo"},
		}},
		{Label: "Warehouses", Children: []Item{
			{Label: "Receipt Vouchers (MRRV)", Path: "/admin/warehouse/mrrv"},
			{Label: "Issue Vouchers (MIRV)", Path: "/admin/warehouse/mirv"},
			{Label: "Return Vouchers (MRV)", Path: "/admin/warehouse/mrv"},
			divider,
			{Label: "Inventory Levels", Path: "/admin/warehouse/inventory"},
			{Label: "Gate Passes", Path: "/admin/warehouse/gate-pass"},
		}},
		{Label: "Transport", Children: []Item{
			{Label: "Job Orders Board", Path: "/admin/transport/board"},
			{Label: "All Job Orders", Path: "/admin/transport/job-orders"},
			divider,
			{Label: "Suppliers", Path: "/admin/transport/suppliers"},
		}},
		{Label: "Quality (QC)", Children: []Item{
			{Label: "Inspection Requests (RFIM)", Path: "/admin/quality/rfim"},
			{Label: "OSD Reports", Path: "/admin/quality/osd"},
		}},
		{Label: "Management", Children: []Item{
			{Label: "Projects", Path: "/admin/management/projects"},
			{Label: "Warehouses", Path: "/admin/management/warehouses"},
		}},
	},
	models.RoleWarehouse: {
		{Label: "Dashboard", Path: "/warehouse"},
		{Label: "Receive (MRRV)", Path: "/warehouse/receive"},
		{Label: "Issue (MIRV)", Path: "/warehouse/issue"},
		{Label: "Inventory", Path: "/warehouse/inventory"},
		{Label: "Return", Path: "/warehouse/return"},
	},
	models.RoleTransport: {
		{Label: "Dashboard", Path: "/transport"},
		{Label: "Job Orders", Path: "/transport/jobs"},
		{Label: "Suppliers", Path: "/transport/suppliers"},
	},
	models.RoleEngineer: {
		{Label: "Dashboard", Path: "/engineer"},
		{Label: "New Request", Path: "/engineer/new"},
		{Label: "My Requests", Path: "/engineer/my-requests"},
		{Label: "My Project", Path: "/engineer/project"},
	},
}

// DefaultRouteFor is the landing page of a role. Unknown roles land on the
// sign-in page.
func DefaultRouteFor(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "/admin"
	case models.RoleWarehouse:
		return "/warehouse"
	case models.RoleTransport:
		return "/transport"
	case models.RoleEngineer:
		return "/engineer"
	}
	return "/login"
}

// MenuFor returns a copy of the role's menu.
func MenuFor(role models.Role) []Item {
	return clone(menus[role])
}

func clone(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it
		if it.Children != nil {
			out[i].Children = clone(it.Children)
		}
	}
	return out
}

// Redirect reports where a request for path should go instead, or "" when
// the role may stay. A role may only browse under its own section.
func Redirect(role models.Role, path string) string {
	home := DefaultRouteFor(role)
	if path == home || strings.HasPrefix(path, home+"/") {
		return ""
	}
	return home
}

type SessionResponse struct {
	User         auth.Session `json:"user"`
	DefaultRoute string       `json:"default_route"`
	Menu         []Item       `json:"menu"`
	// Redirect is set when ?path= points outside the role's section.
	Redirect string `json:"redirect,omitempty"`
}

// GET /api/session?path=
func SessionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.MustSession(c)
		if err != nil {
			return err
		}
		res := SessionResponse{
			User:         s,
			DefaultRoute: DefaultRouteFor(s.Role),
			Menu:         MenuFor(s.Role),
		}
		if p := c.Query("path"); p != "" {
			res.Redirect = Redirect(s.Role, p)
		}
		return c.JSON(res)
	}
}

func RegisterRoutes(r fiber.Router) {
	r.Get("/session", SessionHandler())
}
