package masterdata

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/auth"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

type ProjectRequest struct {
	Name      string `json:"name" validate:"required,max=150"`
	Code      string `json:"code" validate:"required,max=30"`
	Client    string `json:"client" validate:"max=150"`
	Location  string `json:"location" validate:"max=150"`
	Status    string `json:"status" validate:"omitempty,oneof=active completed on_hold"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r ProjectRequest) apply(p *models.Project) error {
	start, err := parseDate("start_date", r.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDate("end_date", r.EndDate)
	if err != nil {
		return err
	}
	if start != nil && end != nil && end.Before(*start) {
		return apperr.Field("end_date", "must not be before start_date")
	}
	p.Name = strings.TrimSpace(r.Name)
	p.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	p.Client = r.Client
	p.Location = r.Location
	p.StartDate, p.EndDate = start, end
	p.Status = models.ProjectStatus(r.Status)
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	return nil
}

// GET /api/projects?status=&q=
func ListProjectsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := db.WithContext(c.UserContext()).Model(&models.Project{})
		if st := c.Query("status"); st != "" {
			q = q.Where("status = ?", st)
		}
		q = searchable(q, c.Query("q"), "name", "code", "client")
		var out []models.Project
		if err := q.Order("name asc").Find(&out).Error; err != nil {
			return apperr.Internal("could not list projects", err)
		}
		return c.JSON(out)
	}
}

func GetProjectHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Project
		if err := loadOr404(db.WithContext(c.UserContext()), &p, "project", c.Params("id")); err != nil {
			return err
		}
		return c.JSON(p)
	}
}

func CreateProjectHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProjectRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		p := models.Project{ID: models.NewID()}
		if err := body.apply(&p); err != nil {
			return err
		}
		if s, ok := auth.SessionFrom(c); ok {
			p.CreatedBy = s.UserID
		}
		if err := db.WithContext(c.UserContext()).Create(&p).Error; err != nil {
			return saveError(err, "project")
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

func UpdateProjectHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProjectRequest
		if err := parseBody(c, &body); err != nil {
			return err
		}
		tx := db.WithContext(c.UserContext())
		var p models.Project
		if err := loadOr404(tx, &p, "project", c.Params("id")); err != nil {
			return err
		}
		if err := body.apply(&p); err != nil {
			return err
		}
		if err := tx.Save(&p).Error; err != nil {
			return saveError(err, "project")
		}
		return c.JSON(p)
	}
}
