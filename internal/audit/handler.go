package audit

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

type Lister interface {
	ListActivity(ctx context.Context, entityType, entityID string) ([]models.ActivityLog, error)
}

// GET /api/activity?entity_type=mrrv&entity_id=...
func ListActivityHandler(l Lister) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entityType := c.Query("entity_type")
		entityID := c.Query("entity_id")
		if entityType == "" || entityID == "" {
			return apperr.Validation("entity_type and entity_id are required", map[string]string{
				"entity_type": "is required",
				"entity_id":   "is required",
			})
		}
		logs, err := l.ListActivity(c.UserContext(), entityType, entityID)
		if err != nil {
			return apperr.Internal("could not list activity", err)
		}
		if logs == nil {
			logs = []models.ActivityLog{}
		}
		return c.JSON(logs)
	}
}
