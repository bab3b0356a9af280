package notify

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/arahman1700/nit-logistics-portal/internal/apperr"
	"github.com/arahman1700/nit-logistics-portal/internal/auth"
	"github.com/arahman1700/nit-logistics-portal/internal/models"
)

// GET /api/notifications?unread=true
func ListHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.MustSession(c)
		if err != nil {
			return err
		}
		q := db.WithContext(c.UserContext()).Where("user_id = ?", s.UserID)
		if c.QueryBool("unread") {
			q = q.Where("read = ?", false)
		}
		var rows []models.Notification
		if err := q.Order("created_at DESC").Limit(c.QueryInt("limit", 50)).Find(&rows).Error; err != nil {
			return apperr.Internal("could not list notifications", err)
		}
		return c.JSON(rows)
	}
}

// GET /api/notifications/unread-count
func UnreadCountHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.MustSession(c)
		if err != nil {
			return err
		}
		var n int64
		err = db.WithContext(c.UserContext()).Model(&models.Notification{}).
			Where("user_id = ? AND read = ?", s.UserID, false).Count(&n).Error
		if err != nil {
			return apperr.Internal("could not count notifications", err)
		}
		return c.JSON(fiber.Map{"unread": n})
	}
}

// POST /api/notifications/:id/read
func MarkReadHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.MustSession(c)
		if err != nil {
			return err
		}
		res := db.WithContext(c.UserContext()).Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", c.Params("id"), s.UserID).
			Update("read", true)
		if res.Error != nil {
			return apperr.Internal("could not update notification", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("notification not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/notifications/read-all
func MarkAllReadHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.MustSession(c)
		if err != nil {
			return err
		}
		res := db.WithContext(c.UserContext()).Model(&models.Notification{}).
			Where("user_id = ? AND read = ?", s.UserID, false).
			Update("read", true)
		if res.Error != nil {
			return apperr.Internal("could not update notifications", res.Error)
		}
		return c.JSON(fiber.Map{"updated": res.RowsAffected})
	}
}

// DELETE /api/notifications/:id
func DeleteHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.MustSession(c)
		if err != nil {
			return err
		}
		res := db.WithContext(c.UserContext()).
			Where("id = ? AND user_id = ?", c.Params("id"), s.UserID).
			Delete(&models.Notification{})
		if res.Error != nil {
			return apperr.Internal("could not delete notification", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("notification not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func RegisterRoutes(r fiber.Router, db *gorm.DB) {
	g := r.Group("/notifications")
	g.Get("/", ListHandler(db))
	g.Get("/unread-count", UnreadCountHandler(db))
	g.Post("/read-all", MarkAllReadHandler(db))
	g.Post("/:id/read", MarkReadHandler(db))
	g.Delete("/:id", DeleteHandler(db))
}
