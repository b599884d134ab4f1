package handlers

import (
	"context"
	"time"

	"github.com/codeotter0201/fullstack-lms-challenge/database"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/response"
	"github.com/gofiber/fiber/v2"
)

// HandleCheckHealth pings the database
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := store.HealthCheck(ctx); err != nil {
		return response.ServiceUnavailable(c, "database unavailable")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
