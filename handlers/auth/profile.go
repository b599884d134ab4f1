package auth

import (
	"github.com/codeotter0201/fullstack-lms-challenge/services"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/middleware"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/response"
	"github.com/gofiber/fiber/v2"
)

// Me returns the authenticated user with level progress
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "")
	}
	return response.Success(c, services.NewUserResponse(user))
}
