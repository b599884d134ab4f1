package auth

import (
	"strings"

	"github.com/codeotter0201/fullstack-lms-challenge/services"
	authutil "github.com/codeotter0201/fullstack-lms-challenge/utils/auth"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/response"
	"github.com/gofiber/fiber/v2"
)

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	user, err := h.users.GetByEmail(c.UserContext(), nil, req.Email)
	if err != nil {
		return response.InternalServerError(c, "Failed to load user")
	}
	if user == nil {
		return response.Unauthorized(c, "Invalid email or password")
	}
	if err := authutil.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		h.log.Debug("login rejected", "user_id", user.ID)
		return response.Unauthorized(c, "Invalid email or password")
	}

	tokens, err := h.jwtManager.IssuePair(subjectOf(user))
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}

	return response.Success(c, AuthResponse{User: services.NewUserResponse(user), TokenPair: tokens})
}
