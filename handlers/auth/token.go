package auth

import (
	"github.com/codeotter0201/fullstack-lms-challenge/services"
	authutil "github.com/codeotter0201/fullstack-lms-challenge/utils/auth"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/middleware"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/response"
	"github.com/gofiber/fiber/v2"
)

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke with the access token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshToken exchanges a refresh token for a new pair. The old refresh
// token is revoked.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	ctx := c.UserContext()
	claims, err := h.jwtManager.ValidateToken(req.RefreshToken, authutil.TokenTypeRefresh)
	if err != nil {
		return response.Unauthorized(c, "Invalid or expired refresh token")
	}

	revoked, err := h.blacklistService.IsRevoked(ctx, claims.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to check token status")
	}
	if revoked {
		return response.Unauthorized(c, "Token has been revoked")
	}

	user, err := h.users.GetByID(ctx, nil, claims.UserID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load user")
	}
	if user == nil || user.TokenVersion != claims.TokenVersion {
		return response.Unauthorized(c, "Token has been invalidated")
	}

	if err := h.blacklistService.Revoke(ctx, claims, "refresh_rotation"); err != nil {
		return response.InternalServerError(c, "Failed to rotate refresh token")
	}

	tokens, err := h.jwtManager.IssuePair(subjectOf(user))
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}
	return response.Success(c, AuthResponse{User: services.NewUserResponse(user), TokenPair: tokens})
}

// Logout revokes the caller's access token and, when given, its refresh token
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.Unauthorized(c, "")
	}

	var req LogoutRequest
	_ = c.BodyParser(&req)

	ctx := c.UserContext()
	if err := h.blacklistService.Revoke(ctx, claims, "logout"); err != nil {
		return response.InternalServerError(c, "Failed to revoke token")
	}

	if req.RefreshToken != "" {
		refresh, err := h.jwtManager.ValidateToken(req.RefreshToken, authutil.TokenTypeRefresh)
		if err == nil && refresh.UserID == claims.UserID {
			if err := h.blacklistService.Revoke(ctx, refresh, "logout"); err != nil {
				return response.InternalServerError(c, "Failed to revoke token")
			}
		}
	}

	return response.SuccessWithMessage(c, "Logged out successfully", nil)
}
