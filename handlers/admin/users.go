package admin

import (
	"strings"

	"github.com/codeotter0201/fullstack-lms-challenge/handlers"
	"github.com/codeotter0201/fullstack-lms-challenge/services"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/response"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves role administration and purchase reporting.
// Routes are mounted behind RequireAdmin.
type AdminHandler struct {
	roles     *services.RoleService
	purchases *services.PurchaseService
	validator *validation.Validator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(roles *services.RoleService, purchases *services.PurchaseService) *AdminHandler {
	return &AdminHandler{
		roles:     roles,
		purchases: purchases,
		validator: validation.NewValidator(),
	}
}

// GrantRoleRequest names the tier to grant
type GrantRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=FREE PAID ADMIN TEACHER"`
}

// ListUserRoles handles GET /api/v1/admin/users/:id/roles
func (h *AdminHandler) ListUserRoles(c *fiber.Ctx) error {
	userID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	roles, err := h.roles.ListRoles(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, roles)
}

// GrantUserRole handles POST /api/v1/admin/users/:id/roles
func (h *AdminHandler) GrantUserRole(c *fiber.Ctx) error {
	userID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	var req GrantRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Role = strings.ToUpper(strings.TrimSpace(req.Role))
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	role, err := h.roles.GrantRole(c.UserContext(), userID, req.Role)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, role)
}

// RevokeUserRole handles DELETE /api/v1/admin/users/:id/roles/:role
func (h *AdminHandler) RevokeUserRole(c *fiber.Ctx) error {
	userID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	role := strings.ToUpper(c.Params("role"))
	if err := h.roles.RevokeRole(c.UserContext(), userID, role); err != nil {
		return response.FromError(c, err)
	}
	return response.NoContent(c)
}

// ListCoursePurchases handles GET /api/v1/admin/courses/:id/purchases
func (h *AdminHandler) ListCoursePurchases(c *fiber.Ctx) error {
	courseID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	purchases, err := h.purchases.ListCoursePurchases(c.UserContext(), courseID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, purchases)
}
