package purchase

import (
	"github.com/codeotter0201/fullstack-lms-challenge/handlers"
	"github.com/codeotter0201/fullstack-lms-challenge/services"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/middleware"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/response"
	"github.com/gofiber/fiber/v2"
)

// PurchaseHandler exposes the purchase ledger
type PurchaseHandler struct {
	purchases *services.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchases *services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

// Purchase handles POST /api/v1/courses/:id/purchase
func (h *PurchaseHandler) Purchase(c *fiber.Ctx) error {
	courseID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	result, err := h.purchases.Purchase(c.UserContext(), middleware.GetUserID(c), courseID)
	if err != nil {
		return response.FromError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response.Response{
		Success: true,
		Message: "Course purchased successfully",
		Data:    result,
	})
}

// GetPurchase handles GET /api/v1/courses/:id/purchase
func (h *PurchaseHandler) GetPurchase(c *fiber.Ctx) error {
	courseID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	result, err := h.purchases.GetPurchase(c.UserContext(), middleware.GetUserID(c), courseID)
	if err != nil {
		return response.FromError(c, err)
	}
	if result == nil {
		return response.NotFound(c, "Purchase not found")
	}
	return response.Success(c, result)
}

// PurchasedResponse answers checkPurchased
type PurchasedResponse struct {
	CourseID  uint `json:"course_id"`
	Purchased bool `json:"purchased"`
}

// CheckPurchased handles GET /api/v1/courses/:id/purchased
func (h *PurchaseHandler) CheckPurchased(c *fiber.Ctx) error {
	courseID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	ok, err := h.purchases.HasPurchased(c.UserContext(), middleware.GetUserID(c), courseID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, PurchasedResponse{CourseID: courseID, Purchased: ok})
}

// ListMine handles GET /api/v1/purchases/me
func (h *PurchaseHandler) ListMine(c *fiber.Ctx) error {
	result, err := h.purchases.ListPurchases(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, result)
}
