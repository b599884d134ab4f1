package course

import (
	"github.com/codeotter0201/fullstack-lms-challenge/handlers"
	"github.com/codeotter0201/fullstack-lms-challenge/services"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/middleware"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/response"
	"github.com/gofiber/fiber/v2"
)

// CourseHandler serves the catalog read paths. All routes accept anonymous callers.
type CourseHandler struct {
	catalog     *services.CatalogService
	entitlement *services.EntitlementService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(catalog *services.CatalogService, entitlement *services.EntitlementService) *CourseHandler {
	return &CourseHandler{catalog: catalog, entitlement: entitlement}
}

// ListCourses handles GET /api/v1/courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.catalog.ListCourses(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, courses)
}

// GetCourse handles GET /api/v1/courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	courseID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	course, err := h.catalog.GetCourse(c.UserContext(), courseID, middleware.GetUserID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, course)
}

// ListLessons handles GET /api/v1/courses/:id/lessons
func (h *CourseHandler) ListLessons(c *fiber.Ctx) error {
	courseID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	lessons, err := h.catalog.ListLessons(c.UserContext(), courseID, middleware.GetUserID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, lessons)
}

// GetLesson handles GET /api/v1/lessons/:id
func (h *CourseHandler) GetLesson(c *fiber.Ctx) error {
	lessonID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	lesson, err := h.catalog.GetLesson(c.UserContext(), lessonID, middleware.GetUserID(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, lesson)
}

// AccessResponse answers checkAccess
type AccessResponse struct {
	CourseID  uint `json:"course_id"`
	HasAccess bool `json:"has_access"`
}

// CheckAccess handles GET /api/v1/courses/:id/access
func (h *CourseHandler) CheckAccess(c *fiber.Ctx) error {
	courseID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	ok, err := h.entitlement.HasAccess(c.UserContext(), middleware.GetUserID(c), courseID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, AccessResponse{CourseID: courseID, HasAccess: ok})
}
