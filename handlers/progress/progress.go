package progress

import (
	"github.com/codeotter0201/fullstack-lms-challenge/handlers"
	"github.com/codeotter0201/fullstack-lms-challenge/services"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/middleware"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/response"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/validation"
	"github.com/gofiber/fiber/v2"
)

// ProgressHandler records playback and claims rewards
type ProgressHandler struct {
	progress   *services.ProgressService
	submission *services.SubmissionService
	validator  *validation.Validator
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progress *services.ProgressService, submission *services.SubmissionService) *ProgressHandler {
	return &ProgressHandler{
		progress:   progress,
		submission: submission,
		validator:  validation.NewValidator(),
	}
}

// UpdateProgressRequest is a playback report. Duration is the video length
// measured by the client, in seconds.
type UpdateProgressRequest struct {
	Position *int `json:"position" validate:"required,gte=0"`
	Duration *int `json:"duration" validate:"required,gte=1"`
}

// UpdateProgress handles PUT /api/v1/lessons/:id/progress
func (h *ProgressHandler) UpdateProgress(c *fiber.Ctx) error {
	lessonID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req UpdateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	snapshot, err := h.progress.RecordProgress(c.UserContext(), middleware.GetUserID(c), lessonID, *req.Position, *req.Duration)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, snapshot)
}

// GetProgress handles GET /api/v1/lessons/:id/progress
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	lessonID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	snapshot, err := h.progress.GetProgress(c.UserContext(), middleware.GetUserID(c), lessonID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, snapshot)
}

// Submit handles POST /api/v1/lessons/:id/submit
func (h *ProgressHandler) Submit(c *fiber.Ctx) error {
	lessonID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}
	result, err := h.submission.Submit(c.UserContext(), middleware.GetUserID(c), lessonID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Lesson submitted", result)
}
