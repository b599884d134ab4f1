package auth

import (
	"strings"

	"github.com/codeotter0201/fullstack-lms-challenge/database"
	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/repository"
	"github.com/codeotter0201/fullstack-lms-challenge/services"
	authutil "github.com/codeotter0201/fullstack-lms-challenge/utils/auth"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/logger"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/response"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	users            repository.UserRepo
	jwtManager       *authutil.JWTManager
	blacklistService *authutil.BlacklistService
	validator        *validation.Validator
	log              *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{
		users:            repository.NewUserRepo(db),
		jwtManager:       jwtManager,
		blacklistService: authutil.NewBlacklistService(db),
		validator:        validation.NewValidator(),
		log:              log.With("handler", "auth"),
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=100"`
}

// AuthResponse is returned by register, login and refresh
type AuthResponse struct {
	User services.UserResponse `json:"user"`
	*authutil.TokenPair
}

// Register handles user registration
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	req.Email = strings.ToLower(validation.SanitizeString(req.Email))
	req.DisplayName = validation.SanitizeString(req.DisplayName)
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	ctx := c.UserContext()
	exists, err := h.users.ExistsByEmail(ctx, nil, req.Email)
	if err != nil {
		return response.InternalServerError(c, "Failed to check email")
	}
	if exists {
		return response.Conflict(c, "Email already registered")
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.InternalServerError(c, "Failed to hash password")
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		Role:         model.RoleStudent,
		Level:        1,
	}
	if err := h.users.Create(ctx, nil, user); err != nil {
		if database.IsUniqueViolation(err) {
			return response.Conflict(c, "Email already registered")
		}
		return response.InternalServerError(c, "Failed to create user")
	}

	tokens, err := h.jwtManager.IssuePair(subjectOf(user))
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}

	h.log.Info("user registered", "user_id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(response.Response{
		Success: true,
		Message: "Registration successful",
		Data:    AuthResponse{User: services.NewUserResponse(user), TokenPair: tokens},
	})
}

func subjectOf(user *model.User) authutil.Subject {
	return authutil.Subject{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	}
}
