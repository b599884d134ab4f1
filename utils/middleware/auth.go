package middleware

import (
	"errors"
	"strings"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/repository"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/auth"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	localUser   = "user"
	localClaims = "claims"
)

var (
	errMissingToken = errors.New("missing authorization token")
	errBadFormat    = errors.New("invalid authorization format")
	errRevoked      = errors.New("token has been revoked")
	errStaleVersion = errors.New("token has been invalidated")
	errUnknownUser  = errors.New("user not found")
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	blacklist  *auth.BlacklistService
	users      repository.UserRepo
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  auth.NewBlacklistService(db),
		users:      repository.NewUserRepo(db),
	}
}

// authenticate resolves the bearer token to a live user. A nil user with a nil
// error is never returned.
func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*model.User, *auth.Claims, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return nil, nil, errMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, nil, errBadFormat
	}

	claims, err := m.jwtManager.ValidateToken(parts[1], auth.TokenTypeAccess)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := m.blacklist.IsRevoked(c.UserContext(), claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, errRevoked
	}

	user, err := m.users.GetByID(c.UserContext(), nil, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, errUnknownUser
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, nil, errStaleVersion
	}
	return user, claims, nil
}

func isAuthFailure(err error) bool {
	return errors.Is(err, errMissingToken) ||
		errors.Is(err, errBadFormat) ||
		errors.Is(err, errRevoked) ||
		errors.Is(err, errStaleVersion) ||
		errors.Is(err, errUnknownUser) ||
		errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrExpiredToken) ||
		errors.Is(err, auth.ErrWrongTokenType)
}

// Required rejects requests without a valid access token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, err := m.authenticate(c)
		if err != nil {
			if isAuthFailure(err) {
				return response.Unauthorized(c, err.Error())
			}
			return response.InternalServerError(c, "Failed to authenticate request")
		}
		c.Locals(localUser, user)
		c.Locals(localClaims, claims)
		return c.Next()
	}
}

// Optional attaches the user when a valid token is present and otherwise
// lets the request through as anonymous
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, claims, err := m.authenticate(c); err == nil {
			c.Locals(localUser, user)
			c.Locals(localClaims, claims)
		}
		return c.Next()
	}
}

// RequireAdmin must run after Required
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUser(c)
		if !ok {
			return response.Unauthorized(c, "")
		}
		if !user.IsAdmin() {
			return response.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}

// GetUserID returns the caller's id, or 0 for anonymous requests
func GetUserID(c *fiber.Ctx) uint {
	if user, ok := GetUser(c); ok {
		return user.ID
	}
	return 0
}

// GetUser extracts the authenticated user from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user, ok := c.Locals(localUser).(*model.User)
	return user, ok && user != nil
}

// GetClaims extracts the access token claims from context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(localClaims).(*auth.Claims)
	return claims, ok && claims != nil
}
