package services

import (
	"context"
	"fmt"
	"time"

	"github.com/codeotter0201/fullstack-lms-challenge/database"
	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/repository"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/apperror"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/logger"
	"gorm.io/gorm"
)

// RoleService manages administrative tier grants. Grants are informational
// only and do not unlock courses.
type RoleService struct {
	users repository.UserRepo
	roles repository.UserRoleRepo
	log   *logger.Logger
	now   func() time.Time
}

func NewRoleService(db *gorm.DB, log *logger.Logger) *RoleService {
	if log == nil {
		log = logger.Nop()
	}
	return &RoleService{
		users: repository.NewUserRepo(db),
		roles: repository.NewUserRoleRepo(db),
		log:   log.With("service", "RoleService"),
		now:   time.Now,
	}
}

// ListRoles returns the user's grants in the order they were made.
func (s *RoleService) ListRoles(ctx context.Context, userID uint) ([]UserRoleResponse, error) {
	if err := s.requireUser(ctx, "roles.ListRoles", userID); err != nil {
		return nil, err
	}
	rows, err := s.roles.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	out := make([]UserRoleResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, UserRoleResponse{ID: r.ID, Role: r.Role, GrantedAt: r.GrantedAt})
	}
	return out, nil
}

// GrantRole adds role to the user. Granting a role twice is a conflict.
func (s *RoleService) GrantRole(ctx context.Context, userID uint, role string) (*UserRoleResponse, error) {
	const op = "roles.GrantRole"
	if !model.IsValidUserRole(role) {
		return nil, apperror.InvalidArgument(op, fmt.Sprintf("unknown role %q", role))
	}
	if err := s.requireUser(ctx, op, userID); err != nil {
		return nil, err
	}

	row := &model.UserRole{UserID: userID, Role: role, GrantedAt: s.now()}
	if err := s.roles.Create(ctx, nil, row); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Wrap(op, apperror.ErrConflict, "role already granted", err)
		}
		return nil, fmt.Errorf("failed to grant role: %w", err)
	}
	s.log.Info("role granted", "user_id", userID, "role", role)
	return &UserRoleResponse{ID: row.ID, Role: row.Role, GrantedAt: row.GrantedAt}, nil
}

// RevokeRole removes role from the user.
func (s *RoleService) RevokeRole(ctx context.Context, userID uint, role string) error {
	const op = "roles.RevokeRole"
	if !model.IsValidUserRole(role) {
		return apperror.InvalidArgument(op, fmt.Sprintf("unknown role %q", role))
	}
	n, err := s.roles.Delete(ctx, nil, userID, role)
	if err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(op, "role not granted")
	}
	s.log.Info("role revoked", "user_id", userID, "role", role)
	return nil
}

func (s *RoleService) requireUser(ctx context.Context, op string, userID uint) error {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return apperror.NotFound(op, "user not found")
	}
	return nil
}
