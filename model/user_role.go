package model

import "time"

const (
	UserRoleFree    = "FREE"
	UserRolePaid    = "PAID"
	UserRoleAdmin   = "ADMIN"
	UserRoleTeacher = "TEACHER"
)

// UserRole is an administrative tier grant. It is shown to admins and clients
// but is never consulted when deciding course access.
type UserRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_roles_user_role" json:"user_id"`
	Role      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_roles_user_role" json:"role"`
	GrantedAt time.Time `gorm:"not null" json:"granted_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for UserRole
func (UserRole) TableName() string {
	return "user_roles"
}

// IsValidUserRole reports whether role is one of the known tiers.
func IsValidUserRole(role string) bool {
	switch role {
	case UserRoleFree, UserRolePaid, UserRoleAdmin, UserRoleTeacher:
		return true
	}
	return false
}
