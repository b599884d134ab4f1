package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User represents a registered learner, teacher or administrator.
// Experience only ever grows; Level is derived from it.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	DisplayName  string         `gorm:"not null" json:"display_name"`
	AvatarURL    string         `gorm:"type:varchar(500)" json:"avatar_url,omitempty"`
	Role         string         `gorm:"type:varchar(20);default:'student'" json:"role"` // student, teacher, admin
	Level        int            `gorm:"not null;default:1" json:"level"`
	Experience   int            `gorm:"not null;default:0" json:"experience"`
	// IsPremium is a legacy display attribute. Course access is decided by purchases only.
	IsPremium    bool `gorm:"not null" json:"is_premium"`
	TokenVersion int  `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin account role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
