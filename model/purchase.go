package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentStatus of a course purchase. Only COMPLETED is produced today;
// the other states are reserved for a payment gateway integration.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// CoursePurchase records that a user bought a premium course.
// There is at most one row per (user, course).
type CoursePurchase struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	UserID          uint              `gorm:"not null;uniqueIndex:idx_purchase_user_course,priority:1" json:"user_id"`
	CourseID        uint              `gorm:"not null;uniqueIndex:idx_purchase_user_course,priority:2;index" json:"course_id"`
	PurchasePrice   decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"purchase_price"`
	PurchaseDate    time.Time         `gorm:"not null" json:"purchase_date"`
	PaymentStatus   PaymentStatus     `gorm:"type:varchar(20);not null;default:'PENDING'" json:"payment_status"`
	TransactionID   string            `gorm:"type:varchar(100);uniqueIndex" json:"transaction_id"`
	PaymentMetadata datatypes.JSONMap `json:"payment_metadata,omitempty"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for CoursePurchase
func (CoursePurchase) TableName() string {
	return "course_purchases"
}
