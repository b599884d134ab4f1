package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	LessonTypeVideo   = "VIDEO"
	LessonTypeArticle = "ARTICLE"
	LessonTypeQuiz    = "QUIZ"
)

// DefaultExperienceReward is granted for a lesson that does not set its own reward.
const DefaultExperienceReward = 200

// Course is a sellable or free collection of lessons
type Course struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
	Title        string          `gorm:"not null" json:"title"`
	Description  string          `gorm:"type:text" json:"description"`
	ThumbnailURL string          `gorm:"type:varchar(500)" json:"thumbnail_url"`
	IsPremium    bool            `gorm:"not null" json:"is_premium"`
	IsPublished  bool            `gorm:"not null;index" json:"is_published"`
	DisplayOrder int             `gorm:"not null;default:0" json:"display_order"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`

	// Relationships
	Lessons []Lesson `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

// TableName specifies the table name for Course
func (Course) TableName() string {
	return "courses"
}

// Lesson is a single unit of a course. VideoURL and VideoDuration are the
// gated media fields.
type Lesson struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	CourseID         uint           `gorm:"not null;index" json:"course_id"`
	Title            string         `gorm:"not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Type             string         `gorm:"type:varchar(20);not null;default:'VIDEO'" json:"type"`
	VideoURL         string         `gorm:"type:varchar(500)" json:"video_url"`
	VideoDuration    *int           `json:"video_duration"` // seconds
	Content          string         `gorm:"type:text" json:"content"`
	DisplayOrder     int            `gorm:"not null;default:0" json:"display_order"`
	IsPublished      bool           `gorm:"not null;index" json:"is_published"`
	ExperienceReward int            `gorm:"not null;default:200" json:"experience_reward"`

	// Relationships
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Lesson
func (Lesson) TableName() string {
	return "lessons"
}
