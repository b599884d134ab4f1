package model

import "time"

// ProgressStatus is the lifecycle of a Progress row:
// in_progress <-> completed -> submitted. Submitted is terminal.
type ProgressStatus string

const (
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
	ProgressSubmitted  ProgressStatus = "submitted"
)

// Progress is the playback state of one user on one lesson.
// There is at most one row per (user, lesson).
type Progress struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	UserID             uint           `gorm:"not null;uniqueIndex:idx_progress_user_lesson,priority:1" json:"user_id"`
	LessonID           uint           `gorm:"not null;uniqueIndex:idx_progress_user_lesson,priority:2;index" json:"lesson_id"`
	LastPosition       int            `gorm:"not null;default:0" json:"last_position"`
	ProgressPercentage int            `gorm:"not null;default:0" json:"progress_percentage"`
	Status             ProgressStatus `gorm:"type:varchar(20);not null;default:'in_progress'" json:"status"`
	ExperienceGained   int            `gorm:"not null;default:0" json:"experience_gained"`
	SubmittedAt        *time.Time     `json:"submitted_at,omitempty"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Lesson Lesson `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Progress
func (Progress) TableName() string {
	return "progress"
}

// IsCompleted reports whether the lesson has been watched to the end.
// A submitted lesson is always completed.
func (p *Progress) IsCompleted() bool {
	return p.Status == ProgressCompleted || p.Status == ProgressSubmitted
}

// IsSubmitted reports whether the experience reward has been claimed.
func (p *Progress) IsSubmitted() bool {
	return p.Status == ProgressSubmitted
}
