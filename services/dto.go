package services

import (
	"time"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
)

// UserResponse is the public view of a user including level progress
type UserResponse struct {
	ID              uint   `json:"id"`
	Email           string `json:"email"`
	DisplayName     string `json:"display_name"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	Role            string `json:"role"`
	Level           int    `json:"level"`
	Experience      int    `json:"experience"`
	ExpForNextLevel int    `json:"exp_for_next_level"`
	LevelProgress   int    `json:"level_progress"`
	IsPremium       bool   `json:"is_premium"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		DisplayName:     u.DisplayName,
		AvatarURL:       u.AvatarURL,
		Role:            u.Role,
		Level:           u.Level,
		Experience:      u.Experience,
		ExpForNextLevel: ExpForNextLevel(u.Level),
		LevelProgress:   LevelProgress(u.Experience, u.Level),
		IsPremium:       u.IsPremium,
	}
}

// ProgressSnapshot is the caller-facing state of one Progress row
type ProgressSnapshot struct {
	LessonID           uint `json:"lesson_id"`
	ProgressPercentage int  `json:"progress_percentage"`
	LastPosition       int  `json:"last_position"`
	IsCompleted        bool `json:"is_completed"`
	IsSubmitted        bool `json:"is_submitted"`
}

func newProgressSnapshot(p *model.Progress) ProgressSnapshot {
	return ProgressSnapshot{
		LessonID:           p.LessonID,
		ProgressPercentage: p.ProgressPercentage,
		LastPosition:       p.LastPosition,
		IsCompleted:        p.IsCompleted(),
		IsSubmitted:        p.IsSubmitted(),
	}
}

// SubmissionResult is returned by a successful submit
type SubmissionResult struct {
	LessonID         uint         `json:"lesson_id"`
	ExperienceGained int          `json:"experience_gained"`
	IsSubmitted      bool         `json:"is_submitted"`
	LeveledUp        bool         `json:"leveled_up"`
	User             UserResponse `json:"user"`
}

// PurchaseResponse is the caller-facing view of a purchase record
type PurchaseResponse struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user_id"`
	CourseID      uint      `json:"course_id"`
	CourseTitle   string    `json:"course_title"`
	PurchasePrice string    `json:"purchase_price"`
	PurchaseDate  time.Time `json:"purchase_date"`
	PaymentStatus string    `json:"payment_status"`
	TransactionID string    `json:"transaction_id"`
}

func newPurchaseResponse(p *model.CoursePurchase) PurchaseResponse {
	return PurchaseResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		CourseID:      p.CourseID,
		CourseTitle:   p.Course.Title,
		PurchasePrice: p.PurchasePrice.StringFixed(2),
		PurchaseDate:  p.PurchaseDate,
		PaymentStatus: string(p.PaymentStatus),
		TransactionID: p.TransactionID,
	}
}

// CourseResponse is a catalog entry annotated for the caller
type CourseResponse struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	IsPremium    bool   `json:"is_premium"`
	Price        string `json:"price"`
	DisplayOrder int    `json:"display_order"`
	TotalLessons int    `json:"total_lessons"`
	HasAccess    bool   `json:"has_access"`
}

// LessonResponse is a lesson as shown to one caller. VideoURL and
// VideoDuration are empty when the caller is not entitled to the course.
type LessonResponse struct {
	ID               uint   `json:"id"`
	CourseID         uint   `json:"course_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Type             string `json:"type"`
	Content          string `json:"content,omitempty"`
	DisplayOrder     int    `json:"display_order"`
	ExperienceReward int    `json:"experience_reward"`
	VideoURL         string `json:"video_url,omitempty"`
	VideoDuration    *int   `json:"video_duration,omitempty"`
	MediaLocked      bool   `json:"media_locked"`

	ProgressPercentage int  `json:"progress_percentage"`
	LastPosition       int  `json:"last_position"`
	IsCompleted        bool `json:"is_completed"`
	IsSubmitted        bool `json:"is_submitted"`
}

// UserRoleResponse is an administrative tier grant
type UserRoleResponse struct {
	ID        uint      `json:"id"`
	Role      string    `json:"role"`
	GrantedAt time.Time `json:"granted_at"`
}
