package services

import (
	"context"
	"fmt"
	"math/bits"
	"time"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/repository"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/apperror"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/logger"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/metrics"
	"gorm.io/gorm"
)

// CompletionPercentage is floor(position*100/duration) capped at 100.
func CompletionPercentage(position, duration int) int {
	if duration <= 0 || position <= 0 {
		return 0
	}
	if position >= duration {
		return 100
	}
	// 128-bit product so large positions cannot wrap; hi < duration since position < duration.
	hi, lo := bits.Mul64(uint64(position), 100)
	pct, _ := bits.Div64(hi, lo, uint64(duration))
	return int(pct)
}

// advanceProgress returns the percentage and status after a playback report.
// Percentage follows the reported position in both directions until the
// lesson is submitted; a submitted row keeps 100% and its status.
func advanceProgress(current *model.Progress, position, duration int) (int, model.ProgressStatus) {
	if current != nil && current.IsSubmitted() {
		return current.ProgressPercentage, model.ProgressSubmitted
	}
	pct := CompletionPercentage(position, duration)
	if pct >= 100 {
		return pct, model.ProgressCompleted
	}
	return pct, model.ProgressInProgress
}

// ProgressService tracks per-user lesson playback
type ProgressService struct {
	db          *gorm.DB
	users       repository.UserRepo
	courses     repository.CourseRepo
	progress    repository.ProgressRepo
	entitlement *EntitlementService
	log         *logger.Logger
	now         func() time.Time
}

// NewProgressService creates a new progress service
func NewProgressService(db *gorm.DB, entitlement *EntitlementService, log *logger.Logger) *ProgressService {
	if log == nil {
		log = logger.Nop()
	}
	return &ProgressService{
		db:          db,
		users:       repository.NewUserRepo(db),
		courses:     repository.NewCourseRepo(db),
		progress:    repository.NewProgressRepo(db),
		entitlement: entitlement,
		log:         log.With("service", "ProgressService"),
		now:         time.Now,
	}
}

// RecordProgress stores the caller's playback position for a lesson and
// returns the resulting state. duration is the video length the client
// measured for this call; it is not persisted.
func (s *ProgressService) RecordProgress(ctx context.Context, userID, lessonID uint, position, duration int) (*ProgressSnapshot, error) {
	snapshot, err := s.recordProgress(ctx, userID, lessonID, position, duration)
	metrics.ProgressUpdates.WithLabelValues(metrics.Result(err)).Inc()
	return snapshot, err
}

func (s *ProgressService) recordProgress(ctx context.Context, userID, lessonID uint, position, duration int) (*ProgressSnapshot, error) {
	const op = "progress.RecordProgress"
	if position < 0 {
		return nil, apperror.InvalidArgument(op, "position must not be negative")
	}
	if duration < 1 {
		return nil, apperror.InvalidArgument(op, "duration must be at least 1 second")
	}

	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound(op, "user not found")
	}

	lesson, err := s.courses.GetLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	if lesson == nil {
		return nil, apperror.NotFound(op, "lesson not found")
	}

	allowed, err := s.entitlement.CanAccessLesson(ctx, nil, userID, lesson)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.Forbidden(op, "purchase this course to track progress on its lessons")
	}

	var snapshot ProgressSnapshot
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.progress.GetForUpdate(ctx, tx, userID, lessonID)
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}

		pct, status := advanceProgress(current, position, duration)
		now := s.now()
		row := &model.Progress{
			CreatedAt:          now,
			UpdatedAt:          now,
			UserID:             userID,
			LessonID:           lessonID,
			LastPosition:       position,
			ProgressPercentage: pct,
			Status:             status,
		}
		if err := s.progress.Upsert(ctx, tx, row); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}

		stored, err := s.progress.Get(ctx, tx, userID, lessonID)
		if err != nil {
			return fmt.Errorf("failed to reload progress: %w", err)
		}
		if stored == nil {
			return apperror.InvariantViolation(op, "progress row missing after save")
		}
		snapshot = newProgressSnapshot(stored)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("progress recorded",
		"user_id", userID,
		"lesson_id", lessonID,
		"position", position,
		"percentage", snapshot.ProgressPercentage,
	)
	return &snapshot, nil
}

// GetProgress returns the stored state, or a zero snapshot when the user
// never reported progress on the lesson.
func (s *ProgressService) GetProgress(ctx context.Context, userID, lessonID uint) (*ProgressSnapshot, error) {
	const op = "progress.GetProgress"
	lesson, err := s.courses.GetLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	if lesson == nil {
		return nil, apperror.NotFound(op, "lesson not found")
	}

	row, err := s.progress.Get(ctx, nil, userID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	if row == nil {
		return &ProgressSnapshot{LessonID: lessonID}, nil
	}
	snapshot := newProgressSnapshot(row)
	return &snapshot, nil
}
