package services

import (
	"context"
	"fmt"
	"time"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/repository"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/apperror"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/logger"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/metrics"
	"gorm.io/gorm"
)

// SubmissionService turns a completed lesson into a one-time experience award
type SubmissionService struct {
	db         *gorm.DB
	users      repository.UserRepo
	courses    repository.CourseRepo
	progress   repository.ProgressRepo
	experience *ExperienceService
	locker     KeyLocker
	log        *logger.Logger
	now        func() time.Time
}

// NewSubmissionService creates a new submission service. A nil locker falls
// back to an in-process one.
func NewSubmissionService(db *gorm.DB, experience *ExperienceService, locker KeyLocker, log *logger.Logger) *SubmissionService {
	if locker == nil {
		locker = NewLocalLocker()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SubmissionService{
		db:         db,
		users:      repository.NewUserRepo(db),
		courses:    repository.NewCourseRepo(db),
		progress:   repository.NewProgressRepo(db),
		experience: experience,
		locker:     locker,
		log:        log.With("service", "SubmissionService"),
		now:        time.Now,
	}
}

// checkSubmittable maps a progress row to the submit decision:
// nil means the row may move to submitted.
func checkSubmittable(row *model.Progress) error {
	const op = "submission.Submit"
	switch row.Status {
	case model.ProgressInProgress:
		return apperror.PreconditionFailed(op, "lesson not completed yet")
	case model.ProgressCompleted:
		if row.ProgressPercentage < 100 {
			return apperror.InvariantViolation(op, "progress is marked completed below 100%")
		}
		return nil
	case model.ProgressSubmitted:
		if row.ProgressPercentage < 100 {
			return apperror.InvariantViolation(op, "progress is marked submitted without completion")
		}
		return apperror.Conflict(op, "lesson already submitted")
	default:
		return apperror.InvariantViolation(op, fmt.Sprintf("unknown progress status %q", row.Status))
	}
}

// Submit claims the experience reward of a completed lesson. The second and
// later calls for the same user and lesson fail with a conflict.
func (s *SubmissionService) Submit(ctx context.Context, userID, lessonID uint) (*SubmissionResult, error) {
	result, err := s.submit(ctx, userID, lessonID)
	metrics.Submissions.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		s.log.Debug("submission rejected", "user_id", userID, "lesson_id", lessonID, "error", err.Error())
	}
	return result, err
}

func (s *SubmissionService) submit(ctx context.Context, userID, lessonID uint) (*SubmissionResult, error) {
	const op = "submission.Submit"

	unlock, err := s.locker.Lock(ctx, submitLockKey(userID, lessonID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock submission: %w", err)
	}
	defer unlock()

	var (
		change *ExperienceChange
		reward int
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.users.GetByID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		if user == nil {
			return apperror.NotFound(op, "user not found")
		}

		lesson, err := s.courses.GetLesson(ctx, tx, lessonID)
		if err != nil {
			return fmt.Errorf("failed to load lesson: %w", err)
		}
		if lesson == nil {
			return apperror.NotFound(op, "lesson not found")
		}

		row, err := s.progress.GetForUpdate(ctx, tx, userID, lessonID)
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}
		if row == nil {
			return apperror.PreconditionFailed(op, "complete the lesson first")
		}
		if err := checkSubmittable(row); err != nil {
			return err
		}

		reward = lesson.ExperienceReward
		moved, err := s.progress.MarkSubmitted(ctx, tx, row.ID, reward, s.now())
		if err != nil {
			return fmt.Errorf("failed to mark progress submitted: %w", err)
		}
		if !moved {
			// Another writer changed the row between the read and the write
			return apperror.Conflict(op, "lesson already submitted")
		}

		change, err = s.experience.AddExperience(ctx, tx, userID, reward)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.experience.Committed(ctx, change)
	s.log.Info("lesson submitted",
		"user_id", userID,
		"lesson_id", lessonID,
		"experience_gained", reward,
		"level", change.NewLevel,
	)

	return &SubmissionResult{
		LessonID:         lessonID,
		ExperienceGained: reward,
		IsSubmitted:      true,
		LeveledUp:        change.LeveledUp(),
		User:             NewUserResponse(change.User),
	}, nil
}
