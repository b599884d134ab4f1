package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/repository"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/apperror"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/logger"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/metrics"
	"gorm.io/gorm"
)

// ExperienceChange describes one experience award
type ExperienceChange struct {
	User     *model.User
	Delta    int
	OldLevel int
	NewLevel int
}

// LeveledUp reports whether the award moved the user to a higher level.
func (c *ExperienceChange) LeveledUp() bool {
	return c != nil && c.NewLevel > c.OldLevel
}

// LevelUpHook is called after a committed award that raised the user's level.
// It must not block.
type LevelUpHook func(ctx context.Context, change *ExperienceChange)

// ExperienceService applies experience awards and keeps levels in step
type ExperienceService struct {
	users repository.UserRepo
	log   *logger.Logger
	hook  LevelUpHook
}

// NewExperienceService creates a new experience service. hook may be nil.
func NewExperienceService(db *gorm.DB, log *logger.Logger, hook LevelUpHook) *ExperienceService {
	if log == nil {
		log = logger.Nop()
	}
	return &ExperienceService{
		users: repository.NewUserRepo(db),
		log:   log.With("service", "ExperienceService"),
		hook:  hook,
	}
}

// AddExperience adds delta to the user's experience inside tx and updates the
// stored level only when it changes. The experience total is always written.
func (s *ExperienceService) AddExperience(ctx context.Context, tx *gorm.DB, userID uint, delta int) (*ExperienceChange, error) {
	const op = "experience.AddExperience"
	if delta < 0 {
		return nil, apperror.InvalidArgument(op, "experience can only increase")
	}

	if err := s.users.AddExperience(ctx, tx, userID, delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(op, "user not found")
		}
		return nil, fmt.Errorf("failed to add experience: %w", err)
	}

	user, err := s.users.GetByID(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	if user == nil {
		return nil, apperror.NotFound(op, "user not found")
	}

	change := &ExperienceChange{User: user, Delta: delta, OldLevel: user.Level, NewLevel: user.Level}
	if level := CalculateLevel(user.Experience); level != user.Level {
		if err := s.users.UpdateLevel(ctx, tx, userID, level); err != nil {
			return nil, fmt.Errorf("failed to update level: %w", err)
		}
		user.Level = level
		change.NewLevel = level
	}

	return change, nil
}

// Committed records a finished award and fires the level-up hook.
// Call it only after the surrounding transaction committed.
func (s *ExperienceService) Committed(ctx context.Context, change *ExperienceChange) {
	if change == nil {
		return
	}
	metrics.ExperienceAwarded.Add(float64(change.Delta))
	if !change.LeveledUp() {
		return
	}
	metrics.LevelUps.Inc()
	s.log.Info("user leveled up",
		"user_id", change.User.ID,
		"old_level", change.OldLevel,
		"new_level", change.NewLevel,
		"experience", change.User.Experience,
	)
	if s.hook != nil {
		s.hook(ctx, change)
	}
}
