package repository

import (
	"context"
	"time"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepo interface {
	Get(ctx context.Context, tx *gorm.DB, userID, lessonID uint) (*model.Progress, error)
	// GetForUpdate row-locks the progress row until tx ends. The lock is a no-op on SQLite.
	GetForUpdate(ctx context.Context, tx *gorm.DB, userID, lessonID uint) (*model.Progress, error)
	// Upsert writes row keyed by (user_id, lesson_id) in one statement. An
	// already submitted row keeps its status and percentage.
	Upsert(ctx context.Context, tx *gorm.DB, row *model.Progress) error
	// MarkSubmitted moves a completed row to submitted. It reports false when
	// the row was not in the completed state at write time.
	MarkSubmitted(ctx context.Context, tx *gorm.DB, id uint, reward int, at time.Time) (bool, error)
	ListByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uint) ([]model.Progress, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]model.Progress, error)
}

type progressRepo struct {
	db *gorm.DB
}

func NewProgressRepo(db *gorm.DB) ProgressRepo {
	return &progressRepo{db: db}
}

func (r *progressRepo) Get(ctx context.Context, tx *gorm.DB, userID, lessonID uint) (*model.Progress, error) {
	return firstOrNil(conn(r.db, tx).WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID), &model.Progress{})
}

func (r *progressRepo) GetForUpdate(ctx context.Context, tx *gorm.DB, userID, lessonID uint) (*model.Progress, error) {
	return firstOrNil(conn(r.db, tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID), &model.Progress{})
}

// Upsert inserts or updates the (user, lesson) row in one statement.
// last_position always follows the report. Once a row is submitted its
// percentage and status are frozen at 100/submitted, so a later report with a
// smaller position does not recompute the percentage; a submitted row can
// never read as not completed.
func (r *progressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *model.Progress) error {
	keepSubmitted := func(column string) clause.Assignment {
		return clause.Assignment{
			Column: clause.Column{Name: column},
			Value: gorm.Expr(
				"CASE WHEN progress.status = ? THEN progress."+column+" ELSE excluded."+column+" END",
				model.ProgressSubmitted,
			),
		}
	}

	return conn(r.db, tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: append(
				clause.AssignmentColumns([]string{"last_position", "updated_at"}),
				keepSubmitted("progress_percentage"),
				keepSubmitted("status"),
			),
		}).
		Create(row).Error
}

func (r *progressRepo) MarkSubmitted(ctx context.Context, tx *gorm.DB, id uint, reward int, at time.Time) (bool, error) {
	res := conn(r.db, tx).WithContext(ctx).
		Model(&model.Progress{}).
		Where("id = ? AND status = ? AND progress_percentage >= ?", id, model.ProgressCompleted, 100).
		Updates(map[string]interface{}{
			"status":            model.ProgressSubmitted,
			"experience_gained": reward,
			"submitted_at":      at,
			"updated_at":        at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *progressRepo) ListByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uint) ([]model.Progress, error) {
	var rows []model.Progress
	err := conn(r.db, tx).WithContext(ctx).
		Joins("JOIN lessons ON lessons.id = progress.lesson_id").
		Where("progress.user_id = ? AND lessons.course_id = ?", userID, courseID).
		Find(&rows).Error
	return rows, err
}

func (r *progressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]model.Progress, error) {
	var rows []model.Progress
	err := conn(r.db, tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("lesson_id ASC").
		Find(&rows).Error
	return rows, err
}
