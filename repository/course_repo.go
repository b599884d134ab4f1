package repository

import (
	"context"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"gorm.io/gorm"
)

// CourseRepo is the read side of the course catalog.
type CourseRepo interface {
	GetCourse(ctx context.Context, tx *gorm.DB, id uint) (*model.Course, error)
	ListPublishedCourses(ctx context.Context, tx *gorm.DB) ([]model.Course, error)
	CountPublishedLessons(ctx context.Context, tx *gorm.DB, courseIDs []uint) (map[uint]int, error)
	GetLesson(ctx context.Context, tx *gorm.DB, id uint) (*model.Lesson, error)
	ListPublishedLessons(ctx context.Context, tx *gorm.DB, courseID uint) ([]model.Lesson, error)
	CreateCourse(ctx context.Context, tx *gorm.DB, course *model.Course) error
	CreateLesson(ctx context.Context, tx *gorm.DB, lesson *model.Lesson) error
}

type courseRepo struct {
	db *gorm.DB
}

func NewCourseRepo(db *gorm.DB) CourseRepo {
	return &courseRepo{db: db}
}

func (r *courseRepo) GetCourse(ctx context.Context, tx *gorm.DB, id uint) (*model.Course, error) {
	return firstOrNil(conn(r.db, tx).WithContext(ctx).Where("id = ?", id), &model.Course{})
}

func (r *courseRepo) ListPublishedCourses(ctx context.Context, tx *gorm.DB) ([]model.Course, error) {
	var courses []model.Course
	err := conn(r.db, tx).WithContext(ctx).
		Where("is_published = ?", true).
		Order("display_order ASC, id ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) CountPublishedLessons(ctx context.Context, tx *gorm.DB, courseIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CourseID uint
		Total    int
	}
	err := conn(r.db, tx).WithContext(ctx).
		Model(&model.Lesson{}).
		Select("course_id, COUNT(*) AS total").
		Where("course_id IN ? AND is_published = ?", courseIDs, true).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CourseID] = row.Total
	}
	return counts, nil
}

func (r *courseRepo) GetLesson(ctx context.Context, tx *gorm.DB, id uint) (*model.Lesson, error) {
	return firstOrNil(conn(r.db, tx).WithContext(ctx).Where("id = ?", id), &model.Lesson{})
}

func (r *courseRepo) ListPublishedLessons(ctx context.Context, tx *gorm.DB, courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := conn(r.db, tx).WithContext(ctx).
		Where("course_id = ? AND is_published = ?", courseID, true).
		Order("display_order ASC, id ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *courseRepo) CreateCourse(ctx context.Context, tx *gorm.DB, course *model.Course) error {
	return conn(r.db, tx).WithContext(ctx).Create(course).Error
}

func (r *courseRepo) CreateLesson(ctx context.Context, tx *gorm.DB, lesson *model.Lesson) error {
	return conn(r.db, tx).WithContext(ctx).Create(lesson).Error
}
