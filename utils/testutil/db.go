// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/codeotter0201/fullstack-lms-challenge/database"
	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a fresh, migrated in-memory SQLite database that is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.OpenSQLite(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a student with level 1 and no experience.
func CreateUser(t testing.TB, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		DisplayName:  email,
		Role:         model.RoleStudent,
		Level:        1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateCourse inserts a published course. price is a decimal string such as "2990.00".
func CreateCourse(t testing.TB, db *gorm.DB, title string, premium bool, price string) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:       title,
		Description: title + " description",
		IsPremium:   premium,
		IsPublished: true,
		Price:       decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

// CreateLesson inserts a published ten minute video lesson.
func CreateLesson(t testing.TB, db *gorm.DB, courseID uint, title string, reward int) *model.Lesson {
	t.Helper()
	duration := 600
	lesson := &model.Lesson{
		CourseID:         courseID,
		Title:            title,
		Description:      title + " description",
		Type:             model.LessonTypeVideo,
		VideoURL:         "https://cdn.example.com/" + uuid.NewString() + ".mp4",
		VideoDuration:    &duration,
		Content:          "transcript of " + title,
		IsPublished:      true,
		ExperienceReward: reward,
	}
	require.NoError(t, db.Create(lesson).Error)
	return lesson
}
