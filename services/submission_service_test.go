package services

import (
	"context"
	"sync"
	"testing"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/apperror"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAwardsExperienceOnce(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	course := testutil.CreateCourse(t, ts.db, "Intro", false, "0")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Welcome", 200)

	_, err := ts.progress.RecordProgress(ctx, user.ID, lesson.ID, 100, 100)
	require.NoError(t, err)

	result, err := ts.submission.Submit(ctx, user.ID, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.ID, result.LessonID)
	assert.Equal(t, 200, result.ExperienceGained)
	assert.True(t, result.IsSubmitted)
	assert.False(t, result.LeveledUp)
	assert.Equal(t, 200, result.User.Experience)
	assert.Equal(t, 1, result.User.Level)

	_, err = ts.submission.Submit(ctx, user.ID, lesson.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	var stored model.User
	require.NoError(t, ts.db.First(&stored, user.ID).Error)
	assert.Equal(t, 200, stored.Experience)
	assert.Equal(t, 1, stored.Level)
}

func TestSubmitBeforeCompletion(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	course := testutil.CreateCourse(t, ts.db, "Intro", false, "0")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Welcome", 200)

	_, err := ts.submission.Submit(ctx, user.ID, lesson.ID)
	assert.ErrorIs(t, err, apperror.ErrPreconditionFailed)

	_, err = ts.progress.RecordProgress(ctx, user.ID, lesson.ID, 50, 100)
	require.NoError(t, err)
	_, err = ts.submission.Submit(ctx, user.ID, lesson.ID)
	assert.ErrorIs(t, err, apperror.ErrPreconditionFailed)

	var stored model.User
	require.NoError(t, ts.db.First(&stored, user.ID).Error)
	assert.Zero(t, stored.Experience)
}

func TestSubmitUnknownUserOrLesson(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	course := testutil.CreateCourse(t, ts.db, "Intro", false, "0")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Welcome", 200)

	_, err := ts.submission.Submit(ctx, 999, lesson.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = ts.submission.Submit(ctx, user.ID, 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSubmitLevelsUpAndFiresHook(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	require.NoError(t, ts.db.Model(&model.User{}).Where("id = ?", user.ID).Update("experience", 900).Error)
	course := testutil.CreateCourse(t, ts.db, "Intro", false, "0")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Welcome", 200)

	_, err := ts.progress.RecordProgress(ctx, user.ID, lesson.ID, 600, 600)
	require.NoError(t, err)

	result, err := ts.submission.Submit(ctx, user.ID, lesson.ID)
	require.NoError(t, err)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 1100, result.User.Experience)
	assert.Equal(t, 2, result.User.Level)

	require.Len(t, ts.levelUps, 1)
	assert.Equal(t, 1, ts.levelUps[0].OldLevel)
	assert.Equal(t, 2, ts.levelUps[0].NewLevel)
	assert.Equal(t, 200, ts.levelUps[0].Delta)
}

func TestConcurrentSubmitsAwardOnce(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	course := testutil.CreateCourse(t, ts.db, "Intro", false, "0")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Welcome", 200)

	_, err := ts.progress.RecordProgress(ctx, user.ID, lesson.ID, 100, 100)
	require.NoError(t, err)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ts.submission.Submit(ctx, user.ID, lesson.ID)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrConflict)
	}
	assert.Equal(t, 1, successes)

	var stored model.User
	require.NoError(t, ts.db.First(&stored, user.ID).Error)
	assert.Equal(t, 200, stored.Experience)
}

func TestCheckSubmittable(t *testing.T) {
	tests := []struct {
		name string
		row  model.Progress
		want error
	}{
		{"in progress", model.Progress{Status: model.ProgressInProgress, ProgressPercentage: 40}, apperror.ErrPreconditionFailed},
		{"completed", model.Progress{Status: model.ProgressCompleted, ProgressPercentage: 100}, nil},
		{"completed below full", model.Progress{Status: model.ProgressCompleted, ProgressPercentage: 90}, apperror.ErrInvariantViolation},
		{"already submitted", model.Progress{Status: model.ProgressSubmitted, ProgressPercentage: 100}, apperror.ErrConflict},
		{"submitted below full", model.Progress{Status: model.ProgressSubmitted, ProgressPercentage: 30}, apperror.ErrInvariantViolation},
		{"unknown status", model.Progress{Status: "paused", ProgressPercentage: 100}, apperror.ErrInvariantViolation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := tt.row
			err := checkSubmittable(&row)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSubmitCorruptRowIsInvariantViolation(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	course := testutil.CreateCourse(t, ts.db, "Intro", false, "0")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Welcome", 200)

	require.NoError(t, ts.db.Create(&model.Progress{
		UserID: user.ID, LessonID: lesson.ID, ProgressPercentage: 60, Status: model.ProgressSubmitted,
	}).Error)

	_, err := ts.submission.Submit(ctx, user.ID, lesson.ID)
	assert.ErrorIs(t, err, apperror.ErrInvariantViolation)
}
