package services

import (
	"context"
	"math"
	"testing"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/apperror"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		position, duration, want int
	}{
		{0, 100, 0},
		{50, 100, 50},
		{99, 100, 99},
		{100, 100, 100},
		{150, 100, 100},
		{1, 3, 33},
		{2, 3, 66},
		{599, 600, 99},
		{0, 1, 0},
		{math.MaxInt64 / 50, 1, 100},
		{math.MaxInt64 / 50, math.MaxInt64 / 25, 50},
		{math.MaxInt64 - 1, math.MaxInt64, 99},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompletionPercentage(tt.position, tt.duration), "position=%d duration=%d", tt.position, tt.duration)
	}
}

func TestAdvanceProgress(t *testing.T) {
	pct, status := advanceProgress(nil, 30, 100)
	assert.Equal(t, 30, pct)
	assert.Equal(t, model.ProgressInProgress, status)

	completed := &model.Progress{ProgressPercentage: 100, Status: model.ProgressCompleted}
	pct, status = advanceProgress(completed, 10, 100)
	assert.Equal(t, 10, pct)
	assert.Equal(t, model.ProgressInProgress, status)

	submitted := &model.Progress{ProgressPercentage: 100, Status: model.ProgressSubmitted}
	pct, status = advanceProgress(submitted, 10, 100)
	assert.Equal(t, 100, pct)
	assert.Equal(t, model.ProgressSubmitted, status)
}

func TestRecordProgressHalfThenFull(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	course := testutil.CreateCourse(t, ts.db, "Intro", false, "0")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Welcome", 200)

	snap, err := ts.progress.RecordProgress(ctx, user.ID, lesson.ID, 50, 100)
	require.NoError(t, err)
	assert.Equal(t, 50, snap.ProgressPercentage)
	assert.Equal(t, 50, snap.LastPosition)
	assert.False(t, snap.IsCompleted)
	assert.False(t, snap.IsSubmitted)

	snap, err = ts.progress.RecordProgress(ctx, user.ID, lesson.ID, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, snap.ProgressPercentage)
	assert.True(t, snap.IsCompleted)
	assert.False(t, snap.IsSubmitted)

	var rows int64
	ts.db.Model(&model.Progress{}).Where("user_id = ? AND lesson_id = ?", user.ID, lesson.ID).Count(&rows)
	assert.Equal(t, int64(1), rows)
}

func TestRecordProgressCanRegressBeforeSubmit(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	course := testutil.CreateCourse(t, ts.db, "Intro", false, "0")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Welcome", 200)

	_, err := ts.progress.RecordProgress(ctx, user.ID, lesson.ID, 100, 100)
	require.NoError(t, err)

	snap, err := ts.progress.RecordProgress(ctx, user.ID, lesson.ID, 20, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, snap.ProgressPercentage)
	assert.False(t, snap.IsCompleted)
}

func TestRecordProgressAfterSubmitKeepsState(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	course := testutil.CreateCourse(t, ts.db, "Intro", false, "0")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Welcome", 200)

	_, err := ts.progress.RecordProgress(ctx, user.ID, lesson.ID, 100, 100)
	require.NoError(t, err)
	_, err = ts.submission.Submit(ctx, user.ID, lesson.ID)
	require.NoError(t, err)

	snap, err := ts.progress.RecordProgress(ctx, user.ID, lesson.ID, 5, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, snap.ProgressPercentage)
	assert.Equal(t, 5, snap.LastPosition)
	assert.True(t, snap.IsCompleted)
	assert.True(t, snap.IsSubmitted)

	var row model.Progress
	require.NoError(t, ts.db.Where("user_id = ? AND lesson_id = ?", user.ID, lesson.ID).First(&row).Error)
	assert.Equal(t, model.ProgressSubmitted, row.Status)
	assert.Equal(t, 200, row.ExperienceGained)
	assert.NotNil(t, row.SubmittedAt)
}

func TestRecordProgressPremiumRequiresPurchase(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	course := testutil.CreateCourse(t, ts.db, "Design Patterns", true, "2990.00")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Strategy", 200)

	_, err := ts.progress.RecordProgress(ctx, user.ID, lesson.ID, 10, 100)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = ts.purchase.Purchase(ctx, user.ID, course.ID)
	require.NoError(t, err)

	snap, err := ts.progress.RecordProgress(ctx, user.ID, lesson.ID, 10, 100)
	require.NoError(t, err)
	assert.Equal(t, 10, snap.ProgressPercentage)
}

func TestRecordProgressInvalidInput(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	course := testutil.CreateCourse(t, ts.db, "Intro", false, "0")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Welcome", 200)

	_, err := ts.progress.RecordProgress(ctx, user.ID, lesson.ID, -1, 100)
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	_, err = ts.progress.RecordProgress(ctx, user.ID, lesson.ID, 10, 0)
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	_, err = ts.progress.RecordProgress(ctx, 999, lesson.ID, 10, 100)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = ts.progress.RecordProgress(ctx, user.ID, 999, 10, 100)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetProgressWithoutRow(t *testing.T) {
	ts := newTestServices(t)
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	course := testutil.CreateCourse(t, ts.db, "Intro", false, "0")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Welcome", 200)

	snap, err := ts.progress.GetProgress(context.Background(), user.ID, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.ID, snap.LessonID)
	assert.Zero(t, snap.ProgressPercentage)
	assert.False(t, snap.IsCompleted)
}

func TestGetProgressUnknownLesson(t *testing.T) {
	ts := newTestServices(t)
	user := testutil.CreateUser(t, ts.db, "learner@example.com")

	_, err := ts.progress.GetProgress(context.Background(), user.ID, 42)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRecordProgressHugePositionStaysInRange(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	course := testutil.CreateCourse(t, ts.db, "Intro", false, "0")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Welcome", 200)

	snap, err := ts.progress.RecordProgress(ctx, user.ID, lesson.ID, math.MaxInt64/50, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, snap.ProgressPercentage)
	assert.True(t, snap.IsCompleted)

	var stored model.Progress
	require.NoError(t, ts.db.Where("user_id = ? AND lesson_id = ?", user.ID, lesson.ID).First(&stored).Error)
	assert.Equal(t, 100, stored.ProgressPercentage)
}
