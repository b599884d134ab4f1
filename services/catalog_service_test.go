package services

import (
	"context"
	"strings"
	"testing"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/apperror"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prefixSigner struct{}

func (prefixSigner) SignURL(_ context.Context, ref string) (string, error) {
	return "signed:" + ref, nil
}

func TestListCoursesAnnotatesAccess(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	free := testutil.CreateCourse(t, ts.db, "Intro", false, "0")
	premium := testutil.CreateCourse(t, ts.db, "Design Patterns", true, "2990.00")
	testutil.CreateLesson(t, ts.db, premium.ID, "Strategy", 200)
	testutil.CreateLesson(t, ts.db, premium.ID, "Observer", 200)
	hidden := testutil.CreateLesson(t, ts.db, premium.ID, "Draft", 200)
	require.NoError(t, ts.db.Model(&model.Lesson{}).Where("id = ?", hidden.ID).Update("is_published", false).Error)

	courses, err := ts.catalog.ListCourses(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, courses, 2)

	byID := map[uint]CourseResponse{}
	for _, c := range courses {
		byID[c.ID] = c
	}
	assert.True(t, byID[free.ID].HasAccess)
	assert.False(t, byID[premium.ID].HasAccess)
	assert.Equal(t, "2990.00", byID[premium.ID].Price)
	assert.Equal(t, 2, byID[premium.ID].TotalLessons)

	_, err = ts.purchase.Purchase(ctx, user.ID, premium.ID)
	require.NoError(t, err)

	courses, err = ts.catalog.ListCourses(ctx, user.ID)
	require.NoError(t, err)
	for _, c := range courses {
		assert.True(t, c.HasAccess, c.Title)
	}
}

func TestLessonMediaWithheldUntilPurchase(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	course := testutil.CreateCourse(t, ts.db, "Design Patterns", true, "2990.00")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Strategy", 200)

	got, err := ts.catalog.GetLesson(ctx, lesson.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, got.MediaLocked)
	assert.Empty(t, got.VideoURL)
	assert.Nil(t, got.VideoDuration)
	assert.Equal(t, "Strategy", got.Title)

	anon, err := ts.catalog.ListLessons(ctx, course.ID, AnonymousUser)
	require.NoError(t, err)
	require.Len(t, anon, 1)
	assert.Empty(t, anon[0].VideoURL)

	_, err = ts.purchase.Purchase(ctx, user.ID, course.ID)
	require.NoError(t, err)

	got, err = ts.catalog.GetLesson(ctx, lesson.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, got.MediaLocked)
	assert.Equal(t, lesson.VideoURL, got.VideoURL)
	require.NotNil(t, got.VideoDuration)
	assert.Equal(t, 600, *got.VideoDuration)
}

func TestListLessonsCarriesProgress(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "learner@example.com")
	course := testutil.CreateCourse(t, ts.db, "Intro", false, "0")
	first := testutil.CreateLesson(t, ts.db, course.ID, "Welcome", 200)
	testutil.CreateLesson(t, ts.db, course.ID, "Setup", 200)

	_, err := ts.progress.RecordProgress(ctx, user.ID, first.ID, 300, 600)
	require.NoError(t, err)

	lessons, err := ts.catalog.ListLessons(ctx, course.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	for _, l := range lessons {
		if l.ID == first.ID {
			assert.Equal(t, 50, l.ProgressPercentage)
			assert.Equal(t, 300, l.LastPosition)
			continue
		}
		assert.Zero(t, l.ProgressPercentage)
	}
}

func TestCatalogSignsEntitledMedia(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	catalog := NewCatalogService(ts.db, ts.entitlement, prefixSigner{})
	course := testutil.CreateCourse(t, ts.db, "Intro", false, "0")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Welcome", 200)

	got, err := catalog.GetLesson(ctx, lesson.ID, AnonymousUser)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.VideoURL, "signed:"))
}

func TestCatalogHidesUnpublished(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	course := testutil.CreateCourse(t, ts.db, "Draft course", false, "0")
	lesson := testutil.CreateLesson(t, ts.db, course.ID, "Welcome", 200)
	require.NoError(t, ts.db.Model(&model.Course{}).Where("id = ?", course.ID).Update("is_published", false).Error)

	_, err := ts.catalog.GetCourse(ctx, course.ID, AnonymousUser)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = ts.catalog.GetLesson(ctx, lesson.ID, AnonymousUser)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = ts.catalog.ListLessons(ctx, course.ID, AnonymousUser)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	courses, err := ts.catalog.ListCourses(ctx, AnonymousUser)
	require.NoError(t, err)
	assert.Empty(t, courses)
}
