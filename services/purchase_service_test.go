package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/repository"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/apperror"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPurchasePremiumCourse(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "buyer@example.com")
	course := testutil.CreateCourse(t, ts.db, "Design Patterns", true, "2990.00")
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ts.purchase.now = func() time.Time { return fixed }

	got, err := ts.purchase.Purchase(ctx, user.ID, course.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, course.ID, got.CourseID)
	assert.Equal(t, "Design Patterns", got.CourseTitle)
	assert.Equal(t, "2990.00", got.PurchasePrice)
	assert.Equal(t, string(model.PaymentCompleted), got.PaymentStatus)
	assert.True(t, strings.HasPrefix(got.TransactionID, "MOCK-"))
	assert.True(t, fixed.Equal(got.PurchaseDate))

	var stored model.CoursePurchase
	require.NoError(t, ts.db.First(&stored, got.ID).Error)
	assert.True(t, stored.PurchasePrice.Equal(decimal.RequireFromString("2990.00")))
	assert.Equal(t, MockGateway, stored.PaymentMetadata["gateway"])
	assert.Equal(t, "2990.00", stored.PaymentMetadata["amount"])
}

func TestPurchaseSnapshotsPrice(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "buyer@example.com")
	course := testutil.CreateCourse(t, ts.db, "Clean Code", true, "1500.00")

	_, err := ts.purchase.Purchase(ctx, user.ID, course.ID)
	require.NoError(t, err)

	require.NoError(t, ts.db.Model(&model.Course{}).Where("id = ?", course.ID).
		Update("price", decimal.RequireFromString("1999.00")).Error)

	got, err := ts.purchase.GetPurchase(ctx, user.ID, course.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1500.00", got.PurchasePrice)
}

func TestPurchaseTwiceConflicts(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "buyer@example.com")
	course := testutil.CreateCourse(t, ts.db, "Design Patterns", true, "2990.00")

	_, err := ts.purchase.Purchase(ctx, user.ID, course.ID)
	require.NoError(t, err)

	_, err = ts.purchase.Purchase(ctx, user.ID, course.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	var count int64
	ts.db.Model(&model.CoursePurchase{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPurchaseFreeCourseRejected(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "buyer@example.com")
	course := testutil.CreateCourse(t, ts.db, "Intro", false, "0")

	_, err := ts.purchase.Purchase(ctx, user.ID, course.ID)
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	purchased, err := ts.purchase.HasPurchased(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, purchased)
}

func TestPurchaseExistingRecordWinsOverFreeCheck(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "buyer@example.com")
	course := testutil.CreateCourse(t, ts.db, "Was Premium", true, "100.00")

	_, err := ts.purchase.Purchase(ctx, user.ID, course.ID)
	require.NoError(t, err)
	require.NoError(t, ts.db.Model(&model.Course{}).Where("id = ?", course.ID).Update("is_premium", false).Error)

	_, err = ts.purchase.Purchase(ctx, user.ID, course.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestPurchaseUnknownUserOrCourse(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "buyer@example.com")
	course := testutil.CreateCourse(t, ts.db, "Design Patterns", true, "2990.00")

	_, err := ts.purchase.Purchase(ctx, 999, course.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = ts.purchase.Purchase(ctx, user.ID, 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestConcurrentPurchasesSucceedOnce(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "buyer@example.com")
	course := testutil.CreateCourse(t, ts.db, "Design Patterns", true, "2990.00")

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ts.purchase.Purchase(ctx, user.ID, course.ID)
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
}

func TestPurchaseDuplicateInsertBecomesConflict(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, ts.db, "buyer@example.com")
	course := testutil.CreateCourse(t, ts.db, "Design Patterns", true, "2990.00")

	// Simulate a writer that skipped the existence check
	repo := repository.NewPurchaseRepo(ts.db)
	first := &model.CoursePurchase{UserID: user.ID, CourseID: course.ID, PurchasePrice: course.Price,
		PurchaseDate: time.Now(), PaymentStatus: model.PaymentCompleted, TransactionID: "MOCK-first"}
	require.NoError(t, repo.Create(ctx, nil, first))

	ts.purchase.purchases = existsAlwaysFalse{repo}
	_, err := ts.purchase.Purchase(ctx, user.ID, course.ID)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

type existsAlwaysFalse struct {
	repository.PurchaseRepo
}

func (existsAlwaysFalse) Exists(context.Context, *gorm.DB, uint, uint) (bool, error) {
	return false, nil
}

func TestListPurchasesAndCoursePurchases(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, ts.db, "alice@example.com")
	bob := testutil.CreateUser(t, ts.db, "bob@example.com")
	c1 := testutil.CreateCourse(t, ts.db, "One", true, "10.00")
	c2 := testutil.CreateCourse(t, ts.db, "Two", true, "20.00")

	_, err := ts.purchase.Purchase(ctx, alice.ID, c1.ID)
	require.NoError(t, err)
	_, err = ts.purchase.Purchase(ctx, alice.ID, c2.ID)
	require.NoError(t, err)
	_, err = ts.purchase.Purchase(ctx, bob.ID, c1.ID)
	require.NoError(t, err)

	mine, err := ts.purchase.ListPurchases(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := ts.purchase.ListPurchases(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)

	buyers, err := ts.purchase.ListCoursePurchases(ctx, c1.ID)
	require.NoError(t, err)
	require.Len(t, buyers, 2)
	assert.Equal(t, alice.ID, buyers[0].UserID)
	assert.Equal(t, bob.ID, buyers[1].UserID)

	_, err = ts.purchase.ListCoursePurchases(ctx, 999)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	missing, err := ts.purchase.GetPurchase(ctx, bob.ID, c2.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
