package services

import (
	"context"
	"fmt"
	"time"

	"github.com/codeotter0201/fullstack-lms-challenge/database"
	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/repository"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/apperror"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/logger"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/metrics"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MockGateway names the built-in payment stand-in recorded on every purchase.
const MockGateway = "mock"

// PurchaseService records course purchases. Payment is mocked: every
// accepted purchase is immediately COMPLETED.
type PurchaseService struct {
	db        *gorm.DB
	users     repository.UserRepo
	courses   repository.CourseRepo
	purchases repository.PurchaseRepo
	locker    KeyLocker
	log       *logger.Logger
	now       func() time.Time
}

// NewPurchaseService creates a new purchase service. A nil locker falls back
// to an in-process one.
func NewPurchaseService(db *gorm.DB, locker KeyLocker, log *logger.Logger) *PurchaseService {
	if locker == nil {
		locker = NewLocalLocker()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PurchaseService{
		db:        db,
		users:     repository.NewUserRepo(db),
		courses:   repository.NewCourseRepo(db),
		purchases: repository.NewPurchaseRepo(db),
		locker:    locker,
		log:       log.With("service", "PurchaseService"),
		now:       time.Now,
	}
}

// Purchase buys courseID for userID at the course's current price.
func (s *PurchaseService) Purchase(ctx context.Context, userID, courseID uint) (*PurchaseResponse, error) {
	result, err := s.purchase(ctx, userID, courseID)
	metrics.Purchases.WithLabelValues(metrics.Result(err)).Inc()
	return result, err
}

func (s *PurchaseService) purchase(ctx context.Context, userID, courseID uint) (*PurchaseResponse, error) {
	const op = "purchase.Purchase"

	unlock, err := s.locker.Lock(ctx, purchaseLockKey(userID, courseID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock purchase: %w", err)
	}
	defer unlock()

	var purchase *model.CoursePurchase
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.users.GetByID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		if user == nil {
			return apperror.NotFound(op, "user not found")
		}

		course, err := s.courses.GetCourse(ctx, tx, courseID)
		if err != nil {
			return fmt.Errorf("failed to load course: %w", err)
		}
		if course == nil {
			return apperror.NotFound(op, "course not found")
		}

		exists, err := s.purchases.Exists(ctx, tx, userID, courseID)
		if err != nil {
			return fmt.Errorf("failed to check existing purchase: %w", err)
		}
		if exists {
			return apperror.Conflict(op, "course already purchased")
		}

		if !course.IsPremium {
			return apperror.InvalidArgument(op, "cannot purchase a free course")
		}

		purchase = &model.CoursePurchase{
			UserID:        userID,
			CourseID:      courseID,
			PurchasePrice: course.Price,
			PurchaseDate:  s.now(),
			PaymentStatus: model.PaymentCompleted,
			TransactionID: "MOCK-" + uuid.NewString(),
			PaymentMetadata: datatypes.JSONMap{
				"gateway": MockGateway,
				"amount":  course.Price.StringFixed(2),
			},
		}
		if err := s.purchases.Create(ctx, tx, purchase); err != nil {
			if database.IsUniqueViolation(err) {
				return apperror.Wrap(op, apperror.ErrConflict, "course already purchased", err)
			}
			return fmt.Errorf("failed to create purchase: %w", err)
		}
		purchase.Course = *course
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("course purchased",
		"user_id", userID,
		"course_id", courseID,
		"price", purchase.PurchasePrice.StringFixed(2),
		"transaction_id", purchase.TransactionID,
	)
	resp := newPurchaseResponse(purchase)
	return &resp, nil
}

// HasPurchased reports whether any purchase record exists for the pair,
// whatever its payment status.
func (s *PurchaseService) HasPurchased(ctx context.Context, userID, courseID uint) (bool, error) {
	if userID == AnonymousUser {
		return false, nil
	}
	ok, err := s.purchases.Exists(ctx, nil, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return ok, nil
}

// ListPurchases returns the user's purchases, newest first.
func (s *PurchaseService) ListPurchases(ctx context.Context, userID uint) ([]PurchaseResponse, error) {
	rows, err := s.purchases.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return toPurchaseResponses(rows), nil
}

// GetPurchase returns the purchase for the pair, or nil when there is none.
func (s *PurchaseService) GetPurchase(ctx context.Context, userID, courseID uint) (*PurchaseResponse, error) {
	row, err := s.purchases.Get(ctx, nil, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	resp := newPurchaseResponse(row)
	return &resp, nil
}

// ListCoursePurchases returns every purchase of a course, oldest first.
func (s *PurchaseService) ListCoursePurchases(ctx context.Context, courseID uint) ([]PurchaseResponse, error) {
	course, err := s.courses.GetCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if course == nil {
		return nil, apperror.NotFound("purchase.ListCoursePurchases", "course not found")
	}
	rows, err := s.purchases.ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return toPurchaseResponses(rows), nil
}

func toPurchaseResponses(rows []model.CoursePurchase) []PurchaseResponse {
	out := make([]PurchaseResponse, 0, len(rows))
	for i := range rows {
		out = append(out, newPurchaseResponse(&rows[i]))
	}
	return out
}
