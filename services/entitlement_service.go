package services

import (
	"context"
	"fmt"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/repository"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/apperror"
	"gorm.io/gorm"
)

// AnonymousUser is the user id of an unauthenticated caller.
const AnonymousUser uint = 0

// EntitlementService decides who may view premium course media.
// Only COMPLETED purchase records grant access. Account roles and the
// legacy premium flag on users are never consulted.
type EntitlementService struct {
	courses   repository.CourseRepo
	purchases repository.PurchaseRepo
}

func NewEntitlementService(db *gorm.DB) *EntitlementService {
	return &EntitlementService{
		courses:   repository.NewCourseRepo(db),
		purchases: repository.NewPurchaseRepo(db),
	}
}

// HasAccess reports whether userID may view courseID's protected content.
// Free courses are open to everyone, anonymous callers included.
func (s *EntitlementService) HasAccess(ctx context.Context, userID, courseID uint) (bool, error) {
	course, err := s.courses.GetCourse(ctx, nil, courseID)
	if err != nil {
		return false, fmt.Errorf("failed to load course: %w", err)
	}
	if course == nil {
		return false, apperror.NotFound("entitlement.HasAccess", "course not found")
	}
	return s.CanAccessCourse(ctx, nil, userID, course)
}

// CanAccessCourse is HasAccess for a course the caller already loaded.
func (s *EntitlementService) CanAccessCourse(ctx context.Context, tx *gorm.DB, userID uint, course *model.Course) (bool, error) {
	if !course.IsPremium {
		return true, nil
	}
	if userID == AnonymousUser {
		return false, nil
	}
	ok, err := s.purchases.ExistsWithStatus(ctx, tx, userID, course.ID, model.PaymentCompleted)
	if err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return ok, nil
}

// CanAccessLesson resolves the lesson's course and applies CanAccessCourse.
func (s *EntitlementService) CanAccessLesson(ctx context.Context, tx *gorm.DB, userID uint, lesson *model.Lesson) (bool, error) {
	course, err := s.courses.GetCourse(ctx, tx, lesson.CourseID)
	if err != nil {
		return false, fmt.Errorf("failed to load course: %w", err)
	}
	if course == nil {
		return false, apperror.NotFound("entitlement.CanAccessLesson", "course not found")
	}
	return s.CanAccessCourse(ctx, tx, userID, course)
}

// PurchasedCourseIDs returns the set of courses userID holds a COMPLETED purchase for.
func (s *EntitlementService) PurchasedCourseIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	owned := make(map[uint]bool)
	if userID == AnonymousUser {
		return owned, nil
	}
	purchases, err := s.purchases.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	for _, p := range purchases {
		if p.PaymentStatus == model.PaymentCompleted {
			owned[p.CourseID] = true
		}
	}
	return owned, nil
}
