package services

import (
	"context"
	"fmt"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/repository"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/apperror"
	"gorm.io/gorm"
)

// CatalogService serves the public course and lesson read paths. Browsing
// never fails for lack of entitlement; protected media fields are withheld instead.
type CatalogService struct {
	courses     repository.CourseRepo
	progress    repository.ProgressRepo
	entitlement *EntitlementService
	signer      MediaSigner
}

// NewCatalogService creates a new catalog service. A nil signer returns media references as stored.
func NewCatalogService(db *gorm.DB, entitlement *EntitlementService, signer MediaSigner) *CatalogService {
	if signer == nil {
		signer = PassthroughSigner{}
	}
	return &CatalogService{
		courses:     repository.NewCourseRepo(db),
		progress:    repository.NewProgressRepo(db),
		entitlement: entitlement,
		signer:      signer,
	}
}

// ListCourses returns published courses in display order, annotated with the caller's access.
func (s *CatalogService) ListCourses(ctx context.Context, userID uint) ([]CourseResponse, error) {
	courses, err := s.courses.ListPublishedCourses(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	ids := make([]uint, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	totals, err := s.courses.CountPublishedLessons(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count lessons: %w", err)
	}
	owned, err := s.entitlement.PurchasedCourseIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		out = append(out, newCourseResponse(c, totals[c.ID], !c.IsPremium || owned[c.ID]))
	}
	return out, nil
}

// GetCourse returns one published course.
func (s *CatalogService) GetCourse(ctx context.Context, courseID, userID uint) (*CourseResponse, error) {
	course, err := s.publishedCourse(ctx, "catalog.GetCourse", courseID)
	if err != nil {
		return nil, err
	}
	totals, err := s.courses.CountPublishedLessons(ctx, nil, []uint{course.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to count lessons: %w", err)
	}
	access, err := s.entitlement.CanAccessCourse(ctx, nil, userID, course)
	if err != nil {
		return nil, err
	}
	resp := newCourseResponse(course, totals[course.ID], access)
	return &resp, nil
}

// ListLessons returns the published lessons of a published course with the
// caller's progress attached.
func (s *CatalogService) ListLessons(ctx context.Context, courseID, userID uint) ([]LessonResponse, error) {
	course, err := s.publishedCourse(ctx, "catalog.ListLessons", courseID)
	if err != nil {
		return nil, err
	}
	access, err := s.entitlement.CanAccessCourse(ctx, nil, userID, course)
	if err != nil {
		return nil, err
	}
	lessons, err := s.courses.ListPublishedLessons(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}

	byLesson := make(map[uint]*model.Progress)
	if userID != AnonymousUser {
		rows, err := s.progress.ListByUserAndCourse(ctx, nil, userID, courseID)
		if err != nil {
			return nil, fmt.Errorf("failed to load progress: %w", err)
		}
		for i := range rows {
			byLesson[rows[i].LessonID] = &rows[i]
		}
	}

	out := make([]LessonResponse, 0, len(lessons))
	for i := range lessons {
		resp, err := s.presentLesson(ctx, &lessons[i], access, byLesson[lessons[i].ID])
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// GetLesson returns one published lesson of a published course.
func (s *CatalogService) GetLesson(ctx context.Context, lessonID, userID uint) (*LessonResponse, error) {
	const op = "catalog.GetLesson"
	lesson, err := s.courses.GetLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	if lesson == nil || !lesson.IsPublished {
		return nil, apperror.NotFound(op, "lesson not found")
	}
	course, err := s.publishedCourse(ctx, op, lesson.CourseID)
	if err != nil {
		return nil, err
	}
	access, err := s.entitlement.CanAccessCourse(ctx, nil, userID, course)
	if err != nil {
		return nil, err
	}

	var progress *model.Progress
	if userID != AnonymousUser {
		progress, err = s.progress.Get(ctx, nil, userID, lessonID)
		if err != nil {
			return nil, fmt.Errorf("failed to load progress: %w", err)
		}
	}

	resp, err := s.presentLesson(ctx, lesson, access, progress)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *CatalogService) publishedCourse(ctx context.Context, op string, courseID uint) (*model.Course, error) {
	course, err := s.courses.GetCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if course == nil || !course.IsPublished {
		return nil, apperror.NotFound(op, "course not found")
	}
	return course, nil
}

func (s *CatalogService) presentLesson(ctx context.Context, lesson *model.Lesson, entitled bool, progress *model.Progress) (LessonResponse, error) {
	resp := LessonResponse{
		ID:               lesson.ID,
		CourseID:         lesson.CourseID,
		Title:            lesson.Title,
		Description:      lesson.Description,
		Type:             lesson.Type,
		Content:          lesson.Content,
		DisplayOrder:     lesson.DisplayOrder,
		ExperienceReward: lesson.ExperienceReward,
		MediaLocked:      !entitled,
	}

	if entitled {
		videoURL, err := s.signer.SignURL(ctx, lesson.VideoURL)
		if err != nil {
			return LessonResponse{}, err
		}
		resp.VideoURL = videoURL
		resp.VideoDuration = lesson.VideoDuration
	}

	if progress != nil {
		resp.ProgressPercentage = progress.ProgressPercentage
		resp.LastPosition = progress.LastPosition
		resp.IsCompleted = progress.IsCompleted()
		resp.IsSubmitted = progress.IsSubmitted()
	}
	return resp, nil
}

func newCourseResponse(c *model.Course, totalLessons int, access bool) CourseResponse {
	return CourseResponse{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		ThumbnailURL: c.ThumbnailURL,
		IsPremium:    c.IsPremium,
		Price:        c.Price.StringFixed(2),
		DisplayOrder: c.DisplayOrder,
		TotalLessons: totalLessons,
		HasAccess:    access,
	}
}
