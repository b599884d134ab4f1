package database

import (
	"context"
	"fmt"
	"os"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/auth"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded demo account.
const DemoPassword = "demo-password"

// Seeder handles database seeding operations
type Seeder struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, log *logger.Logger) *Seeder {
	if log == nil {
		log = logger.Nop()
	}
	return &Seeder{db: db, log: log.With("component", "seeder")}
}

// SeedAll runs every seed step. Each step is a no-op when its data already exists.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.log.Info("starting database seeding")

	if err := s.SeedAdminUser(ctx); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := s.SeedDemoUsers(ctx); err != nil {
		return fmt.Errorf("failed to seed demo users: %w", err)
	}
	if err := s.SeedCatalog(ctx); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	s.log.Info("database seeding completed")
	return nil
}

// SeedAdminUser creates the admin account from ADMIN_EMAIL and ADMIN_PASSWORD
func (s *Seeder) SeedAdminUser(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		s.log.Debug("admin user already exists, skipping")
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		s.log.Warn("ADMIN_EMAIL and ADMIN_PASSWORD not set, skipping admin user creation")
		return nil
	}

	admin, err := s.createUser(ctx, email, password, "Administrator", model.RoleAdmin)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&model.UserRole{UserID: admin.ID, Role: model.UserRoleAdmin, GrantedAt: admin.CreatedAt}).Error; err != nil {
		return err
	}
	s.log.Info("created admin user", "email", admin.Email)
	return nil
}

// SeedDemoUsers creates a student and a teacher sharing DemoPassword
func (s *Seeder) SeedDemoUsers(ctx context.Context) error {
	demo := []struct {
		email, name, role string
	}{
		{"student@example.com", "Demo Student", model.RoleStudent},
		{"teacher@example.com", "Demo Teacher", model.RoleTeacher},
	}
	for _, d := range demo {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", d.email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if _, err := s.createUser(ctx, d.email, DemoPassword, d.name, d.role); err != nil {
			return err
		}
		s.log.Info("created demo user", "email", d.email)
	}
	return nil
}

func (s *Seeder) createUser(ctx context.Context, email, password, name, role string) (*model.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  name,
		Role:         role,
		Level:        1,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

type seedLesson struct {
	title    string
	videoURL string
	duration int
}

type seedCourse struct {
	title       string
	description string
	premium     bool
	price       string
	lessons     []seedLesson
}

var demoCatalog = []seedCourse{
	{
		title:       "Software Engineering Fundamentals",
		description: "A free tour of how professional teams plan, build and ship software.",
		price:       "0",
		lessons: []seedLesson{
			{"Welcome to the course", "https://cdn.example.com/fundamentals/welcome.mp4", 300},
			{"Version control basics", "https://cdn.example.com/fundamentals/git.mp4", 900},
		},
	},
	{
		title:       "Design Patterns in Practice",
		description: "Classic object-oriented design patterns applied to real codebases.",
		premium:     true,
		price:       "2990.00",
		lessons: []seedLesson{
			{"Strategy pattern", "s3://lms-media/design-patterns/strategy.mp4", 1200},
			{"Observer pattern", "s3://lms-media/design-patterns/observer.mp4", 1100},
			{"State pattern", "s3://lms-media/design-patterns/state.mp4", 1300},
		},
	},
}

// SeedCatalog creates one free and one premium course with their lessons
func (s *Seeder) SeedCatalog(ctx context.Context) error {
	for order, c := range demoCatalog {
		var count int64
		if err := s.db.WithContext(ctx).Model(&model.Course{}).Where("title = ?", c.title).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			s.log.Debug("course already exists, skipping", "title", c.title)
			continue
		}

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			course := &model.Course{
				Title:        c.title,
				Description:  c.description,
				IsPremium:    c.premium,
				IsPublished:  true,
				DisplayOrder: order + 1,
				Price:        decimal.RequireFromString(c.price),
			}
			if err := tx.Create(course).Error; err != nil {
				return err
			}
			for i, l := range c.lessons {
				duration := l.duration
				lesson := &model.Lesson{
					CourseID:         course.ID,
					Title:            l.title,
					Type:             model.LessonTypeVideo,
					VideoURL:         l.videoURL,
					VideoDuration:    &duration,
					DisplayOrder:     i + 1,
					IsPublished:      true,
					ExperienceReward: model.DefaultExperienceReward,
				}
				if err := tx.Create(lesson).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		s.log.Info("created course", "title", c.title, "lessons", len(c.lessons))
	}
	return nil
}
