package repository

import (
	"context"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"gorm.io/gorm"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, user *model.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	// AddExperience increments experience in place so concurrent awards never lose updates.
	AddExperience(ctx context.Context, tx *gorm.DB, id uint, delta int) error
	UpdateLevel(ctx context.Context, tx *gorm.DB, id uint, level int) error
	ListAfter(ctx context.Context, tx *gorm.DB, afterID uint, limit int) ([]model.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, tx *gorm.DB, user *model.User) error {
	return conn(r.db, tx).WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*model.User, error) {
	return firstOrNil(conn(r.db, tx).WithContext(ctx).Where("id = ?", id), &model.User{})
}

func (r *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.User, error) {
	return firstOrNil(conn(r.db, tx).WithContext(ctx).Where("email = ?", email), &model.User{})
}

func (r *userRepo) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	var count int64
	err := conn(r.db, tx).WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepo) AddExperience(ctx context.Context, tx *gorm.DB, id uint, delta int) error {
	res := conn(r.db, tx).WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("experience", gorm.Expr("experience + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) UpdateLevel(ctx context.Context, tx *gorm.DB, id uint, level int) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("level", level).Error
}

func (r *userRepo) ListAfter(ctx context.Context, tx *gorm.DB, afterID uint, limit int) ([]model.User, error) {
	var users []model.User
	err := conn(r.db, tx).WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
