package repository

import (
	"context"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"gorm.io/gorm"
)

type UserRoleRepo interface {
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]model.UserRole, error)
	Exists(ctx context.Context, tx *gorm.DB, userID uint, role string) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, row *model.UserRole) error
	Delete(ctx context.Context, tx *gorm.DB, userID uint, role string) (int64, error)
}

type userRoleRepo struct {
	db *gorm.DB
}

func NewUserRoleRepo(db *gorm.DB) UserRoleRepo {
	return &userRoleRepo{db: db}
}

func (r *userRoleRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]model.UserRole, error) {
	var rows []model.UserRole
	err := conn(r.db, tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("granted_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *userRoleRepo) Exists(ctx context.Context, tx *gorm.DB, userID uint, role string) (bool, error) {
	var count int64
	err := conn(r.db, tx).WithContext(ctx).
		Model(&model.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	return count > 0, err
}

func (r *userRoleRepo) Create(ctx context.Context, tx *gorm.DB, row *model.UserRole) error {
	return conn(r.db, tx).WithContext(ctx).Create(row).Error
}

func (r *userRoleRepo) Delete(ctx context.Context, tx *gorm.DB, userID uint, role string) (int64, error) {
	res := conn(r.db, tx).WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&model.UserRole{})
	return res.RowsAffected, res.Error
}
