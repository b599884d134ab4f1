package repository

import (
	"context"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"gorm.io/gorm"
)

type PurchaseRepo interface {
	Exists(ctx context.Context, tx *gorm.DB, userID, courseID uint) (bool, error)
	ExistsWithStatus(ctx context.Context, tx *gorm.DB, userID, courseID uint, status model.PaymentStatus) (bool, error)
	Get(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*model.CoursePurchase, error)
	// Create inserts a purchase. The (user_id, course_id) unique index rejects duplicates.
	Create(ctx context.Context, tx *gorm.DB, purchase *model.CoursePurchase) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]model.CoursePurchase, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]model.CoursePurchase, error)
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepo {
	return &purchaseRepo{db: db}
}

func (r *purchaseRepo) Exists(ctx context.Context, tx *gorm.DB, userID, courseID uint) (bool, error) {
	var count int64
	err := conn(r.db, tx).WithContext(ctx).
		Model(&model.CoursePurchase{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *purchaseRepo) ExistsWithStatus(ctx context.Context, tx *gorm.DB, userID, courseID uint, status model.PaymentStatus) (bool, error) {
	var count int64
	err := conn(r.db, tx).WithContext(ctx).
		Model(&model.CoursePurchase{}).
		Where("user_id = ? AND course_id = ? AND payment_status = ?", userID, courseID, status).
		Count(&count).Error
	return count > 0, err
}

func (r *purchaseRepo) Get(ctx context.Context, tx *gorm.DB, userID, courseID uint) (*model.CoursePurchase, error) {
	return firstOrNil(conn(r.db, tx).WithContext(ctx).
		Preload("Course").
		Where("user_id = ? AND course_id = ?", userID, courseID), &model.CoursePurchase{})
}

func (r *purchaseRepo) Create(ctx context.Context, tx *gorm.DB, purchase *model.CoursePurchase) error {
	return conn(r.db, tx).WithContext(ctx).Omit("User", "Course").Create(purchase).Error
}

func (r *purchaseRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]model.CoursePurchase, error) {
	var purchases []model.CoursePurchase
	err := conn(r.db, tx).WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("purchase_date DESC, id DESC").
		Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]model.CoursePurchase, error) {
	var purchases []model.CoursePurchase
	err := conn(r.db, tx).WithContext(ctx).
		Preload("Course").
		Where("course_id = ?", courseID).
		Order("purchase_date ASC, id ASC").
		Find(&purchases).Error
	return purchases, err
}
