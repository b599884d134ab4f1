package auth

import (
	"context"
	"time"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"gorm.io/gorm"
)

// BlacklistService handles JWT token revocation
type BlacklistService struct {
	db *gorm.DB
}

// NewBlacklistService creates a new blacklist service
func NewBlacklistService(db *gorm.DB) *BlacklistService {
	return &BlacklistService{db: db}
}

// Revoke blacklists the token described by claims until it would have expired anyway.
func (s *BlacklistService) Revoke(ctx context.Context, claims *Claims, reason string) error {
	entry := model.JWTTokenBlacklist{
		TokenID:   claims.ID,
		UserID:    claims.UserID,
		Reason:    reason,
		ExpiresAt: claims.Expiry(),
	}
	return s.db.WithContext(ctx).Create(&entry).Error
}

// IsRevoked checks if a token id is in the blacklist
func (s *BlacklistService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.JWTTokenBlacklist{}).
		Where("token_id = ? AND expires_at > ?", jti, time.Now()).
		Count(&count).Error
	return count > 0, err
}

// RevokeAllUserTokens bumps the user's token version, invalidating every token issued so far
func (s *BlacklistService) RevokeAllUserTokens(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + ?", 1)).Error
}

// CleanupExpiredTokens removes expired entries and returns how many were deleted
func (s *BlacklistService) CleanupExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.JWTTokenBlacklist{})
	return res.RowsAffected, res.Error
}
