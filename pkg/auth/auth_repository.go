package auth

import (
	"context"
	"time"

	"foodgram/entities"

	"gorm.io/gorm"
)

type (
	AuthRepository interface {
		RevokeToken(ctx context.Context, token *entities.RevokedToken) error
		IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
		DeleteExpiredTokens(ctx context.Context, now time.Time) error
	}

	authRepository struct {
		db *gorm.DB
	}
)

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) RevokeToken(ctx context.Context, token *entities.RevokedToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *authRepository) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.RevokedToken{}).
		Where("id = ?", tokenID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *authRepository) DeleteExpiredTokens(ctx context.Context, now time.Time) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&entities.RevokedToken{}).Error
}
