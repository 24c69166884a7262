package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// TokenRepository defines persistence operations for single-use email tokens.
type TokenRepository interface {
	CreateVerification(ctx context.Context, token *models.VerificationToken) error
	GetVerification(ctx context.Context, token string) (*models.VerificationToken, error)
	DeleteVerification(ctx context.Context, id uint) error
	CreateReset(ctx context.Context, token *models.PasswordResetToken) error
	GetReset(ctx context.Context, token string) (*models.PasswordResetToken, error)
	DeleteReset(ctx context.Context, id uint) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository returns a new TokenRepository implementation.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) CreateVerification(ctx context.Context, token *models.VerificationToken) error {
	// One pending verification per user; a new request replaces the old one
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", token.UserID).
		Delete(&models.VerificationToken{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tokenRepository) GetVerification(ctx context.Context, token string) (*models.VerificationToken, error) {
	var vt models.VerificationToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&vt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &vt, nil
}

func (r *tokenRepository) DeleteVerification(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.VerificationToken{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tokenRepository) CreateReset(ctx context.Context, token *models.PasswordResetToken) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", token.UserID).
		Delete(&models.PasswordResetToken{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tokenRepository) GetReset(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var rt models.PasswordResetToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&rt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &rt, nil
}

func (r *tokenRepository) DeleteReset(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.PasswordResetToken{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
