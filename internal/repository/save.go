package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveRepository defines persistence operations for saved-blog rows.
type SaveRepository interface {
	Exists(ctx context.Context, userID, blogID uint) (bool, error)
	Insert(ctx context.Context, userID, blogID uint) (bool, error)
	Delete(ctx context.Context, userID, blogID uint) (bool, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type saveRepository struct {
	db *gorm.DB
}

// NewSaveRepository creates a new save repository.
func NewSaveRepository(db *gorm.DB) SaveRepository {
	return &saveRepository{db: db}
}

func (r *saveRepository) Exists(ctx context.Context, userID, blogID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Save{}).
		Where("user_id = ? AND blog_id = ?", userID, blogID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *saveRepository) Insert(ctx context.Context, userID, blogID uint) (bool, error) {
	save := models.Save{UserID: userID, BlogID: blogID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&save)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	cache.InvalidateBlog(ctx, blogID)
	return result.RowsAffected > 0, nil
}

func (r *saveRepository) Delete(ctx context.Context, userID, blogID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND blog_id = ?", userID, blogID).
		Delete(&models.Save{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	cache.InvalidateBlog(ctx, blogID)
	return result.RowsAffected > 0, nil
}

func (r *saveRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Save{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
