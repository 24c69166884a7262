package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TopicRepository defines persistence operations for a user's feed topic
// selection. One row per user, replaced wholesale on update.
type TopicRepository interface {
	GetByUser(ctx context.Context, userID uint) (*models.TopicSelection, error)
	Upsert(ctx context.Context, selection *models.TopicSelection) error
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository creates a new topic repository.
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) GetByUser(ctx context.Context, userID uint) (*models.TopicSelection, error) {
	var selection models.TopicSelection
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&selection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &selection, nil
}

func (r *topicRepository) Upsert(ctx context.Context, selection *models.TopicSelection) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"selected_topics", "updated_at"}),
		}).
		Create(selection).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
