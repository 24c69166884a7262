package repository

import (
	"context"
	"sort"
	"strings"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// TopicStat pairs a topic with its aggregate score (views or likes).
type TopicStat struct {
	Topic string `json:"topic"`
	Score int64  `json:"score"`
}

// StatsRepository exposes the aggregate reads behind author statistics.
type StatsRepository interface {
	CountBlogsByAuthor(ctx context.Context, authorID uint) (int64, error)
	SumViewsByAuthor(ctx context.Context, authorID uint) (int64, error)
	CountCommentsReceivedByAuthor(ctx context.Context, authorID uint) (int64, error)
	TopTopics(ctx context.Context, by string, limit int) ([]TopicStat, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountBlogsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("author_id = ? AND publish = ?", authorID, true).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *statsRepository) SumViewsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("author_id = ?", authorID).
		Select("COALESCE(SUM(views), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return total, nil
}

func (r *statsRepository) CountCommentsReceivedByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Joins("JOIN blogs ON blogs.id = comments.blog_id").
		Where("blogs.author_id = ? AND blogs.deleted_at IS NULL", authorID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// TopTopics aggregates topic scores across published blogs. Topics live in a
// JSON column, so the rollup happens here rather than in SQL.
func (r *statsRepository) TopTopics(ctx context.Context, by string, limit int) ([]TopicStat, error) {
	type row struct {
		Topics     []string `gorm:"serializer:json"`
		Views      int64
		LikesCount int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Select("blogs.topics, blogs.views, " +
			"(SELECT COUNT(*) FROM likes WHERE likes.blog_id = blogs.id AND likes.comment_id = 0) as likes_count").
		Where("publish = ?", true).
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	scores := make(map[string]int64)
	for _, b := range rows {
		score := b.Views
		if by == "likes" {
			score = b.LikesCount
		}
		for _, topic := range b.Topics {
			key := strings.ToLower(strings.TrimSpace(topic))
			if key == "" {
				continue
			}
			scores[key] += score
		}
	}

	stats := make([]TopicStat, 0, len(scores))
	for topic, score := range scores {
		stats = append(stats, TopicStat{Topic: topic, Score: score})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Score != stats[j].Score {
			return stats[i].Score > stats[j].Score
		}
		return stats[i].Topic < stats[j].Topic
	})

	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}
