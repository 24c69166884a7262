package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines persistence operations for like rows. CommentID 0
// targets the blog itself; a non-zero CommentID targets one of its comments.
type LikeRepository interface {
	Exists(ctx context.Context, userID, blogID, commentID uint) (bool, error)
	Insert(ctx context.Context, userID, blogID, commentID uint) (bool, error)
	Delete(ctx context.Context, userID, blogID, commentID uint) (bool, error)
	CountForBlog(ctx context.Context, blogID uint) (int64, error)
	ListUsersForBlog(ctx context.Context, blogID uint) ([]models.User, error)
	CountReceivedByAuthor(ctx context.Context, authorID uint) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Exists(ctx context.Context, userID, blogID, commentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND blog_id = ? AND comment_id = ?", userID, blogID, commentID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Insert adds the like row if it does not exist yet. The conflict-do-nothing
// clause makes concurrent toggles converge on a single row; the return value
// reports whether this call created it.
func (r *likeRepository) Insert(ctx context.Context, userID, blogID, commentID uint) (bool, error) {
	like := models.Like{UserID: userID, BlogID: blogID, CommentID: commentID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	cache.InvalidateBlog(ctx, blogID)
	return result.RowsAffected > 0, nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, blogID, commentID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND blog_id = ? AND comment_id = ?", userID, blogID, commentID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	cache.InvalidateBlog(ctx, blogID)
	return result.RowsAffected > 0, nil
}

func (r *likeRepository) CountForBlog(ctx context.Context, blogID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("blog_id = ? AND comment_id = 0", blogID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *likeRepository) ListUsersForBlog(ctx context.Context, blogID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN likes ON likes.user_id = users.id").
		Where("likes.blog_id = ? AND likes.comment_id = 0", blogID).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// CountReceivedByAuthor totals blog-level likes across every blog the author
// has written.
func (r *likeRepository) CountReceivedByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Joins("JOIN blogs ON blogs.id = likes.blog_id").
		Where("blogs.author_id = ? AND likes.comment_id = 0 AND blogs.deleted_at IS NULL", authorID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
