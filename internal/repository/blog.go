package repository

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// BlogRepository defines the interface for blog data operations.
// Read methods take the requesting user's ID so liked/saved flags can be
// computed in the same query; zero means anonymous.
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Blog, error)
	ListPublished(ctx context.Context, limit, offset int, currentUserID uint, topics []string, sort string) ([]*models.Blog, error)
	ListByAuthor(ctx context.Context, authorID uint, publishedOnly bool, limit, offset int, currentUserID uint) ([]*models.Blog, error)
	ListDraftsByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Blog, error)
	ListSavedByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Blog, error)
	Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Blog, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFeed(ctx)
	cache.InvalidateAuthorStats(ctx, blog.AuthorID)
	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Blog, error) {
	var blog models.Blog

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.BlogKey(id), &blog, cache.BlogTTL, func() error {
			return r.applyBlogDetails(r.db.WithContext(ctx), 0).
				Preload("Author").
				First(&blog, id).Error
		})
	} else {
		err = r.applyBlogDetails(r.db.WithContext(ctx), currentUserID).
			Preload("Author").
			First(&blog, id).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Blog", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &blog, nil
}

func (r *blogRepository) ListPublished(ctx context.Context, limit, offset int, currentUserID uint, topics []string, sort string) ([]*models.Blog, error) {
	var blogs []*models.Blog

	fetch := func() error {
		base := r.applyBlogDetails(r.db.WithContext(ctx), currentUserID).
			Preload("Author").
			Where("publish = ?", true)
		base = r.applyTopicFilter(base, topics)
		return r.applySort(base, sort).
			Limit(limit).
			Offset(offset).
			Find(&blogs).Error
	}

	// Only the anonymous first page of the default feed is cacheable;
	// liked/saved flags make every other variant user specific.
	if currentUserID == 0 && offset == 0 && len(topics) == 0 && (sort == "" || sort == "new") {
		if err := cache.Aside(ctx, cache.FeedKey, &blogs, cache.FeedTTL, fetch); err != nil {
			return nil, err
		}
		return blogs, nil
	}
	if err := fetch(); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *blogRepository) ListByAuthor(ctx context.Context, authorID uint, publishedOnly bool, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	var blogs []*models.Blog
	base := r.applyBlogDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Author").
		Where("author_id = ?", authorID)
	if publishedOnly {
		base = base.Where("publish = ?", true)
	}
	err := base.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&blogs).Error
	if err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *blogRepository) ListDraftsByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Blog, error) {
	var blogs []*models.Blog
	err := r.applyBlogDetails(r.db.WithContext(ctx), authorID).
		Where("author_id = ? AND publish = ?", authorID, false).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&blogs).Error
	if err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *blogRepository) ListSavedByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Blog, error) {
	var blogs []*models.Blog
	err := r.applyBlogDetails(r.db.WithContext(ctx), userID).
		Preload("Author").
		Joins("JOIN saves ON saves.blog_id = blogs.id").
		Where("saves.user_id = ? AND blogs.publish = ?", userID, true).
		Order("saves.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&blogs).Error
	if err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *blogRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	var blogs []*models.Blog
	like := "%" + strings.ToLower(query) + "%"
	err := r.applyBlogDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Author").
		Where("publish = ?", true).
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&blogs).Error
	if err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Save(blog).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateBlog(ctx, blog.ID)
	cache.InvalidateFeed(ctx)
	cache.InvalidateAuthorStats(ctx, blog.AuthorID)
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Blog{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateBlog(ctx, id)
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *blogRepository) IncrementViews(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// applyBlogDetails adds subqueries to fetch counts and liked/saved status in a single query.
func (r *blogRepository) applyBlogDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "blogs.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.blog_id = blogs.id AND likes.comment_id = 0) as likes_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.blog_id = blogs.id AND comments.deleted_at IS NULL) as comments_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.blog_id = blogs.id AND likes.comment_id = 0 AND likes.user_id = ?) as liked"+
			", EXISTS(SELECT 1 FROM saves WHERE saves.blog_id = blogs.id AND saves.user_id = ?) as saved",
			currentUserID, currentUserID)
	}

	return db.Select(selectQuery + ", false as liked, false as saved")
}

// applyTopicFilter narrows the feed to blogs tagged with any of the topics.
// Topics are stored as a JSON array, so each topic matches its quoted form.
func (r *blogRepository) applyTopicFilter(db *gorm.DB, topics []string) *gorm.DB {
	if len(topics) == 0 {
		return db
	}
	cond := r.db.Where("LOWER(topics) LIKE ?", topicPattern(topics[0]))
	for _, topic := range topics[1:] {
		cond = cond.Or("LOWER(topics) LIKE ?", topicPattern(topic))
	}
	return db.Where(cond)
}

func topicPattern(topic string) string {
	return `%"` + strings.ToLower(strings.TrimSpace(topic)) + `"%`
}

// applySort appends the ORDER BY clause for the requested sort type.
// likes_count is a SELECT alias from applyBlogDetails and may be referenced
// in ORDER BY within the same query level.
func (r *blogRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "top":
		return db.Order("likes_count DESC, created_at DESC")
	case "trending":
		return db.Order("views DESC, created_at DESC")
	default: // "new" and anything unrecognized
		return db.Order("created_at DESC")
	}
}
