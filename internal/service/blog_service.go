// Package service implements the business rules on top of the repositories.
package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

type BlogService struct {
	blogRepo repository.BlogRepository
	isAdmin  func(ctx context.Context, userID uint) (bool, error)
}

type CreateBlogInput struct {
	AuthorID uint
	Title    string
	Content  string
	Image    string
	Topics   []string
	Publish  bool
}

type UpdateBlogInput struct {
	UserID  uint
	BlogID  uint
	Title   string
	Content string
	Image   string
	Topics  []string
}

type ListFeedInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
	Topics        []string
	Sort          string
}

const (
	maxTitleLen   = 300
	maxContentLen = 100000
)

func NewBlogService(
	blogRepo repository.BlogRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *BlogService {
	return &BlogService{
		blogRepo: blogRepo,
		isAdmin:  isAdmin,
	}
}

func (s *BlogService) CreateBlog(ctx context.Context, in CreateBlogInput) (*models.Blog, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 100000 characters)")
	}

	topics := validation.NormalizeTopics(in.Topics)
	if err := validation.ValidateTopics(topics); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	blog := &models.Blog{
		Title:    in.Title,
		Content:  in.Content,
		Image:    in.Image,
		Topics:   topics,
		AuthorID: in.AuthorID,
		Publish:  in.Publish,
	}
	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, err
	}
	return s.blogRepo.GetByID(ctx, blog.ID, in.AuthorID)
}

// GetBlog applies the visibility gate: an unpublished blog read by anyone but
// its author or an admin reports not-found, never forbidden.
func (s *BlogService) GetBlog(ctx context.Context, id uint, currentUserID uint) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}
	visible, err := s.canView(ctx, blog, currentUserID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewNotFoundError("Blog", id)
	}

	if blog.Publish {
		if err := s.blogRepo.IncrementViews(ctx, id); err == nil {
			blog.Views++
		}
	}
	return blog, nil
}

func (s *BlogService) ListFeed(ctx context.Context, in ListFeedInput) ([]*models.Blog, error) {
	return s.blogRepo.ListPublished(ctx, in.Limit, in.Offset, in.CurrentUserID, in.Topics, in.Sort)
}

// ListAuthorBlogs filters visibility in the query itself: only the author
// and admins see unpublished entries in the list.
func (s *BlogService) ListAuthorBlogs(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	publishedOnly := currentUserID != authorID
	if publishedOnly && currentUserID != 0 && s.isAdmin != nil {
		admin, err := s.isAdmin(ctx, currentUserID)
		if err != nil {
			return nil, err
		}
		publishedOnly = !admin
	}
	return s.blogRepo.ListByAuthor(ctx, authorID, publishedOnly, limit, offset, currentUserID)
}

func (s *BlogService) ListDrafts(ctx context.Context, userID uint, limit, offset int) ([]*models.Blog, error) {
	return s.blogRepo.ListDraftsByAuthor(ctx, userID, limit, offset)
}

func (s *BlogService) ListPublishedByAuthor(ctx context.Context, userID uint, limit, offset int) ([]*models.Blog, error) {
	return s.blogRepo.ListByAuthor(ctx, userID, true, limit, offset, userID)
}

func (s *BlogService) ListSaved(ctx context.Context, userID uint, limit, offset int) ([]*models.Blog, error) {
	return s.blogRepo.ListSavedByUser(ctx, userID, limit, offset)
}

func (s *BlogService) SearchBlogs(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.blogRepo.Search(ctx, query, limit, offset, currentUserID)
}

func (s *BlogService) UpdateBlog(ctx context.Context, in UpdateBlogInput) (*models.Blog, error) {
	blog, err := s.gateMutation(ctx, in.BlogID, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		blog.Title = in.Title
	}
	if in.Content != "" {
		if len(in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 100000 characters)")
		}
		blog.Content = in.Content
	}
	if in.Image != "" {
		blog.Image = in.Image
	}
	if in.Topics != nil {
		topics := validation.NormalizeTopics(in.Topics)
		if err := validation.ValidateTopics(topics); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		blog.Topics = topics
	}

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, err
	}
	return s.blogRepo.GetByID(ctx, blog.ID, in.UserID)
}

func (s *BlogService) DeleteBlog(ctx context.Context, blogID, userID uint) error {
	if _, err := s.gateMutation(ctx, blogID, userID); err != nil {
		return err
	}
	return s.blogRepo.Delete(ctx, blogID)
}

// TogglePublish flips a blog between draft and published.
func (s *BlogService) TogglePublish(ctx context.Context, blogID, userID uint) (*models.Blog, error) {
	blog, err := s.gateMutation(ctx, blogID, userID)
	if err != nil {
		return nil, err
	}
	blog.Publish = !blog.Publish
	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, err
	}
	return s.blogRepo.GetByID(ctx, blog.ID, userID)
}

// gateMutation loads the blog and enforces the ownership gate. A requester
// who fails the gate on an unpublished blog gets not-found so drafts never
// leak their existence.
func (s *BlogService) gateMutation(ctx context.Context, blogID, userID uint) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID, userID)
	if err != nil {
		return nil, err
	}
	if blog.AuthorID == userID {
		return blog, nil
	}
	if s.isAdmin != nil {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return nil, err
		}
		if admin {
			return blog, nil
		}
	}
	if !blog.Publish {
		return nil, models.NewNotFoundError("Blog", blogID)
	}
	return nil, models.NewForbiddenError("You can only modify your own blogs")
}

// canView reports whether the user may read the blog at all.
func (s *BlogService) canView(ctx context.Context, blog *models.Blog, userID uint) (bool, error) {
	if blog.Publish || blog.AuthorID == userID {
		return true, nil
	}
	if userID == 0 || s.isAdmin == nil {
		return false, nil
	}
	return s.isAdmin(ctx, userID)
}
