package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	blogRepo    repository.BlogRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommentInput struct {
	UserID          uint
	BlogID          uint
	Content         string
	ParentCommentID *uint
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

const maxCommentLen = 10000

func NewCommentService(
	commentRepo repository.CommentRepository,
	blogRepo repository.BlogRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		blogRepo:    blogRepo,
		isAdmin:     isAdmin,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	blog, err := s.blogRepo.GetByID(ctx, in.BlogID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !blog.Publish && blog.AuthorID != in.UserID {
		return nil, models.NewNotFoundError("Blog", in.BlogID)
	}

	if in.ParentCommentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.BlogID != in.BlogID {
			return nil, models.NewValidationError("Parent comment belongs to another blog")
		}
		// One level of nesting only; replying to a reply is rejected
		if parent.IsReply() {
			return nil, models.NewValidationError("Cannot reply to a reply")
		}
	}

	comment := &models.Comment{
		Content:         in.Content,
		UserID:          in.UserID,
		BlogID:          in.BlogID,
		ParentCommentID: in.ParentCommentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, blogID uint, currentUserID uint) ([]*models.Comment, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID, currentUserID)
	if err != nil {
		return nil, err
	}
	if !blog.Publish && blog.AuthorID != currentUserID {
		return nil, models.NewNotFoundError("Blog", blogID)
	}
	return s.commentRepo.ListByBlog(ctx, blogID)
}

func (s *CommentService) CountComments(ctx context.Context, blogID uint, currentUserID uint) (int64, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID, currentUserID)
	if err != nil {
		return 0, err
	}
	if !blog.Publish && blog.AuthorID != currentUserID {
		return 0, models.NewNotFoundError("Blog", blogID)
	}
	return s.commentRepo.CountByBlog(ctx, blogID)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if err := s.gate(ctx, comment, in.UserID, "You can only update your own comments"); err != nil {
		return nil, err
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if err := s.gate(ctx, comment, in.UserID, "You can only delete your own comments"); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, in.CommentID)
}

func (s *CommentService) gate(ctx context.Context, comment *models.Comment, userID uint, message string) error {
	if comment.UserID == userID {
		return nil
	}
	if s.isAdmin != nil {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if admin {
			return nil
		}
	}
	return models.NewForbiddenError(message)
}
