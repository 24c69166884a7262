package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// EngagementService owns the toggle relations: likes, saves and follows.
// Every toggle reports the resulting state, not whether a row changed; a
// toggle-on that loses a race against an identical toggle-on still lands in
// the "on" state.
type EngagementService struct {
	likeRepo    repository.LikeRepository
	saveRepo    repository.SaveRepository
	followRepo  repository.FollowRepository
	blogRepo    repository.BlogRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
}

func NewEngagementService(
	likeRepo repository.LikeRepository,
	saveRepo repository.SaveRepository,
	followRepo repository.FollowRepository,
	blogRepo repository.BlogRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
) *EngagementService {
	return &EngagementService{
		likeRepo:    likeRepo,
		saveRepo:    saveRepo,
		followRepo:  followRepo,
		blogRepo:    blogRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
	}
}

// ToggleLike flips the user's like on a blog, or on one of its comments when
// commentID is non-zero. Returns true when the resulting state is "liked".
func (s *EngagementService) ToggleLike(ctx context.Context, userID, blogID, commentID uint) (bool, error) {
	if err := s.requireVisibleBlog(ctx, blogID, userID); err != nil {
		return false, err
	}
	if commentID != 0 {
		comment, err := s.commentRepo.GetByID(ctx, commentID)
		if err != nil {
			return false, err
		}
		if comment.BlogID != blogID {
			return false, models.NewValidationError("Comment belongs to another blog")
		}
	}

	exists, err := s.likeRepo.Exists(ctx, userID, blogID, commentID)
	if err != nil {
		return false, err
	}
	if exists {
		if _, err := s.likeRepo.Delete(ctx, userID, blogID, commentID); err != nil {
			return false, err
		}
		return false, nil
	}
	// Created or lost the race to an identical insert; either way it is on
	if _, err := s.likeRepo.Insert(ctx, userID, blogID, commentID); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleSave flips the user's bookmark on a blog.
func (s *EngagementService) ToggleSave(ctx context.Context, userID, blogID uint) (bool, error) {
	if err := s.requireVisibleBlog(ctx, blogID, userID); err != nil {
		return false, err
	}

	exists, err := s.saveRepo.Exists(ctx, userID, blogID)
	if err != nil {
		return false, err
	}
	if exists {
		if _, err := s.saveRepo.Delete(ctx, userID, blogID); err != nil {
			return false, err
		}
		return false, nil
	}
	if _, err := s.saveRepo.Insert(ctx, userID, blogID); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleFollow flips the follower's relation to the target user.
func (s *EngagementService) ToggleFollow(ctx context.Context, followerID, targetID uint) (bool, error) {
	if followerID == targetID {
		return false, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return false, err
	}

	exists, err := s.followRepo.Exists(ctx, followerID, targetID)
	if err != nil {
		return false, err
	}
	if exists {
		if _, err := s.followRepo.Delete(ctx, followerID, targetID); err != nil {
			return false, err
		}
		return false, nil
	}
	if _, err := s.followRepo.Insert(ctx, followerID, targetID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *EngagementService) IsLiked(ctx context.Context, userID, blogID, commentID uint) (bool, error) {
	return s.likeRepo.Exists(ctx, userID, blogID, commentID)
}

func (s *EngagementService) IsSaved(ctx context.Context, userID, blogID uint) (bool, error) {
	return s.saveRepo.Exists(ctx, userID, blogID)
}

func (s *EngagementService) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, targetID)
}

func (s *EngagementService) ListBlogLikes(ctx context.Context, blogID uint, currentUserID uint) ([]models.User, error) {
	if err := s.requireVisibleBlog(ctx, blogID, currentUserID); err != nil {
		return nil, err
	}
	return s.likeRepo.ListUsersForBlog(ctx, blogID)
}

func (s *EngagementService) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, userID, limit, offset)
}

func (s *EngagementService) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, userID, limit, offset)
}

// requireVisibleBlog enforces the visibility gate for engagement targets:
// drafts cannot be liked or saved by anyone but their author, and their
// existence is never revealed.
func (s *EngagementService) requireVisibleBlog(ctx context.Context, blogID, userID uint) error {
	blog, err := s.blogRepo.GetByID(ctx, blogID, userID)
	if err != nil {
		return err
	}
	if !blog.Publish && blog.AuthorID != userID {
		return models.NewNotFoundError("Blog", blogID)
	}
	return nil
}
