package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

type UserService struct {
	userRepo  repository.UserRepository
	topicRepo repository.TopicRepository
}

type UpdateProfileInput struct {
	UserID   uint
	Username string
	Bio      string
	Avatar   string
}

func NewUserService(userRepo repository.UserRepository, topicRepo repository.TopicRepository) *UserService {
	return &UserService{userRepo: userRepo, topicRepo: topicRepo}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500

	if in.Username != "" && in.Username != user.Username {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		existing, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewValidationError("Username is already taken")
		}
		user.Username = in.Username
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAdmin promotes or demotes the target user. The caller's own admin check
// happens at the route layer.
func (s *UserService) SetAdmin(ctx context.Context, targetID uint, admin bool) (*models.User, error) {
	role := models.RoleUser
	if admin {
		role = models.RoleAdmin
	}
	if err := s.userRepo.SetRole(ctx, targetID, role); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, targetID)
}

// GetTopics returns the user's selected feed topics, empty when none chosen.
func (s *UserService) GetTopics(ctx context.Context, userID uint) ([]string, error) {
	selection, err := s.topicRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if selection == nil {
		return []string{}, nil
	}
	return selection.SelectedTopics, nil
}

// SetTopics replaces the user's topic selection wholesale.
func (s *UserService) SetTopics(ctx context.Context, userID uint, topics []string) ([]string, error) {
	normalized := validation.NormalizeTopics(topics)
	if err := validation.ValidateTopics(normalized); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	selection := &models.TopicSelection{UserID: userID, SelectedTopics: normalized}
	if err := s.topicRepo.Upsert(ctx, selection); err != nil {
		return nil, err
	}
	return normalized, nil
}
