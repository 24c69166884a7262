package service

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/repository"
)

// AuthorStats is the aggregate snapshot shown on a profile.
type AuthorStats struct {
	Blogs     int64 `json:"blogs"`
	Likes     int64 `json:"likes"`
	Views     int64 `json:"views"`
	Comments  int64 `json:"comments"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// StatsService serves the aggregate readers. Readers degrade: a failing
// counter logs a warning and reports zero instead of failing the request.
type StatsService struct {
	statsRepo  repository.StatsRepository
	likeRepo   repository.LikeRepository
	followRepo repository.FollowRepository
	saveRepo   repository.SaveRepository
	userRepo   repository.UserRepository
}

func NewStatsService(
	statsRepo repository.StatsRepository,
	likeRepo repository.LikeRepository,
	followRepo repository.FollowRepository,
	saveRepo repository.SaveRepository,
	userRepo repository.UserRepository,
) *StatsService {
	return &StatsService{
		statsRepo:  statsRepo,
		likeRepo:   likeRepo,
		followRepo: followRepo,
		saveRepo:   saveRepo,
		userRepo:   userRepo,
	}
}

func (s *StatsService) GetAuthorStats(ctx context.Context, authorID uint) (*AuthorStats, error) {
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, err
	}

	var stats AuthorStats
	err := cache.Aside(ctx, cache.AuthorStatsKey(authorID), &stats, cache.StatsTTL, func() error {
		stats.Blogs = s.readCounter(ctx, authorID, "blogs", func() (int64, error) {
			return s.statsRepo.CountBlogsByAuthor(ctx, authorID)
		})
		stats.Likes = s.readCounter(ctx, authorID, "likes", func() (int64, error) {
			return s.likeRepo.CountReceivedByAuthor(ctx, authorID)
		})
		stats.Views = s.readCounter(ctx, authorID, "views", func() (int64, error) {
			return s.statsRepo.SumViewsByAuthor(ctx, authorID)
		})
		stats.Comments = s.readCounter(ctx, authorID, "comments", func() (int64, error) {
			return s.statsRepo.CountCommentsReceivedByAuthor(ctx, authorID)
		})
		stats.Followers = s.readCounter(ctx, authorID, "followers", func() (int64, error) {
			return s.followRepo.CountFollowers(ctx, authorID)
		})
		stats.Following = s.readCounter(ctx, authorID, "following", func() (int64, error) {
			return s.followRepo.CountFollowing(ctx, authorID)
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *StatsService) GetSavedCount(ctx context.Context, userID uint) int64 {
	return s.readCounter(ctx, userID, "saved", func() (int64, error) {
		return s.saveRepo.CountByUser(ctx, userID)
	})
}

// GetTopTopics lists topics ranked by views or likes. A failing read logs
// and returns an empty list, same as the counters.
func (s *StatsService) GetTopTopics(ctx context.Context, by string, limit int) []repository.TopicStat {
	if by != "likes" {
		by = "views"
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	topics, err := s.statsRepo.TopTopics(ctx, by, limit)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "top topics read failed, serving empty",
			"by", by, "error", err)
		return []repository.TopicStat{}
	}
	return topics
}

func (s *StatsService) readCounter(ctx context.Context, subjectID uint, name string, fetch func() (int64, error)) int64 {
	value, err := fetch()
	if err != nil {
		middleware.Logger.WarnContext(ctx, "stats counter read failed, serving zero",
			"counter", name, "subject_id", subjectID, "error", err)
		return 0
	}
	return value
}
