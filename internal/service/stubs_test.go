package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blogRepoStub is a stub for repository.BlogRepository.
type blogRepoStub struct {
	createFn        func(context.Context, *models.Blog) error
	getByIDFn       func(context.Context, uint, uint) (*models.Blog, error)
	listPublishedFn func(context.Context, int, int, uint, []string, string) ([]*models.Blog, error)
	listByAuthorFn  func(context.Context, uint, bool, int, int, uint) ([]*models.Blog, error)
	listDraftsFn    func(context.Context, uint, int, int) ([]*models.Blog, error)
	listSavedFn     func(context.Context, uint, int, int) ([]*models.Blog, error)
	searchFn        func(context.Context, string, int, int, uint) ([]*models.Blog, error)
	updateFn        func(context.Context, *models.Blog) error
	deleteFn        func(context.Context, uint) error
	incViewsFn      func(context.Context, uint) error
}

func (s *blogRepoStub) Create(ctx context.Context, blog *models.Blog) error {
	return s.createFn(ctx, blog)
}
func (s *blogRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Blog, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *blogRepoStub) ListPublished(ctx context.Context, limit, offset int, currentUserID uint, topics []string, sort string) ([]*models.Blog, error) {
	return s.listPublishedFn(ctx, limit, offset, currentUserID, topics, sort)
}
func (s *blogRepoStub) ListByAuthor(ctx context.Context, authorID uint, publishedOnly bool, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	return s.listByAuthorFn(ctx, authorID, publishedOnly, limit, offset, currentUserID)
}
func (s *blogRepoStub) ListDraftsByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Blog, error) {
	return s.listDraftsFn(ctx, authorID, limit, offset)
}
func (s *blogRepoStub) ListSavedByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Blog, error) {
	return s.listSavedFn(ctx, userID, limit, offset)
}
func (s *blogRepoStub) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	return s.searchFn(ctx, query, limit, offset, currentUserID)
}
func (s *blogRepoStub) Update(ctx context.Context, blog *models.Blog) error {
	return s.updateFn(ctx, blog)
}
func (s *blogRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *blogRepoStub) IncrementViews(ctx context.Context, id uint) error {
	return s.incViewsFn(ctx, id)
}

func noopBlogRepo() *blogRepoStub {
	return &blogRepoStub{
		createFn:  func(_ context.Context, _ *models.Blog) error { return nil },
		getByIDFn: func(_ context.Context, _, _ uint) (*models.Blog, error) { return &models.Blog{}, nil },
		listPublishedFn: func(_ context.Context, _, _ int, _ uint, _ []string, _ string) ([]*models.Blog, error) {
			return nil, nil
		},
		listByAuthorFn: func(_ context.Context, _ uint, _ bool, _, _ int, _ uint) ([]*models.Blog, error) {
			return nil, nil
		},
		listDraftsFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Blog, error) { return nil, nil },
		listSavedFn:  func(_ context.Context, _ uint, _, _ int) ([]*models.Blog, error) { return nil, nil },
		searchFn:     func(_ context.Context, _ string, _, _ int, _ uint) ([]*models.Blog, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.Blog) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		incViewsFn:   func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	listByBlogFn  func(context.Context, uint) ([]*models.Comment, error)
	countByBlogFn func(context.Context, uint) (int64, error)
	updateFn      func(context.Context, *models.Comment) error
	deleteFn      func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByBlog(ctx context.Context, blogID uint) ([]*models.Comment, error) {
	return s.listByBlogFn(ctx, blogID)
}
func (s *commentRepoStub) CountByBlog(ctx context.Context, blogID uint) (int64, error) {
	return s.countByBlogFn(ctx, blogID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:     func(_ context.Context, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		listByBlogFn:  func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		countByBlogFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		updateFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	existsFn        func(context.Context, uint, uint, uint) (bool, error)
	insertFn        func(context.Context, uint, uint, uint) (bool, error)
	deleteFn        func(context.Context, uint, uint, uint) (bool, error)
	countForBlogFn  func(context.Context, uint) (int64, error)
	listUsersFn     func(context.Context, uint) ([]models.User, error)
	countReceivedFn func(context.Context, uint) (int64, error)
}

func (s *likeRepoStub) Exists(ctx context.Context, userID, blogID, commentID uint) (bool, error) {
	return s.existsFn(ctx, userID, blogID, commentID)
}
func (s *likeRepoStub) Insert(ctx context.Context, userID, blogID, commentID uint) (bool, error) {
	return s.insertFn(ctx, userID, blogID, commentID)
}
func (s *likeRepoStub) Delete(ctx context.Context, userID, blogID, commentID uint) (bool, error) {
	return s.deleteFn(ctx, userID, blogID, commentID)
}
func (s *likeRepoStub) CountForBlog(ctx context.Context, blogID uint) (int64, error) {
	return s.countForBlogFn(ctx, blogID)
}
func (s *likeRepoStub) ListUsersForBlog(ctx context.Context, blogID uint) ([]models.User, error) {
	return s.listUsersFn(ctx, blogID)
}
func (s *likeRepoStub) CountReceivedByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countReceivedFn(ctx, authorID)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		existsFn:        func(_ context.Context, _, _, _ uint) (bool, error) { return false, nil },
		insertFn:        func(_ context.Context, _, _, _ uint) (bool, error) { return true, nil },
		deleteFn:        func(_ context.Context, _, _, _ uint) (bool, error) { return true, nil },
		countForBlogFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		listUsersFn:     func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
		countReceivedFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// saveRepoStub is a stub for repository.SaveRepository.
type saveRepoStub struct {
	existsFn      func(context.Context, uint, uint) (bool, error)
	insertFn      func(context.Context, uint, uint) (bool, error)
	deleteFn      func(context.Context, uint, uint) (bool, error)
	countByUserFn func(context.Context, uint) (int64, error)
}

func (s *saveRepoStub) Exists(ctx context.Context, userID, blogID uint) (bool, error) {
	return s.existsFn(ctx, userID, blogID)
}
func (s *saveRepoStub) Insert(ctx context.Context, userID, blogID uint) (bool, error) {
	return s.insertFn(ctx, userID, blogID)
}
func (s *saveRepoStub) Delete(ctx context.Context, userID, blogID uint) (bool, error) {
	return s.deleteFn(ctx, userID, blogID)
}
func (s *saveRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}

func noopSaveRepo() *saveRepoStub {
	return &saveRepoStub{
		existsFn:      func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		insertFn:      func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		deleteFn:      func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		countByUserFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	existsFn         func(context.Context, uint, uint) (bool, error)
	insertFn         func(context.Context, uint, uint) (bool, error)
	deleteFn         func(context.Context, uint, uint) (bool, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
	listFollowersFn  func(context.Context, uint, int, int) ([]models.User, error)
	listFollowingFn  func(context.Context, uint, int, int) ([]models.User, error)
}

func (s *followRepoStub) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Insert(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.insertFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.deleteFn(ctx, followerID, followingID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.listFollowersFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.listFollowingFn(ctx, userID, limit, offset)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		existsFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		insertFn:         func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		deleteFn:         func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		countFollowersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFollowingFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		listFollowersFn:  func(_ context.Context, _ uint, _, _ int) ([]models.User, error) { return nil, nil },
		listFollowingFn:  func(_ context.Context, _ uint, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
	setRoleFn       func(context.Context, uint, models.Role) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) SetRole(ctx context.Context, id uint, role models.Role) error {
	return s.setRoleFn(ctx, id, role)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		setRoleFn:       func(_ context.Context, _ uint, _ models.Role) error { return nil },
	}
}

// statsRepoStub is a stub for repository.StatsRepository.
type statsRepoStub struct {
	countBlogsFn    func(context.Context, uint) (int64, error)
	sumViewsFn      func(context.Context, uint) (int64, error)
	countCommentsFn func(context.Context, uint) (int64, error)
	topTopicsFn     func(context.Context, string, int) ([]repository.TopicStat, error)
}

func (s *statsRepoStub) CountBlogsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countBlogsFn(ctx, authorID)
}
func (s *statsRepoStub) SumViewsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.sumViewsFn(ctx, authorID)
}
func (s *statsRepoStub) CountCommentsReceivedByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countCommentsFn(ctx, authorID)
}
func (s *statsRepoStub) TopTopics(ctx context.Context, by string, limit int) ([]repository.TopicStat, error) {
	return s.topTopicsFn(ctx, by, limit)
}

func noopStatsRepo() *statsRepoStub {
	return &statsRepoStub{
		countBlogsFn:    func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		sumViewsFn:      func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countCommentsFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		topTopicsFn:     func(_ context.Context, _ string, _ int) ([]repository.TopicStat, error) { return nil, nil },
	}
}

// topicRepoStub is a stub for repository.TopicRepository.
type topicRepoStub struct {
	getByUserFn func(context.Context, uint) (*models.TopicSelection, error)
	upsertFn    func(context.Context, *models.TopicSelection) error
}

func (s *topicRepoStub) GetByUser(ctx context.Context, userID uint) (*models.TopicSelection, error) {
	return s.getByUserFn(ctx, userID)
}
func (s *topicRepoStub) Upsert(ctx context.Context, selection *models.TopicSelection) error {
	return s.upsertFn(ctx, selection)
}

func noopTopicRepo() *topicRepoStub {
	return &topicRepoStub{
		getByUserFn: func(_ context.Context, _ uint) (*models.TopicSelection, error) { return nil, nil },
		upsertFn:    func(_ context.Context, _ *models.TopicSelection) error { return nil },
	}
}

func adminChecker(adminIDs ...uint) func(ctx context.Context, userID uint) (bool, error) {
	return func(_ context.Context, userID uint) (bool, error) {
		for _, id := range adminIDs {
			if id == userID {
				return true, nil
			}
		}
		return false, nil
	}
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "NOT_FOUND")
}
