package service

import (
	"context"
	"errors"
	"testing"

	"hayai/internal/models"
	"hayai/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn       func(context.Context, *models.Post) error
	getByImageIDFn func(context.Context, string, uint) (*models.Post, error)
	getByUserIDFn  func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listPublicFn   func(context.Context, int, int, uint) ([]*models.Post, error)
	updateFn       func(context.Context, *models.Post) error
	deleteFn       func(context.Context, *models.Post) error
	clearFn        func(context.Context, *models.Post) error
	likeFn         func(context.Context, uint, uint, string) error
	unlikeFn       func(context.Context, uint, uint, string) error
	isLikedFn      func(context.Context, uint, uint) (bool, error)
	likeCountFn    func(context.Context, uint) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByImageID(ctx context.Context, imageID string, viewerID uint) (*models.Post, error) {
	return s.getByImageIDFn(ctx, imageID, viewerID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, viewerID)
}
func (s *postRepoStub) ListPublic(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Post, error) {
	return s.listPublicFn(ctx, limit, offset, viewerID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, post *models.Post) error {
	return s.deleteFn(ctx, post)
}
func (s *postRepoStub) ClearInteractions(ctx context.Context, post *models.Post) error {
	return s.clearFn(ctx, post)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint, imageID string) error {
	return s.likeFn(ctx, userID, postID, imageID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint, imageID string) error {
	return s.unlikeFn(ctx, userID, postID, imageID)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) LikeCount(ctx context.Context, postID uint) (int64, error) {
	return s.likeCountFn(ctx, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByImageIDFn: func(_ context.Context, imageID string, _ uint) (*models.Post, error) {
			return &models.Post{ImageID: imageID}, nil
		},
		getByUserIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		listPublicFn:  func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		updateFn:      func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:      func(_ context.Context, _ *models.Post) error { return nil },
		clearFn:       func(_ context.Context, _ *models.Post) error { return nil },
		likeFn:        func(_ context.Context, _, _ uint, _ string) error { return nil },
		unlikeFn:      func(_ context.Context, _, _ uint, _ string) error { return nil },
		isLikedFn:     func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likeCountFn:   func(_ context.Context, _ uint) (int64, error) { return 0, nil },
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
	searchFn        func(context.Context, string, int, int) ([]models.User, error)
	listFn          func(context.Context, int, int) ([]models.User, error)
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
func (s *userRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	return s.searchFn(ctx, query, limit, offset)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "stub"}, nil
		},
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		searchFn:        func(_ context.Context, _ string, _, _ int) ([]models.User, error) { return nil, nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	appendFn        func(context.Context, *models.Comment, string) error
	listByPostIDFn  func(context.Context, uint, string) ([]models.Comment, error)
	countByPostIDFn func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Append(ctx context.Context, comment *models.Comment, imageID string) error {
	return s.appendFn(ctx, comment, imageID)
}
func (s *commentRepoStub) ListByPostID(ctx context.Context, postID uint, imageID string) ([]models.Comment, error) {
	return s.listByPostIDFn(ctx, postID, imageID)
}
func (s *commentRepoStub) CountByPostID(ctx context.Context, postID uint) (int64, error) {
	return s.countByPostIDFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		appendFn:        func(_ context.Context, _ *models.Comment, _ string) error { return nil },
		listByPostIDFn:  func(_ context.Context, _ uint, _ string) ([]models.Comment, error) { return nil, nil },
		countByPostIDFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	upsertFn    func(context.Context, uint, uint) error
	deleteFn    func(context.Context, uint, uint) error
	existsFn    func(context.Context, uint, uint) (bool, error)
	statsFn     func(context.Context, uint) (*repository.FollowStats, error)
	followersFn func(context.Context, uint, int, int) ([]models.User, error)
	followingFn func(context.Context, uint, int, int) ([]models.User, error)
}

func (s *followRepoStub) Upsert(ctx context.Context, followerID, followingID uint) error {
	return s.upsertFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followingID uint) error {
	return s.deleteFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Stats(ctx context.Context, userID uint) (*repository.FollowStats, error) {
	return s.statsFn(ctx, userID)
}
func (s *followRepoStub) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.followersFn(ctx, userID, limit, offset)
}
func (s *followRepoStub) Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	return s.followingFn(ctx, userID, limit, offset)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		upsertFn:    func(_ context.Context, _, _ uint) error { return nil },
		deleteFn:    func(_ context.Context, _, _ uint) error { return nil },
		existsFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		statsFn:     func(_ context.Context, _ uint) (*repository.FollowStats, error) { return &repository.FollowStats{}, nil },
		followersFn: func(_ context.Context, _ uint, _, _ int) ([]models.User, error) { return nil, nil },
		followingFn: func(_ context.Context, _ uint, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// transformerStub is a stub for transform.Transformer.
type transformerStub struct {
	transformFn func(context.Context, []byte, string) ([]byte, error)
	calls       int
}

func (s *transformerStub) Transform(ctx context.Context, image []byte, prompt string) ([]byte, error) {
	s.calls++
	return s.transformFn(ctx, image, prompt)
}

// assertAppError asserts that err carries the given application error code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, "VALIDATION_ERROR")
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, "FORBIDDEN")
}
