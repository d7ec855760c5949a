package service

import (
	"context"
	"testing"

	"hayai/internal/catalog"
	"hayai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// interactionFixture returns a service whose post repo serves one post and
// tracks like state in memory.
func interactionFixture(post *models.Post) (*InteractionService, *postRepoStub, *commentRepoStub) {
	likers := map[uint]bool{}

	posts := noopPostRepo()
	posts.getByImageIDFn = func(_ context.Context, imageID string, _ uint) (*models.Post, error) {
		if imageID != post.ImageID {
			return nil, models.NewNotFoundError("Post", imageID)
		}
		copied := *post
		return &copied, nil
	}
	posts.likeFn = func(_ context.Context, userID, _ uint, _ string) error {
		likers[userID] = true
		return nil
	}
	posts.unlikeFn = func(_ context.Context, userID, _ uint, _ string) error {
		delete(likers, userID)
		return nil
	}
	posts.isLikedFn = func(_ context.Context, userID, _ uint) (bool, error) {
		return likers[userID], nil
	}
	posts.likeCountFn = func(_ context.Context, _ uint) (int64, error) {
		return int64(len(likers)), nil
	}

	comments := noopCommentRepo()
	svc := NewInteractionService(posts, comments, noopUserRepo(), nil)
	return svc, posts, comments
}

func publicApprovedPost(ownerID uint) *models.Post {
	return &models.Post{
		ID:         1,
		ImageID:    "img-1",
		UserID:     ownerID,
		Kind:       models.KindTransformed,
		Status:     models.StatusApproved,
		Visibility: models.VisibilityPublic,
	}
}

func TestInteractionService_LikeIsIdempotent(t *testing.T) {
	t.Parallel()
	svc, _, _ := interactionFixture(publicApprovedPost(7))
	ctx := context.Background()

	first, err := svc.Like(ctx, 8, "img-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Likes)
	assert.True(t, first.IsLiked)

	second, err := svc.Like(ctx, 8, "img-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.Likes, "repeated like must not change the count")
}

func TestInteractionService_LikeThenUnlikeRestoresCount(t *testing.T) {
	t.Parallel()
	svc, _, _ := interactionFixture(publicApprovedPost(7))
	ctx := context.Background()

	_, err := svc.Like(ctx, 8, "img-1")
	require.NoError(t, err)

	result, err := svc.Unlike(ctx, 8, "img-1")
	require.NoError(t, err)
	assert.Zero(t, result.Likes)
	assert.False(t, result.IsLiked)

	// Unliking again stays at zero.
	result, err = svc.Unlike(ctx, 8, "img-1")
	require.NoError(t, err)
	assert.Zero(t, result.Likes)
}

func TestInteractionService_RejectedPostBlocksEveryone(t *testing.T) {
	t.Parallel()
	post := publicApprovedPost(7)
	post.Status = models.StatusRejected
	svc, _, _ := interactionFixture(post)
	ctx := context.Background()

	_, err := svc.Like(ctx, 8, "img-1")
	assertForbiddenError(t, err)

	// The owner is blocked too.
	_, err = svc.Like(ctx, 7, "img-1")
	assertForbiddenError(t, err)

	_, err = svc.Unlike(ctx, 7, "img-1")
	assertForbiddenError(t, err)

	_, err = svc.Comment(ctx, 7, "img-1", 1)
	assertForbiddenError(t, err)

	_, err = svc.ListComments(ctx, 7, "img-1")
	assertForbiddenError(t, err)
}

func TestInteractionService_PrivatePostOwnerOnly(t *testing.T) {
	t.Parallel()
	post := publicApprovedPost(7)
	post.Visibility = models.VisibilityPrivate
	svc, _, _ := interactionFixture(post)
	ctx := context.Background()

	_, err := svc.Like(ctx, 8, "img-1")
	assertForbiddenError(t, err)

	_, err = svc.Like(ctx, 0, "img-1")
	assertForbiddenError(t, err)

	result, err := svc.Like(ctx, 7, "img-1")
	require.NoError(t, err)
	assert.True(t, result.IsLiked)
}

func TestInteractionService_CommentUnknownPreset(t *testing.T) {
	t.Parallel()
	svc, _, comments := interactionFixture(publicApprovedPost(7))

	var appended bool
	comments.appendFn = func(_ context.Context, _ *models.Comment, _ string) error {
		appended = true
		return nil
	}

	_, err := svc.Comment(context.Background(), 8, "img-1", 99)
	assertValidationError(t, err)
	assert.False(t, appended, "invalid preset must not append a comment")

	_, err = svc.Comment(context.Background(), 8, "img-1", 0)
	assertValidationError(t, err)
}

func TestInteractionService_CommentSnapshotsAuthor(t *testing.T) {
	t.Parallel()
	post := publicApprovedPost(7)

	var stored *models.Comment
	svc, _, comments := interactionFixture(post)
	comments.appendFn = func(_ context.Context, c *models.Comment, imageID string) error {
		assert.Equal(t, post.ImageID, imageID)
		stored = c
		return nil
	}

	author := &models.User{ID: 8, Username: "fan", DisplayName: "Fan", AvatarName: "fox"}
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) { return author, nil }
	svc.userRepo = users

	comment, err := svc.Comment(context.Background(), 8, "img-1", 2)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.NotEmpty(t, comment.CommentID)
	assert.Equal(t, "fan", stored.Username)
	assert.Equal(t, "Fan", stored.DisplayName)
	assert.Equal(t, "fox", stored.AvatarName)
	assert.Equal(t, 2, stored.PresetID)

	expected, _ := catalog.PresetText(2)
	assert.Equal(t, expected, comment.Text)
}

func TestInteractionService_ListCommentsHydratesText(t *testing.T) {
	t.Parallel()
	svc, _, comments := interactionFixture(publicApprovedPost(7))
	comments.listByPostIDFn = func(_ context.Context, _ uint, _ string) ([]models.Comment, error) {
		return []models.Comment{
			{CommentID: "c1", PresetID: 1},
			{CommentID: "c2", PresetID: 42}, // preset no longer in catalog
		}, nil
	}

	got, err := svc.ListComments(context.Background(), 8, "img-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	expected, _ := catalog.PresetText(1)
	assert.Equal(t, expected, got[0].Text)
	assert.Empty(t, got[1].Text, "unknown presets render blank")
}

func TestInteractionService_PresetComments(t *testing.T) {
	t.Parallel()
	svc, _, _ := interactionFixture(publicApprovedPost(7))
	presets := svc.PresetComments()
	assert.Len(t, presets, 5)
}
