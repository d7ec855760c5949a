package service

import (
	"context"
	"errors"
	"testing"

	"hayai/internal/catalog"
	"hayai/internal/models"
	"hayai/internal/storage"
	"hayai/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxUpload = 10 << 20

func newPostService(repo *postRepoStub, store *testutil.BlobStoreStub, tr *transformerStub) *PostService {
	return NewPostService(repo, store, tr, nil, testMaxUpload, nil)
}

func okTransformer() *transformerStub {
	return &transformerStub{
		transformFn: func(_ context.Context, _ []byte, _ string) ([]byte, error) {
			return []byte("transformed-bytes"), nil
		},
	}
}

func TestPostService_CreateOriginal(t *testing.T) {
	t.Parallel()
	store := testutil.NewBlobStoreStub()

	var created *models.Post
	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, p *models.Post) error {
		created = p
		return nil
	}

	svc := newPostService(repo, store, okTransformer())
	content := testutil.BuildPNG(32, 32)

	post, err := svc.CreateOriginal(context.Background(), CreateOriginalInput{
		UserID:   7,
		Filename: "cat.png",
		Content:  content,
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEmpty(t, post.ImageID)
	assert.Equal(t, uint(7), post.UserID)
	assert.Equal(t, models.KindOriginal, post.Kind)
	assert.Equal(t, models.StatusPendingTransform, post.Status)
	assert.Equal(t, models.VisibilityPrivate, post.Visibility)
	assert.NotEmpty(t, post.OriginalURL)
	assert.NotEmpty(t, post.OriginalObjectID)
	assert.Empty(t, post.TransformedURL)
	assert.Equal(t, 1, store.Len())
}

func TestPostService_CreateOriginalValidation(t *testing.T) {
	t.Parallel()
	svc := newPostService(noopPostRepo(), testutil.NewBlobStoreStub(), okTransformer())
	ctx := context.Background()

	_, err := svc.CreateOriginal(ctx, CreateOriginalInput{UserID: 1, Filename: "x.png"})
	assertValidationError(t, err)

	huge := make([]byte, testMaxUpload+1)
	_, err = svc.CreateOriginal(ctx, CreateOriginalInput{UserID: 1, Filename: "x.png", Content: huge})
	assertValidationError(t, err)
}

func TestPostService_CreateOriginalRejectsNonImage(t *testing.T) {
	t.Parallel()
	// A real LocalStore sniffs the content type; the stub does not.
	store := storage.NewLocalStore(t.TempDir(), "http://localhost:8080")
	svc := NewPostService(noopPostRepo(), store, okTransformer(), nil, testMaxUpload, nil)

	_, err := svc.CreateOriginal(context.Background(), CreateOriginalInput{
		UserID:   1,
		Filename: "notes.txt",
		Content:  []byte("plain text, not a drawing"),
	})
	assertValidationError(t, err)
}

func TestPostService_CreateOriginalCleansUpOnRepoError(t *testing.T) {
	t.Parallel()
	store := testutil.NewBlobStoreStub()
	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, _ *models.Post) error {
		return models.NewInternalError(errors.New("db down"))
	}

	svc := newPostService(repo, store, okTransformer())
	_, err := svc.CreateOriginal(context.Background(), CreateOriginalInput{
		UserID:   1,
		Filename: "x.png",
		Content:  testutil.BuildPNG(8, 8),
	})
	require.Error(t, err)
	assert.Zero(t, store.Len(), "orphaned blob should be removed")
}

// pendingPostFixture seeds the store with an original blob and returns a
// repo stub serving a pending post that references it.
func pendingPostFixture(t *testing.T, store *testutil.BlobStoreStub, ownerID uint) (*postRepoStub, *models.Post) {
	t.Helper()
	uploaded, err := store.Upload(context.Background(), testutil.BuildPNG(16, 16), "cat.png", "originals")
	require.NoError(t, err)

	post := &models.Post{
		ID:               1,
		ImageID:          "img-1",
		UserID:           ownerID,
		Kind:             models.KindOriginal,
		Status:           models.StatusPendingTransform,
		Visibility:       models.VisibilityPrivate,
		OriginalFilename: "cat.png",
		OriginalURL:      uploaded.URL,
		OriginalObjectID: uploaded.ObjectID,
	}

	repo := noopPostRepo()
	repo.getByImageIDFn = func(_ context.Context, imageID string, _ uint) (*models.Post, error) {
		if imageID != post.ImageID {
			return nil, models.NewNotFoundError("Post", imageID)
		}
		copied := *post
		return &copied, nil
	}
	repo.updateFn = func(_ context.Context, p *models.Post) error {
		*post = *p
		return nil
	}
	return repo, post
}

func TestPostService_TransformApproves(t *testing.T) {
	t.Parallel()
	store := testutil.NewBlobStoreStub()
	repo, post := pendingPostFixture(t, store, 7)
	tr := okTransformer()
	svc := newPostService(repo, store, tr)

	got, err := svc.Transform(context.Background(), TransformInput{
		UserID:     7,
		ImageID:    "img-1",
		Style:      catalog.StyleOil,
		Visibility: "public",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, tr.calls)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, models.KindTransformed, got.Kind)
	assert.Equal(t, models.VisibilityPublic, got.Visibility)
	assert.Equal(t, catalog.StyleOil, got.Style)
	assert.NotEmpty(t, got.TransformedURL)
	assert.NotEqual(t, got.OriginalObjectID, got.TransformedObjectID)
	assert.Equal(t, models.StatusApproved, post.Status, "persisted state should match")
	assert.Equal(t, 2, store.Len())
}

func TestPostService_TransformDefaultsStyleAndVisibility(t *testing.T) {
	t.Parallel()
	store := testutil.NewBlobStoreStub()
	repo, _ := pendingPostFixture(t, store, 7)
	svc := newPostService(repo, store, okTransformer())

	got, err := svc.Transform(context.Background(), TransformInput{UserID: 7, ImageID: "img-1"})
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultStyle, got.Style)
	assert.Equal(t, models.VisibilityPrivate, got.Visibility)
}

func TestPostService_TransformRejectionStyle(t *testing.T) {
	t.Parallel()
	store := testutil.NewBlobStoreStub()
	repo, post := pendingPostFixture(t, store, 7)
	tr := okTransformer()
	svc := newPostService(repo, store, tr)

	got, err := svc.Transform(context.Background(), TransformInput{
		UserID:     7,
		ImageID:    "img-1",
		Style:      catalog.StyleTestRejected,
		Visibility: "public",
	})
	require.NoError(t, err)

	assert.Zero(t, tr.calls, "rejection style must not call the transform service")
	assert.Equal(t, models.StatusRejected, got.Status)
	assert.Equal(t, models.VisibilityPrivate, got.Visibility, "rejected posts are forced private")
	assert.Equal(t, post.OriginalObjectID, got.TransformedObjectID)
	assert.Equal(t, post.OriginalURL, got.TransformedURL)
	assert.Equal(t, 1, store.Len(), "no new blob is written")
}

func TestPostService_TransformClearsInteractions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("on approval", func(t *testing.T) {
		store := testutil.NewBlobStoreStub()
		repo, _ := pendingPostFixture(t, store, 7)
		var cleared int
		repo.clearFn = func(_ context.Context, p *models.Post) error {
			cleared++
			assert.Equal(t, "img-1", p.ImageID)
			return nil
		}

		svc := newPostService(repo, store, okTransformer())
		_, err := svc.Transform(ctx, TransformInput{UserID: 7, ImageID: "img-1", Style: catalog.StyleOil})
		require.NoError(t, err)
		assert.Equal(t, 1, cleared, "approved posts start with empty like/comment lists")
	})

	t.Run("on rejection", func(t *testing.T) {
		store := testutil.NewBlobStoreStub()
		repo, _ := pendingPostFixture(t, store, 7)
		var cleared int
		repo.clearFn = func(_ context.Context, _ *models.Post) error {
			cleared++
			return nil
		}

		svc := newPostService(repo, store, okTransformer())
		_, err := svc.Transform(ctx, TransformInput{UserID: 7, ImageID: "img-1", Style: catalog.StyleTestRejected})
		require.NoError(t, err)
		assert.Equal(t, 1, cleared)
	})

	t.Run("not on failure", func(t *testing.T) {
		store := testutil.NewBlobStoreStub()
		repo, _ := pendingPostFixture(t, store, 7)
		var cleared int
		repo.clearFn = func(_ context.Context, _ *models.Post) error {
			cleared++
			return nil
		}
		tr := &transformerStub{
			transformFn: func(_ context.Context, _ []byte, _ string) ([]byte, error) {
				return nil, errors.New("upstream timeout")
			},
		}

		svc := newPostService(repo, store, tr)
		_, err := svc.Transform(ctx, TransformInput{UserID: 7, ImageID: "img-1", Style: catalog.StyleAnime})
		require.Error(t, err)
		assert.Zero(t, cleared, "a pending post keeps its interactions")
	})
}

func TestPostService_TransformFailureLeavesPending(t *testing.T) {
	t.Parallel()
	store := testutil.NewBlobStoreStub()
	repo, post := pendingPostFixture(t, store, 7)
	tr := &transformerStub{
		transformFn: func(_ context.Context, _ []byte, _ string) ([]byte, error) {
			return nil, errors.New("upstream timeout")
		},
	}
	svc := newPostService(repo, store, tr)

	_, err := svc.Transform(context.Background(), TransformInput{
		UserID:  7,
		ImageID: "img-1",
		Style:   catalog.StyleAnime,
	})
	assertAppError(t, err, "TRANSFORM_FAILED")
	assert.Equal(t, models.StatusPendingTransform, post.Status, "failed transform must not change state")
	assert.Equal(t, 1, store.Len())
}

func TestPostService_TransformGuards(t *testing.T) {
	t.Parallel()
	store := testutil.NewBlobStoreStub()
	repo, post := pendingPostFixture(t, store, 7)
	svc := newPostService(repo, store, okTransformer())
	ctx := context.Background()

	t.Run("not owner", func(t *testing.T) {
		_, err := svc.Transform(ctx, TransformInput{UserID: 8, ImageID: "img-1", Style: catalog.StyleOil})
		assertForbiddenError(t, err)
	})

	t.Run("unknown style", func(t *testing.T) {
		_, err := svc.Transform(ctx, TransformInput{UserID: 7, ImageID: "img-1", Style: "vaporwave"})
		assertValidationError(t, err)
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := svc.Transform(ctx, TransformInput{UserID: 7, ImageID: "nope", Style: catalog.StyleOil})
		assertAppError(t, err, "NOT_FOUND")
	})

	t.Run("bad visibility", func(t *testing.T) {
		_, err := svc.Transform(ctx, TransformInput{UserID: 7, ImageID: "img-1", Style: catalog.StyleOil, Visibility: "friends"})
		assertValidationError(t, err)
	})

	t.Run("already transformed", func(t *testing.T) {
		post.Status = models.StatusApproved
		_, err := svc.Transform(ctx, TransformInput{UserID: 7, ImageID: "img-1", Style: catalog.StyleOil})
		assertAppError(t, err, "CONFLICT")
		post.Status = models.StatusPendingTransform
	})
}

func TestPostService_SetVisibility(t *testing.T) {
	t.Parallel()
	store := testutil.NewBlobStoreStub()
	repo, post := pendingPostFixture(t, store, 7)
	svc := newPostService(repo, store, okTransformer())
	ctx := context.Background()

	_, err := svc.SetVisibility(ctx, SetVisibilityInput{UserID: 7, ImageID: "img-1", Visibility: "friends"})
	assertValidationError(t, err)

	_, err = svc.SetVisibility(ctx, SetVisibilityInput{UserID: 8, ImageID: "img-1", Visibility: "public"})
	assertForbiddenError(t, err)

	got, err := svc.SetVisibility(ctx, SetVisibilityInput{UserID: 7, ImageID: "img-1", Visibility: "public"})
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPublic, got.Visibility)
	assert.Equal(t, models.VisibilityPublic, post.Visibility)
}

func TestPostService_DeleteReportsCleanedBlobs(t *testing.T) {
	t.Parallel()
	store := testutil.NewBlobStoreStub()
	repo, post := pendingPostFixture(t, store, 7)

	uploaded, err := store.Upload(context.Background(), []byte("improved"), "cat.png", "improved")
	require.NoError(t, err)
	post.TransformedObjectID = uploaded.ObjectID
	post.TransformedURL = uploaded.URL

	var deleted bool
	repo.deleteFn = func(_ context.Context, _ *models.Post) error {
		deleted = true
		return nil
	}

	svc := newPostService(repo, store, okTransformer())
	result, err := svc.Delete(context.Background(), DeletePostInput{UserID: 7, ImageID: "img-1"})
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.ElementsMatch(t, []string{"original", "transformed"}, result.DeletedFiles)
	assert.Zero(t, store.Len())
}

func TestPostService_DeletePartialBlobFailure(t *testing.T) {
	t.Parallel()
	store := testutil.NewBlobStoreStub()
	repo, post := pendingPostFixture(t, store, 7)
	store.FailDelete[post.OriginalObjectID] = true

	svc := newPostService(repo, store, okTransformer())
	result, err := svc.Delete(context.Background(), DeletePostInput{UserID: 7, ImageID: "img-1"})
	require.NoError(t, err, "blob failures must not block record removal")
	assert.Empty(t, result.DeletedFiles)
}

func TestPostService_DeleteAuthorization(t *testing.T) {
	t.Parallel()
	store := testutil.NewBlobStoreStub()
	repo, _ := pendingPostFixture(t, store, 7)

	isAdmin := func(_ context.Context, userID uint) (bool, error) {
		return userID == 99, nil
	}
	svc := NewPostService(repo, store, okTransformer(), nil, testMaxUpload, isAdmin)
	ctx := context.Background()

	_, err := svc.Delete(ctx, DeletePostInput{UserID: 8, ImageID: "img-1"})
	assertForbiddenError(t, err)

	_, err = svc.Delete(ctx, DeletePostInput{UserID: 99, ImageID: "img-1"})
	assert.NoError(t, err, "admins may delete any post")
}

func TestPostService_GetPostHidesPrivateFromOthers(t *testing.T) {
	t.Parallel()
	store := testutil.NewBlobStoreStub()
	repo, _ := pendingPostFixture(t, store, 7)
	svc := newPostService(repo, store, okTransformer())
	ctx := context.Background()

	got, err := svc.GetPost(ctx, "img-1", 7)
	require.NoError(t, err)
	assert.Equal(t, "img-1", got.ImageID)

	_, err = svc.GetPost(ctx, "img-1", 8)
	assertAppError(t, err, "NOT_FOUND")

	_, err = svc.GetPost(ctx, "img-1", 0)
	assertAppError(t, err, "NOT_FOUND")
}

func TestPostService_GetPostHidesRejectedFromOthers(t *testing.T) {
	t.Parallel()
	store := testutil.NewBlobStoreStub()
	repo, post := pendingPostFixture(t, store, 7)
	// Owner made the rejected post public; it must still read as missing
	// to everyone else.
	post.Status = models.StatusRejected
	post.Visibility = models.VisibilityPublic

	svc := newPostService(repo, store, okTransformer())
	ctx := context.Background()

	got, err := svc.GetPost(ctx, "img-1", 7)
	require.NoError(t, err, "owners still see their rejected posts")
	assert.Equal(t, models.StatusRejected, got.Status)

	_, err = svc.GetPost(ctx, "img-1", 8)
	assertAppError(t, err, "NOT_FOUND")

	_, err = svc.GetPost(ctx, "img-1", 0)
	assertAppError(t, err, "NOT_FOUND")
}
