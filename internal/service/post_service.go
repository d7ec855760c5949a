package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hayai/internal/catalog"
	"hayai/internal/models"
	"hayai/internal/notifications"
	"hayai/internal/observability"
	"hayai/internal/repository"
	"hayai/internal/storage"
	"hayai/internal/transform"

	"github.com/google/uuid"
)

// PostService owns the post lifecycle: upload, transform, visibility
// and deletion.
type PostService struct {
	postRepo       repository.PostRepository
	store          storage.BlobStore
	transformer    transform.Transformer
	notifier       *notifications.Notifier
	maxUploadBytes int64
	isAdmin        func(ctx context.Context, userID uint) (bool, error)
}

type CreateOriginalInput struct {
	UserID   uint
	Filename string
	Content  []byte
}

type TransformInput struct {
	UserID     uint
	ImageID    string
	Style      string
	Visibility string
}

type SetVisibilityInput struct {
	UserID     uint
	ImageID    string
	Visibility string
}

type DeletePostInput struct {
	UserID  uint
	ImageID string
}

// DeletePostResult reports which external blobs were actually removed.
// Blob cleanup is best-effort; the record itself is always gone on success.
type DeletePostResult struct {
	ImageID      string   `json:"image_id"`
	DeletedFiles []string `json:"deleted_files"`
}

func NewPostService(
	postRepo repository.PostRepository,
	store storage.BlobStore,
	transformer transform.Transformer,
	notifier *notifications.Notifier,
	maxUploadBytes int64,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:       postRepo,
		store:          store,
		transformer:    transformer,
		notifier:       notifier,
		maxUploadBytes: maxUploadBytes,
		isAdmin:        isAdmin,
	}
}

// CreateOriginal stores the uploaded drawing and creates the post in
// pending_transform. The post stays private until a transform approves it.
func (s *PostService) CreateOriginal(ctx context.Context, in CreateOriginalInput) (*models.Post, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("Image file is required")
	}
	if s.maxUploadBytes > 0 && int64(len(in.Content)) > s.maxUploadBytes {
		return nil, models.NewValidationError(
			fmt.Sprintf("Image exceeds the maximum upload size of %d bytes", s.maxUploadBytes))
	}

	uploaded, err := s.store.Upload(ctx, in.Content, in.Filename, storage.FolderOriginals)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			return nil, models.NewValidationError("Uploaded file must be a PNG, JPEG, GIF or WebP image")
		}
		return nil, err
	}
	observability.UploadBytes.Observe(float64(len(in.Content)))

	post := &models.Post{
		ImageID:          uuid.NewString(),
		UserID:           in.UserID,
		Kind:             models.KindOriginal,
		Status:           models.StatusPendingTransform,
		Visibility:       models.VisibilityPrivate,
		OriginalFilename: in.Filename,
		OriginalURL:      uploaded.URL,
		OriginalObjectID: uploaded.ObjectID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		// The record never existed, so drop the orphaned blob.
		s.store.Delete(ctx, uploaded.ObjectID)
		return nil, err
	}
	return post, nil
}

// Transform runs the style transform on a pending post. The reserved
// rejection style skips the external call and lands the post in rejected.
// On transform failure the post stays pending so the owner can retry.
func (s *PostService) Transform(ctx context.Context, in TransformInput) (*models.Post, error) {
	post, err := s.postRepo.GetByImageID(ctx, in.ImageID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("Only the owner may transform this post")
	}
	if post.Status != models.StatusPendingTransform {
		return nil, models.NewConflictError("Post has already been transformed")
	}

	style := in.Style
	if style == "" {
		style = catalog.DefaultStyle
	}
	if !catalog.ValidStyle(style) {
		return nil, models.NewValidationError("Unknown style: " + style)
	}

	visibility := models.Visibility(in.Visibility)
	if in.Visibility == "" {
		visibility = models.VisibilityPrivate
	}
	if !visibility.Valid() {
		return nil, models.NewValidationError("Visibility must be public or private")
	}

	start := time.Now()

	if catalog.IsRejectionStyle(style) {
		// Simulated moderation rejection: no external call, the original
		// reference doubles as the "transformed" result.
		post.Kind = models.KindTransformed
		post.Status = models.StatusRejected
		post.Visibility = models.VisibilityPrivate
		post.Style = style
		post.TransformedURL = post.OriginalURL
		post.TransformedObjectID = post.OriginalObjectID
		if err := s.postRepo.Update(ctx, post); err != nil {
			return nil, err
		}
		if err := s.postRepo.ClearInteractions(ctx, post); err != nil {
			return nil, err
		}
		observability.ObserveTransform(style, observability.OutcomeRejected, start)
		s.notifyOwner(ctx, post, notifications.EventPostRejected)
		return post, nil
	}

	prompt, _ := catalog.StylePrompt(style)

	original, err := s.store.Fetch(ctx, post.OriginalObjectID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	transformed, err := s.transformer.Transform(ctx, original, prompt)
	if err != nil {
		observability.ObserveTransform(style, observability.OutcomeFailed, start)
		return nil, models.NewTransformError(err)
	}

	uploaded, err := s.store.Upload(ctx, transformed, post.OriginalFilename, storage.FolderImproved)
	if err != nil {
		observability.ObserveTransform(style, observability.OutcomeFailed, start)
		return nil, err
	}

	post.Kind = models.KindTransformed
	post.Status = models.StatusApproved
	post.Visibility = visibility
	post.Style = style
	post.TransformedURL = uploaded.URL
	post.TransformedObjectID = uploaded.ObjectID
	if err := s.postRepo.Update(ctx, post); err != nil {
		s.store.Delete(ctx, uploaded.ObjectID)
		return nil, err
	}
	// The approved post starts with fresh like/comment lists; anything the
	// owner left on it while pending does not carry over.
	if err := s.postRepo.ClearInteractions(ctx, post); err != nil {
		return nil, err
	}

	observability.ObserveTransform(style, observability.OutcomeApproved, start)
	s.notifyOwner(ctx, post, notifications.EventPostApproved)
	return post, nil
}

// SetVisibility toggles who may see the post. It is deliberately not gated
// on status: owners can pre-set visibility before the transform lands.
func (s *PostService) SetVisibility(ctx context.Context, in SetVisibilityInput) (*models.Post, error) {
	visibility := models.Visibility(in.Visibility)
	if !visibility.Valid() {
		return nil, models.NewValidationError("Visibility must be public or private")
	}

	post, err := s.postRepo.GetByImageID(ctx, in.ImageID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("Only the owner may change visibility")
	}

	post.Visibility = visibility
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the post record and best-effort deletes its blobs. Blob
// deletion failures never block record removal; the result lists what was
// actually cleaned up.
func (s *PostService) Delete(ctx context.Context, in DeletePostInput) (*DeletePostResult, error) {
	post, err := s.postRepo.GetByImageID(ctx, in.ImageID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		admin := false
		if s.isAdmin != nil {
			admin, err = s.isAdmin(ctx, in.UserID)
			if err != nil {
				return nil, err
			}
		}
		if !admin {
			return nil, models.NewForbiddenError("Only the owner may delete this post")
		}
	}

	result := &DeletePostResult{ImageID: post.ImageID, DeletedFiles: []string{}}
	if post.OriginalObjectID != "" && s.store.Delete(ctx, post.OriginalObjectID) {
		result.DeletedFiles = append(result.DeletedFiles, "original")
	}
	if post.TransformedObjectID != "" && post.TransformedObjectID != post.OriginalObjectID {
		if s.store.Delete(ctx, post.TransformedObjectID) {
			result.DeletedFiles = append(result.DeletedFiles, "transformed")
		}
	}

	if err := s.postRepo.Delete(ctx, post); err != nil {
		return nil, err
	}
	return result, nil
}

// GetPost returns a post if the viewer may see it. Private posts are
// indistinguishable from missing ones for other users.
func (s *PostService) GetPost(ctx context.Context, imageID string, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByImageID(ctx, imageID, viewerID)
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(viewerID) {
		return nil, models.NewNotFoundError("Post", imageID)
	}
	return post, nil
}

// GetUserPosts lists a user's posts; non-owners only see public ones.
func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, viewerID)
}

// Feed lists public approved posts, newest first.
func (s *PostService) Feed(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Post, error) {
	return s.postRepo.ListPublic(ctx, limit, offset, viewerID)
}

func (s *PostService) notifyOwner(ctx context.Context, post *models.Post, eventType string) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.PublishUser(ctx, post.UserID, notifications.Event{
		Type:    eventType,
		ImageID: post.ImageID,
	})
}
