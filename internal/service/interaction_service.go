package service

import (
	"context"

	"hayai/internal/catalog"
	"hayai/internal/models"
	"hayai/internal/notifications"
	"hayai/internal/observability"
	"hayai/internal/repository"

	"github.com/google/uuid"
)

// InteractionService owns likes and preset comments. Every operation runs
// through the same gate: rejected posts accept no interactions at all, and
// private posts only interact with their owner.
type InteractionService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	notifier    *notifications.Notifier
}

// LikeResult is the state of a post's like counter after a like or unlike.
type LikeResult struct {
	Likes   int64 `json:"likes"`
	IsLiked bool  `json:"is_liked"`
}

func NewInteractionService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	notifier *notifications.Notifier,
) *InteractionService {
	return &InteractionService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// gatedPost loads the post and applies the interaction gate.
func (s *InteractionService) gatedPost(ctx context.Context, imageID string, userID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByImageID(ctx, imageID, userID)
	if err != nil {
		return nil, err
	}
	if !post.Interactable() {
		return nil, models.NewForbiddenError("This post does not accept interactions")
	}
	if !post.VisibleTo(userID) {
		return nil, models.NewForbiddenError("This post is private")
	}
	return post, nil
}

// Like adds the user to the post's likers. Repeated likes are no-ops.
func (s *InteractionService) Like(ctx context.Context, userID uint, imageID string) (*LikeResult, error) {
	post, err := s.gatedPost(ctx, imageID, userID)
	if err != nil {
		return nil, err
	}

	alreadyLiked, err := s.postRepo.IsLiked(ctx, userID, post.ID)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.Like(ctx, userID, post.ID, post.ImageID); err != nil {
		return nil, err
	}
	observability.InteractionsTotal.WithLabelValues("like").Inc()

	if !alreadyLiked && userID != post.UserID && s.notifier != nil {
		_ = s.notifier.PublishUser(ctx, post.UserID, notifications.Event{
			Type:    notifications.EventPostLiked,
			ActorID: userID,
			ImageID: post.ImageID,
		})
	}

	likes, err := s.postRepo.LikeCount(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Likes: likes, IsLiked: true}, nil
}

// Unlike removes the user from the post's likers. Unliking a post you never
// liked is a no-op.
func (s *InteractionService) Unlike(ctx context.Context, userID uint, imageID string) (*LikeResult, error) {
	post, err := s.gatedPost(ctx, imageID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.Unlike(ctx, userID, post.ID, post.ImageID); err != nil {
		return nil, err
	}
	observability.InteractionsTotal.WithLabelValues("unlike").Inc()

	likes, err := s.postRepo.LikeCount(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Likes: likes, IsLiked: false}, nil
}

// Comment appends a preset comment with a snapshot of the author's identity.
func (s *InteractionService) Comment(ctx context.Context, userID uint, imageID string, presetID int) (*models.Comment, error) {
	text, ok := catalog.PresetText(presetID)
	if !ok {
		return nil, models.NewValidationError("Unknown comment preset")
	}

	post, err := s.gatedPost(ctx, imageID, userID)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		CommentID:   uuid.NewString(),
		PostID:      post.ID,
		UserID:      author.ID,
		Username:    author.Username,
		DisplayName: author.DisplayName,
		AvatarName:  author.AvatarName,
		PresetID:    presetID,
	}
	if err := s.commentRepo.Append(ctx, comment, post.ImageID); err != nil {
		return nil, err
	}
	comment.Text = text
	observability.InteractionsTotal.WithLabelValues("comment").Inc()

	if userID != post.UserID && s.notifier != nil {
		_ = s.notifier.PublishUser(ctx, post.UserID, notifications.Event{
			Type:     notifications.EventPostCommented,
			ActorID:  userID,
			ImageID:  post.ImageID,
			PresetID: presetID,
		})
	}
	return comment, nil
}

// ListComments returns the post's comment thread with preset text resolved
// at read time. Comments whose preset vanished from the catalog render with
// empty text rather than failing.
func (s *InteractionService) ListComments(ctx context.Context, viewerID uint, imageID string) ([]models.Comment, error) {
	post, err := s.gatedPost(ctx, imageID, viewerID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPostID(ctx, post.ID, post.ImageID)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if text, ok := catalog.PresetText(comments[i].PresetID); ok {
			comments[i].Text = text
		}
	}
	return comments, nil
}

// PresetComments exposes the fixed comment catalog.
func (s *InteractionService) PresetComments() []catalog.PresetComment {
	return catalog.PresetComments()
}
