package repository

import (
	"context"

	"hayai/internal/cache"
	"hayai/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for preset comments.
type CommentRepository interface {
	Append(ctx context.Context, comment *models.Comment, imageID string) error
	ListByPostID(ctx context.Context, postID uint, imageID string) ([]models.Comment, error)
	CountByPostID(ctx context.Context, postID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Append(ctx context.Context, comment *models.Comment, imageID string) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Comment already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, imageID)
	return nil
}

// ListByPostID returns the full comment thread oldest-first. Threads are
// short (preset comments only) so there is no pagination.
func (r *commentRepository) ListByPostID(ctx context.Context, postID uint, imageID string) ([]models.Comment, error) {
	var comments []models.Comment

	err := cache.Aside(ctx, cache.PostCommentsKey(imageID), &comments, cache.PostCommentsTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("post_id = ?", postID).
			Order("created_at ASC, id ASC").
			Find(&comments).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) CountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
