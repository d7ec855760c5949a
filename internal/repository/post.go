// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"hayai/internal/cache"
	"hayai/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByImageID(ctx context.Context, imageID string, viewerID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error)
	ListPublic(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, post *models.Post) error
	// ClearInteractions removes every like and comment on the post. The
	// transform step calls this when a post leaves pending_transform.
	ClearInteractions(ctx context.Context, post *models.Post) error
	Like(ctx context.Context, userID, postID uint, imageID string) error
	Unlike(ctx context.Context, userID, postID uint, imageID string) error
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	LikeCount(ctx context.Context, postID uint) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if viewerID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", viewerID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Post already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByImageID(ctx context.Context, imageID string, viewerID uint) (*models.Post, error) {
	var post models.Post

	fetch := func() error {
		if err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
			Preload("User").
			Where("image_id = ?", imageID).
			First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", imageID)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if viewerID == 0 {
		// Anonymous reads carry no per-viewer liked flag, so they can share
		// a cache entry.
		err = cache.Aside(ctx, cache.PostKey(imageID), &post, cache.PostTTL, fetch)
	} else {
		err = fetch()
	}

	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	q := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("user_id = ?", userID)
	// Someone else's page only surfaces public, non-rejected posts;
	// owners see everything.
	if viewerID != userID {
		q = q.Where("visibility = ? AND status <> ?", models.VisibilityPublic, models.StatusRejected)
	}
	err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListPublic(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("visibility = ? AND status = ?", models.VisibilityPublic, models.StatusApproved).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ImageID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, post.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ImageID)
	return nil
}

func (r *postRepository) ClearInteractions(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ImageID)
	return nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint, imageID string) error {
	// Use INSERT ... ON CONFLICT DO NOTHING to handle race conditions.
	// This is atomic and makes repeated likes a no-op instead of an error.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.Invalidate(ctx, cache.PostKey(imageID))
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint, imageID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PostKey(imageID))
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) LikeCount(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
