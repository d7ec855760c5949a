package repository

import (
	"context"

	"hayai/internal/cache"
	"hayai/internal/models"

	"gorm.io/gorm"
)

// FollowStats bundles the two follow counters for a user.
type FollowStats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// FollowRepository defines persistence operations for the follow graph.
type FollowRepository interface {
	Upsert(ctx context.Context, followerID, followingID uint) error
	Delete(ctx context.Context, followerID, followingID uint) error
	Exists(ctx context.Context, followerID, followingID uint) (bool, error)
	Stats(ctx context.Context, userID uint) (*FollowStats, error)
	Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
	Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Upsert inserts the follow edge, silently ignoring duplicates so repeated
// follows stay idempotent under concurrent requests.
func (r *followRepository) Upsert(ctx context.Context, followerID, followingID uint) error {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (follower_id, following_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (follower_id, following_id) DO NOTHING`,
		followerID, followingID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	r.invalidate(ctx, followerID, followingID)
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	r.invalidate(ctx, followerID, followingID)
	return nil
}

func (r *followRepository) invalidate(ctx context.Context, followerID, followingID uint) {
	cache.InvalidateFollowStats(ctx, followerID)
	cache.InvalidateFollowStats(ctx, followingID)
	// Follow counts ride on the cached user profiles too.
	cache.InvalidateUser(ctx, followerID)
	cache.InvalidateUser(ctx, followingID)
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) Stats(ctx context.Context, userID uint) (*FollowStats, error) {
	var stats FollowStats

	err := cache.Aside(ctx, cache.FollowStatsKey(userID), &stats, cache.FollowStatsTTL, func() error {
		if err := r.db.WithContext(ctx).
			Model(&models.Follow{}).
			Where("following_id = ?", userID).
			Count(&stats.Followers).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := r.db.WithContext(ctx).
			Model(&models.Follow{}).
			Where("follower_id = ?", userID).
			Count(&stats.Following).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *followRepository) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
