package cache

import (
	"context"
	"fmt"
	"time"
)

// Key formats for every cached entity. Anything cached must have its key
// listed here so invalidation stays auditable.
const (
	UserKeyPrefix         = "user:%d"
	PostKeyPrefix         = "post:%s"
	PostCommentsKeyPrefix = "post:%s:comments"
	FollowStatsKeyPrefix  = "user:%d:followstats"
	PresetsKey            = "catalog:presets"
	StylesKey             = "catalog:styles"
)

const (
	UserTTL         = 5 * time.Minute
	PostTTL         = 10 * time.Minute
	PostCommentsTTL = 2 * time.Minute
	FollowStatsTTL  = 5 * time.Minute
	CatalogTTL      = 12 * time.Hour
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// PostKey keys on the public image ID, not the internal row ID.
func PostKey(imageID string) string {
	return fmt.Sprintf(PostKeyPrefix, imageID)
}

func PostCommentsKey(imageID string) string {
	return fmt.Sprintf(PostCommentsKeyPrefix, imageID)
}

func FollowStatsKey(userID uint) string {
	return fmt.Sprintf(FollowStatsKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidatePost drops both the post body and its comment list.
func InvalidatePost(ctx context.Context, imageID string) {
	Invalidate(ctx, PostKey(imageID))
	Invalidate(ctx, PostCommentsKey(imageID))
}

func InvalidateFollowStats(ctx context.Context, userID uint) {
	Invalidate(ctx, FollowStatsKey(userID))
}
