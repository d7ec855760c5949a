package models

import (
	"time"
)

// Like records that a user liked a post. The composite unique index makes
// repeat likes a no-op at the database level.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
