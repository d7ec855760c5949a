package models

import (
	"time"
)

// Comment is a preset comment left on a post. Only the preset ID is
// persisted; the display text is resolved from the catalog at read time
// so catalog edits retroactively apply to stored comments.
type Comment struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	CommentID string `gorm:"uniqueIndex;not null" json:"comment_id"`
	PostID    uint   `gorm:"not null;index" json:"-"`
	UserID    uint   `gorm:"not null" json:"user_id"`
	// Author fields are snapshotted at write time, matching how the
	// feed renders comments without a join per row.
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarName  string    `json:"avatar_name"`
	PresetID    int       `gorm:"not null" json:"preset_id"`
	Text        string    `gorm:"-" json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}
