package models

import (
	"time"
)

// Follow is a directed edge in the follow graph. The composite unique
// index keeps the edge set duplicate-free; self-loops are rejected in the
// service layer.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follow_edge;index" json:"follower_id"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_follow_edge;index" json:"following_id"`
	Follower    User      `gorm:"foreignKey:FollowerID" json:"-"`
	Following   User      `gorm:"foreignKey:FollowingID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
