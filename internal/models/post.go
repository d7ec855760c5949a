package models

import (
	"time"

	"gorm.io/gorm"
)

// PostKind distinguishes plain uploads from AI-transformed drawings.
type PostKind string

const (
	KindOriginal    PostKind = "original"
	KindTransformed PostKind = "transformed"
)

func (k PostKind) Valid() bool {
	switch k {
	case KindOriginal, KindTransformed:
		return true
	}
	return false
}

// PostStatus is the transform lifecycle state of a post.
type PostStatus string

const (
	StatusPendingTransform PostStatus = "pending_transform"
	StatusApproved         PostStatus = "approved"
	StatusRejected         PostStatus = "rejected"
)

func (s PostStatus) Valid() bool {
	switch s {
	case StatusPendingTransform, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Visibility gates who may see a post and interact with it.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate:
		return true
	}
	return false
}

// Post represents a drawing, identified externally by its ImageID.
// The numeric ID stays internal; all API routes address posts by ImageID.
type Post struct {
	ID      uint       `gorm:"primaryKey" json:"-"`
	ImageID string     `gorm:"uniqueIndex;not null" json:"image_id"`
	UserID  uint       `gorm:"not null;index" json:"user_id"`
	User    User       `gorm:"foreignKey:UserID" json:"user"`
	Kind    PostKind   `gorm:"type:varchar(16);not null" json:"kind"`
	Status  PostStatus `gorm:"type:varchar(24);not null;index" json:"status"`
	// Visibility defaults to private; a post only becomes public explicitly.
	Visibility       Visibility `gorm:"type:varchar(10);not null;default:private" json:"visibility"`
	Style            string     `gorm:"type:varchar(32)" json:"style,omitempty"`
	OriginalFilename string     `json:"original_filename"`
	OriginalURL      string     `json:"original_url"`
	OriginalObjectID string     `json:"-"`
	// Transformed references stay empty until the transform succeeds.
	TransformedURL      string `json:"transformed_url,omitempty"`
	TransformedObjectID string `json:"-"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Interactable reports whether likes and comments are allowed on the post.
// Rejected posts never accept interactions, not even from their owner.
func (p *Post) Interactable() bool {
	return p.Status != StatusRejected
}

// VisibleTo reports whether viewerID may read the post. A zero viewerID
// means an unauthenticated request. Owners always see their own posts.
// Everyone else only sees public posts that were not rejected, so flipping
// a rejected post to public never exposes it.
func (p *Post) VisibleTo(viewerID uint) bool {
	if viewerID != 0 && viewerID == p.UserID {
		return true
	}
	return p.Visibility == VisibilityPublic && p.Status != StatusRejected
}
