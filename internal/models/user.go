// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole controls what a user may do beyond their own content.
type UserRole string

const (
	RoleChild  UserRole = "child"
	RoleParent UserRole = "parent"
	RoleAdmin  UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleChild, RoleParent, RoleAdmin:
		return true
	}
	return false
}

// User represents an account. IDs are minted from the user_id sequence
// rather than the database autoincrement so they are stable across stores.
type User struct {
	ID          uint     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Username    string   `gorm:"uniqueIndex;not null" json:"username"`
	Email       string   `gorm:"uniqueIndex;not null" json:"email"`
	Password    string   `gorm:"not null" json:"-"`
	DisplayName string   `json:"display_name"`
	Bio         string   `json:"bio"`
	AvatarName  string   `json:"avatar_name"`
	Role        UserRole `gorm:"type:varchar(10);default:child" json:"role"`
	Interests   []string `gorm:"serializer:json" json:"interests"`
	AgeVerified bool     `json:"age_verified"`
	// TermsAccepted is required at registration; the timestamp records when.
	TermsAccepted   bool       `gorm:"not null;default:false" json:"terms_accepted"`
	TermsAcceptedAt *time.Time `json:"terms_accepted_at,omitempty"`
	// FollowersCount and FollowingCount are not persisted; computed at query time
	FollowersCount int            `gorm:"->" json:"followers_count"`
	FollowingCount int            `gorm:"->" json:"following_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicProfile strips fields that must not leak to other users.
func (u *User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":           u.ID,
		"username":     u.Username,
		"display_name": u.DisplayName,
		"bio":          u.Bio,
		"avatar_name":  u.AvatarName,
		"interests":    u.Interests,
		"created_at":   u.CreatedAt,
	}
}
