// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role controls what a user may do: creators upload photos, consumers only
// browse and interact.
type Role string

const (
	RoleCreator  Role = "creator"
	RoleConsumer Role = "consumer"
)

// ValidRole reports whether the given string is a known user role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleCreator, RoleConsumer:
		return true
	}
	return false
}

// User represents a registered account in the PhotoShare application.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"size:150;unique;not null" json:"username"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      Role           `gorm:"type:varchar(50);not null;default:'consumer'" json:"role"`
	Bio       string         `gorm:"size:300" json:"bio"`
	Avatar    string         `gorm:"size:255" json:"avatar"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Photos []Photo `gorm:"foreignKey:UserID" json:"photos,omitempty"`

	// Following is the set of users this user follows, via the followers
	// association table (follower_id -> followed_id).
	Following []*User `gorm:"many2many:followers;joinForeignKey:FollowerID;joinReferences:FollowedID" json:"-"`

	// FollowersCount and FollowingCount are not persisted; computed at query time.
	FollowersCount int64 `gorm:"->" json:"followers_count"`
	FollowingCount int64 `gorm:"->" json:"following_count"`
}

func (User) TableName() string {
	return "users"
}
