package models

import "time"

// Photo represents an uploaded photo owned by exactly one user.
//
// FileURL is the storage locator returned by the configured backend: an
// absolute blob URL for remote storage, or a relative /static/uploads/ path
// for the local fallback. PreviewURL is the WebP rendition, when one was
// produced.
type Photo struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	FileURL       string `gorm:"size:255;not null" json:"file_url"`
	PreviewURL    string `gorm:"size:255" json:"preview_url,omitempty"`
	Title         string `gorm:"size:100;not null" json:"title"`
	Caption       string `gorm:"size:500" json:"caption"`
	Location      string `gorm:"size:100" json:"location"`
	PeoplePresent string `gorm:"size:200" json:"people_present"`
	AutoTags      string `gorm:"size:300" json:"auto_tags"`

	UserID  uint `gorm:"not null;index" json:"user_id"`
	Creator User `gorm:"foreignKey:UserID" json:"creator"`

	// LikesCount, SavesCount and CommentsCount are not persisted; computed at query time.
	LikesCount    int64 `gorm:"->" json:"likes_count"`
	SavesCount    int64 `gorm:"->" json:"saves_count"`
	CommentsCount int64 `gorm:"->" json:"comments_count"`
	// Liked and Saved indicate whether the requesting user has a matching join row (computed).
	Liked bool `gorm:"->" json:"liked"`
	Saved bool `gorm:"->" json:"saved"`

	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (Photo) TableName() string {
	return "photos"
}

// Like is a presence-only join row: its existence means the user likes the
// photo. The composite primary key is the only duplicate guard.
type Like struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PhotoID   uint      `gorm:"primaryKey;autoIncrement:false" json:"photo_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}

// Save mirrors Like for the user's private saved collection.
type Save struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PhotoID   uint      `gorm:"primaryKey;autoIncrement:false" json:"photo_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Save) TableName() string {
	return "saves"
}
