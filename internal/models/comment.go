package models

import "time"

// Sentiment labels assigned to accepted comments by the sentiment filter.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Comment is free text attached to a photo. Comments are never mutated after
// creation; the sentiment label is derived once at submission time.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"size:500;not null" json:"text"`
	Sentiment string    `gorm:"size:20;not null;default:'neutral'" json:"sentiment"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	PhotoID   uint      `gorm:"not null;index" json:"photo_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Photo     Photo     `gorm:"foreignKey:PhotoID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}
