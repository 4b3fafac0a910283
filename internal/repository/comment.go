package repository

import (
	"context"

	"photoshare/internal/cache"
	"photoshare/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations.
// Comments are append-only; removal only happens through photo deletion.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPhoto(ctx context.Context, photoID uint) ([]*models.Comment, error)
	CountByPhoto(ctx context.Context, photoID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Create(comment).Error
	if err == nil {
		cache.InvalidatePhoto(ctx, comment.PhotoID)
	}
	return err
}

func (r *commentRepository) ListByPhoto(ctx context.Context, photoID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("photo_id = ?", photoID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) CountByPhoto(ctx context.Context, photoID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("photo_id = ?", photoID).
		Count(&count).Error
	return count, err
}
