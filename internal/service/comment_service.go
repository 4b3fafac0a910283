package service

import (
	"context"
	"strings"

	"photoshare/internal/models"
	"photoshare/internal/observability"
	"photoshare/internal/repository"
)

// ErrCommentRejected is returned when the sentiment filter refuses a
// comment. Nothing is persisted in that case.
var ErrCommentRejected = models.NewValidationError("comment rejected by sentiment moderation")

// CommentService handles comment submission and listing.
type CommentService struct {
	comments repository.CommentRepository
	photos   repository.PhotoRepository
}

// NewCommentService creates a new comment service
func NewCommentService(comments repository.CommentRepository, photos repository.PhotoRepository) *CommentService {
	return &CommentService{comments: comments, photos: photos}
}

// CreateCommentInput carries a comment submission.
type CreateCommentInput struct {
	PhotoID uint
	UserID  uint
	Text    string
}

// Create runs the sentiment filter and persists the comment when it passes.
// The stored label is derived once here and never recomputed.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("comment text is required")
	}
	if len(text) > 500 {
		return nil, models.NewValidationError("comment text must be at most 500 characters")
	}

	if _, err := s.photos.GetByID(ctx, in.PhotoID, 0); err != nil {
		return nil, models.NewNotFoundError("photo", in.PhotoID)
	}

	score := Polarity(text)
	if Rejected(score) {
		observability.CommentsRejected.Inc()
		return nil, ErrCommentRejected
	}

	comment := &models.Comment{
		Text:      text,
		Sentiment: SentimentLabel(score),
		UserID:    in.UserID,
		PhotoID:   in.PhotoID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

// ListByPhoto returns a photo's comments oldest first.
func (s *CommentService) ListByPhoto(ctx context.Context, photoID uint) ([]*models.Comment, error) {
	if _, err := s.photos.GetByID(ctx, photoID, 0); err != nil {
		return nil, models.NewNotFoundError("photo", photoID)
	}
	comments, err := s.comments.ListByPhoto(ctx, photoID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}
