package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/observability"
	"photoshare/internal/repository"
	"photoshare/internal/storage"
)

// PhotoService handles the upload pipeline and photo lifecycle. The storage
// backend may be nil when the deployment has no storage configured; every
// upload then fails without touching the database.
type PhotoService struct {
	photos  repository.PhotoRepository
	storage storage.Backend
}

// NewPhotoService creates a new photo service
func NewPhotoService(photos repository.PhotoRepository, backend storage.Backend) *PhotoService {
	return &PhotoService{photos: photos, storage: backend}
}

// UploadPhotoInput carries a multipart photo submission.
type UploadPhotoInput struct {
	UserID   uint
	FileName string
	Content  []byte
	Title    string
	Caption  string
	Location string
	People   string
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// uploadName builds the stored object name: a UTC timestamp prefix plus the
// sanitized client filename with the extension forced to the rendition's.
func uploadName(original string, now time.Time, ext string) string {
	base := filepath.Base(original)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = unsafeNameChars.ReplaceAllString(base, "_")
	if base == "" || base == "." {
		base = "photo"
	}
	return now.UTC().Format("20060102150405") + "_" + base + ext
}

// Upload runs the full pipeline: analyze and re-encode, store the renditions,
// then create the row. Nothing is persisted when storage is missing, and
// stored files are cleaned up when the row insert fails.
func (s *PhotoService) Upload(ctx context.Context, in UploadPhotoInput) (*models.Photo, error) {
	if s.storage == nil {
		observability.PhotoUploadFailures.WithLabelValues("storage").Inc()
		return nil, models.NewStorageError("no storage configured", storage.ErrNotConfigured)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("title is required")
	}
	if len(title) > 100 {
		return nil, models.NewValidationError("title must be at most 100 characters")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("photo file is required")
	}

	now := time.Now()

	// Analysis and re-encoding are best-effort: an undecodable file is
	// stored as-is with the default tag.
	var (
		mainName, mainType string
		mainData           []byte
		previewData        []byte
		tags               string
	)
	processed, err := ProcessPhoto(in.Content)
	if err != nil {
		observability.PhotoUploadFailures.WithLabelValues("decode").Inc()
		middleware.Logger.WarnContext(ctx, "photo processing failed, storing original",
			slog.String("file", in.FileName), slog.String("error", err.Error()))
		ext := strings.ToLower(filepath.Ext(in.FileName))
		if ext == "" {
			ext = ".bin"
		}
		mainName = uploadName(in.FileName, now, ext)
		mainType = http.DetectContentType(in.Content)
		mainData = in.Content
		tags = DefaultTag
	} else {
		mainName = uploadName(in.FileName, now, ".jpg")
		mainType = "image/jpeg"
		mainData = processed.JPEG
		previewData = processed.WebP
		tags = processed.Tags
	}

	fileURL, err := s.storage.Put(ctx, mainName, mainType, mainData)
	if err != nil {
		observability.PhotoUploadFailures.WithLabelValues("store").Inc()
		return nil, models.NewStorageError("failed to store photo", err)
	}

	var previewURL string
	if previewData != nil {
		previewURL, err = s.storage.Put(ctx, uploadName(in.FileName, now, ".webp"), "image/webp", previewData)
		if err != nil {
			// The JPEG is canonical; continue without a preview.
			middleware.Logger.WarnContext(ctx, "preview upload failed",
				slog.String("file", mainName), slog.String("error", err.Error()))
			previewURL = ""
		}
	}

	photo := &models.Photo{
		FileURL:       fileURL,
		PreviewURL:    previewURL,
		Title:         title,
		Caption:       strings.TrimSpace(in.Caption),
		Location:      strings.TrimSpace(in.Location),
		PeoplePresent: strings.TrimSpace(in.People),
		AutoTags:      tags,
		UserID:        in.UserID,
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		observability.PhotoUploadFailures.WithLabelValues("db").Inc()
		s.cleanupStored(ctx, fileURL, previewURL)
		return nil, models.NewInternalError(err)
	}

	observability.PhotoUploads.WithLabelValues(s.storage.Kind()).Inc()
	return photo, nil
}

func (s *PhotoService) cleanupStored(ctx context.Context, locators ...string) {
	for _, locator := range locators {
		if locator == "" {
			continue
		}
		if err := s.storage.Delete(ctx, locator); err != nil {
			middleware.Logger.WarnContext(ctx, "orphaned upload cleanup failed",
				slog.String("locator", locator), slog.String("error", err.Error()))
		}
	}
}

// Get returns a single photo with viewer-specific marks.
func (s *PhotoService) Get(ctx context.Context, photoID, currentUserID uint) (*models.Photo, error) {
	photo, err := s.photos.GetByID(ctx, photoID, currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("photo", photoID)
		}
		return nil, models.NewInternalError(err)
	}
	return photo, nil
}

// Feed lists photos newest first, optionally filtered by a search term.
func (s *PhotoService) Feed(ctx context.Context, currentUserID uint, limit, offset int, search string) ([]*models.Photo, error) {
	photos, err := s.photos.List(ctx, limit, offset, currentUserID, search)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return photos, nil
}

// ListByUser lists a user's own uploads.
func (s *PhotoService) ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Photo, error) {
	photos, err := s.photos.ListByUser(ctx, userID, limit, offset, currentUserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return photos, nil
}

// Delete removes a photo. Only the owner may delete; the storage delete is
// best-effort and the operation succeeds only when the row delete does.
func (s *PhotoService) Delete(ctx context.Context, photoID, userID uint) error {
	photo, err := s.photos.GetByID(ctx, photoID, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("photo", photoID)
		}
		return models.NewInternalError(err)
	}
	if photo.UserID != userID {
		return models.NewForbiddenError("only the owner can delete this photo")
	}

	if s.storage != nil {
		s.cleanupStored(ctx, photo.FileURL, photo.PreviewURL)
	}

	if err := s.photos.Delete(ctx, photoID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ToggleLike flips the caller's like and returns the new state and count.
func (s *PhotoService) ToggleLike(ctx context.Context, userID, photoID uint) (bool, int64, error) {
	if _, err := s.photos.GetByID(ctx, photoID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, models.NewNotFoundError("photo", photoID)
		}
		return false, 0, models.NewInternalError(err)
	}
	liked, count, err := s.photos.ToggleLike(ctx, userID, photoID)
	if err != nil {
		return false, 0, models.NewInternalError(err)
	}
	return liked, count, nil
}

// ToggleSave flips the caller's save, same contract as ToggleLike.
func (s *PhotoService) ToggleSave(ctx context.Context, userID, photoID uint) (bool, int64, error) {
	if _, err := s.photos.GetByID(ctx, photoID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, models.NewNotFoundError("photo", photoID)
		}
		return false, 0, models.NewInternalError(err)
	}
	saved, count, err := s.photos.ToggleSave(ctx, userID, photoID)
	if err != nil {
		return false, 0, models.NewInternalError(err)
	}
	return saved, count, nil
}
