package repository

import (
	"context"
	"strings"

	"photoshare/internal/cache"
	"photoshare/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PhotoRepository defines the interface for photo data operations
type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Photo, error)
	List(ctx context.Context, limit, offset int, currentUserID uint, search string) ([]*models.Photo, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Photo, error)
	ListSavedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Photo, error)
	ListLikedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Photo, error)
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, userID, photoID uint) (bool, int64, error)
	ToggleSave(ctx context.Context, userID, photoID uint) (bool, int64, error)
}

type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

// applyPhotoDetails adds subqueries to fetch counts and liked/saved status in
// a single query.
func (r *photoRepository) applyPhotoDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "photos.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.photo_id = photos.id) as likes_count, " +
		"(SELECT COUNT(*) FROM saves WHERE saves.photo_id = photos.id) as saves_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.photo_id = photos.id) as comments_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM likes WHERE likes.photo_id = photos.id AND likes.user_id = ?) as liked"+
			", EXISTS(SELECT 1 FROM saves WHERE saves.photo_id = photos.id AND saves.user_id = ?) as saved",
			currentUserID, currentUserID)
	}
	return db.Select(selectQuery + ", false as liked, false as saved")
}

func (r *photoRepository) Create(ctx context.Context, photo *models.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *photoRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Photo, error) {
	var photo models.Photo

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.PhotoKey(id), &photo, cache.PhotoTTL, func() error {
			return r.applyPhotoDetails(r.db.WithContext(ctx), 0).
				Preload("Creator").
				First(&photo, id).Error
		})
	} else {
		err = r.applyPhotoDetails(r.db.WithContext(ctx), currentUserID).
			Preload("Creator").
			First(&photo, id).Error
	}
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// List returns the reverse-chronological feed. A non-empty search matches
// title, caption, location, auto tags and the creator's username. LOWER/LIKE
// is used rather than ILIKE so the query runs on both Postgres and SQLite.
func (r *photoRepository) List(ctx context.Context, limit, offset int, currentUserID uint, search string) ([]*models.Photo, error) {
	var photos []*models.Photo
	q := r.applyPhotoDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Creator")

	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Joins("JOIN users ON users.id = photos.user_id").
			Where(
				"LOWER(photos.title) LIKE ? OR LOWER(photos.caption) LIKE ? OR LOWER(photos.location) LIKE ? OR LOWER(photos.auto_tags) LIKE ? OR LOWER(users.username) LIKE ?",
				like, like, like, like, like,
			)
	}

	err := q.Order("photos.uploaded_at DESC, photos.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *photoRepository) ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Photo, error) {
	var photos []*models.Photo
	err := r.applyPhotoDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Creator").
		Where("photos.user_id = ?", userID).
		Order("photos.uploaded_at DESC, photos.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *photoRepository) ListSavedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Photo, error) {
	return r.listMarkedBy(ctx, "saves", userID, limit, offset)
}

func (r *photoRepository) ListLikedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Photo, error) {
	return r.listMarkedBy(ctx, "likes", userID, limit, offset)
}

func (r *photoRepository) listMarkedBy(ctx context.Context, table string, userID uint, limit, offset int) ([]*models.Photo, error) {
	var photos []*models.Photo
	err := r.applyPhotoDetails(r.db.WithContext(ctx), userID).
		Preload("Creator").
		Joins("JOIN "+table+" m ON m.photo_id = photos.id").
		Where("m.user_id = ?", userID).
		Order("m.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// Delete removes the photo and its comments, likes and saves in one
// transaction. SQLite does not enforce the FK cascade by default, so the
// dependents are deleted explicitly.
func (r *photoRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("photo_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("photo_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("photo_id = ?", id).Delete(&models.Save{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Photo{}, id).Error
	})
	if err == nil {
		cache.InvalidatePhoto(ctx, id)
	}
	return err
}

// ToggleLike flips the like mark and reports the new state and count. The
// insert uses ON CONFLICT DO NOTHING so concurrent taps never error; a no-op
// insert means the mark existed and is removed instead.
func (r *photoRepository) ToggleLike(ctx context.Context, userID, photoID uint) (bool, int64, error) {
	return r.toggleMark(ctx, &models.Like{UserID: userID, PhotoID: photoID}, &models.Like{}, userID, photoID)
}

// ToggleSave flips the save mark, same contract as ToggleLike.
func (r *photoRepository) ToggleSave(ctx context.Context, userID, photoID uint) (bool, int64, error) {
	return r.toggleMark(ctx, &models.Save{UserID: userID, PhotoID: photoID}, &models.Save{}, userID, photoID)
}

func (r *photoRepository) toggleMark(ctx context.Context, mark interface{}, model interface{}, userID, photoID uint) (bool, int64, error) {
	var active bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(mark)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			active = true
			return nil
		}
		// Already marked: this toggle removes it.
		return tx.Where("user_id = ? AND photo_id = ?", userID, photoID).Delete(model).Error
	})
	if err != nil {
		return false, 0, err
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("photo_id = ?", photoID).Count(&count).Error; err != nil {
		return false, 0, err
	}
	cache.InvalidatePhoto(ctx, photoID)
	return active, count, nil
}
