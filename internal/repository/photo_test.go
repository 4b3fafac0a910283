package repository

import (
	"context"
	"testing"

	"photoshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPhotoRepository_GetByIDComputesCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPhotoRepository(db)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator", models.RoleCreator)
	viewer := createTestUser(t, db, "viewer", models.RoleConsumer)
	other := createTestUser(t, db, "other", models.RoleConsumer)
	photo := createTestPhoto(t, db, creator.ID, "sunset")

	require.NoError(t, db.Create(&models.Like{UserID: viewer.ID, PhotoID: photo.ID}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: other.ID, PhotoID: photo.ID}).Error)
	require.NoError(t, db.Create(&models.Save{UserID: other.ID, PhotoID: photo.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{Text: "nice", UserID: viewer.ID, PhotoID: photo.ID}).Error)

	got, err := repo.GetByID(ctx, photo.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.LikesCount)
	assert.Equal(t, int64(1), got.SavesCount)
	assert.Equal(t, int64(1), got.CommentsCount)
	assert.True(t, got.Liked)
	assert.False(t, got.Saved)
	assert.Equal(t, "creator", got.Creator.Username)

	// Anonymous viewers never show per-user marks.
	anon, err := repo.GetByID(ctx, photo.ID, 0)
	require.NoError(t, err)
	assert.False(t, anon.Liked)
	assert.False(t, anon.Saved)
}

func TestPhotoRepository_GetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPhotoRepository(db)

	_, err := repo.GetByID(context.Background(), 999, 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPhotoRepository_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPhotoRepository(db)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator", models.RoleCreator)
	first := createTestPhoto(t, db, creator.ID, "first")
	second := createTestPhoto(t, db, creator.ID, "second")

	photos, err := repo.List(ctx, 20, 0, 0, "")
	require.NoError(t, err)
	require.Len(t, photos, 2)
	// Same-second uploads fall back to id ordering, newest id first.
	assert.Equal(t, second.ID, photos[0].ID)
	assert.Equal(t, first.ID, photos[1].ID)
}

func TestPhotoRepository_ListSearch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPhotoRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice_shoots", models.RoleCreator)
	bob := createTestUser(t, db, "bob", models.RoleCreator)

	beach := &models.Photo{FileURL: "/static/uploads/a.jpg", Title: "Beach Day", Caption: "waves and sand", Location: "Lisbon", UserID: alice.ID}
	require.NoError(t, db.Create(beach).Error)
	forest := &models.Photo{FileURL: "/static/uploads/b.jpg", Title: "Forest walk", AutoTags: "HD ᴴᴰ | Dark \U0001f319", UserID: bob.ID}
	require.NoError(t, db.Create(forest).Error)

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"By Title Case Insensitive", "beach", []string{"Beach Day"}},
		{"By Caption", "SAND", []string{"Beach Day"}},
		{"By Location", "lisbon", []string{"Beach Day"}},
		{"By Auto Tags", "dark", []string{"Forest walk"}},
		{"By Creator Username", "alice", []string{"Beach Day"}},
		{"No Match", "mountains", nil},
		{"Blank Returns All", "   ", []string{"Forest walk", "Beach Day"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			photos, err := repo.List(ctx, 20, 0, 0, tt.search)
			require.NoError(t, err)
			titles := make([]string, 0, len(photos))
			for _, p := range photos {
				titles = append(titles, p.Title)
			}
			if tt.want == nil {
				assert.Empty(t, titles)
			} else {
				assert.Equal(t, tt.want, titles)
			}
		})
	}
}

func TestPhotoRepository_ListByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPhotoRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice", models.RoleCreator)
	bob := createTestUser(t, db, "bob", models.RoleCreator)
	createTestPhoto(t, db, alice.ID, "mine")
	createTestPhoto(t, db, bob.ID, "theirs")

	photos, err := repo.ListByUser(ctx, alice.ID, 20, 0, 0)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, "mine", photos[0].Title)
}

func TestPhotoRepository_ToggleLike(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPhotoRepository(db)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator", models.RoleCreator)
	viewer := createTestUser(t, db, "viewer", models.RoleConsumer)
	photo := createTestPhoto(t, db, creator.ID, "sunset")

	liked, count, err := repo.ToggleLike(ctx, viewer.ID, photo.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	// Second toggle removes the mark.
	liked, count, err = repo.ToggleLike(ctx, viewer.ID, photo.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), count)
}

func TestPhotoRepository_ToggleSaveIndependentOfLike(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPhotoRepository(db)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator", models.RoleCreator)
	viewer := createTestUser(t, db, "viewer", models.RoleConsumer)
	photo := createTestPhoto(t, db, creator.ID, "sunset")

	saved, count, err := repo.ToggleSave(ctx, viewer.ID, photo.ID)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetByID(ctx, photo.ID, viewer.ID)
	require.NoError(t, err)
	assert.True(t, got.Saved)
	assert.False(t, got.Liked)
}

func TestPhotoRepository_ListSavedBy(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPhotoRepository(db)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator", models.RoleCreator)
	viewer := createTestUser(t, db, "viewer", models.RoleConsumer)
	saved := createTestPhoto(t, db, creator.ID, "saved-one")
	createTestPhoto(t, db, creator.ID, "not-saved")

	_, _, err := repo.ToggleSave(ctx, viewer.ID, saved.ID)
	require.NoError(t, err)

	photos, err := repo.ListSavedBy(ctx, viewer.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, "saved-one", photos[0].Title)
	assert.True(t, photos[0].Saved)
}

func TestPhotoRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPhotoRepository(db)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator", models.RoleCreator)
	viewer := createTestUser(t, db, "viewer", models.RoleConsumer)
	photo := createTestPhoto(t, db, creator.ID, "doomed")

	require.NoError(t, db.Create(&models.Like{UserID: viewer.ID, PhotoID: photo.ID}).Error)
	require.NoError(t, db.Create(&models.Save{UserID: viewer.ID, PhotoID: photo.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{Text: "gone soon", UserID: viewer.ID, PhotoID: photo.ID}).Error)

	require.NoError(t, repo.Delete(ctx, photo.ID))

	_, err := repo.GetByID(ctx, photo.ID, 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	for _, model := range []interface{}{&models.Comment{}, &models.Like{}, &models.Save{}} {
		var count int64
		require.NoError(t, db.Model(model).Where("photo_id = ?", photo.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	}
}
