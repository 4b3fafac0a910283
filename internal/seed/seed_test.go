package seed

import (
	"crypto/sha1"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"photoshare/internal/database"
	"photoshare/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%x?mode=memory&cache=shared", sha1.Sum([]byte(t.Name())))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestRunPopulatesMesh(t *testing.T) {
	db := setupTestDB(t)

	plan := Plan{
		Creators:         3,
		Consumers:        5,
		PhotosPerCreator: 2,
		CommentsPerPhoto: 2,
		FollowsPerUser:   2,
		LikeRate:         1.0,
		SaveRate:         1.0,
		Clean:            true,
		Password:         "password123",
	}
	require.NoError(t, NewSeeder(db).Run(plan))

	var userCount, photoCount, likeCount, saveCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Photo{}).Count(&photoCount).Error)
	require.NoError(t, db.Model(&models.Like{}).Count(&likeCount).Error)
	require.NoError(t, db.Model(&models.Save{}).Count(&saveCount).Error)

	assert.Equal(t, int64(8), userCount)
	assert.Equal(t, int64(6), photoCount)
	// LikeRate and SaveRate of 1.0 mark every photo by every user.
	assert.Equal(t, int64(48), likeCount)
	assert.Equal(t, int64(48), saveCount)

	var creatorCount int64
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", models.RoleCreator).Count(&creatorCount).Error)
	assert.Equal(t, int64(3), creatorCount)

	var photos []models.Photo
	require.NoError(t, db.Find(&photos).Error)
	for _, p := range photos {
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.AutoTags)
		assert.Contains(t, p.FileURL, "/static/uploads/")
	}
}

func TestRunSeedsOnlyAcceptedComments(t *testing.T) {
	db := setupTestDB(t)

	plan := DefaultPlan()
	plan.Creators = 2
	plan.Consumers = 2
	plan.PhotosPerCreator = 3
	plan.CommentsPerPhoto = 4
	require.NoError(t, NewSeeder(db).Run(plan))

	var comments []models.Comment
	require.NoError(t, db.Find(&comments).Error)
	require.NotEmpty(t, comments)
	for _, c := range comments {
		assert.Contains(t, []string{
			models.SentimentPositive,
			models.SentimentNeutral,
			models.SentimentNegative,
		}, c.Sentiment)
	}
}

func TestRunCleanRemovesPreviousData(t *testing.T) {
	db := setupTestDB(t)

	plan := DefaultPlan()
	plan.Creators = 2
	plan.Consumers = 2
	plan.PhotosPerCreator = 1
	require.NoError(t, NewSeeder(db).Run(plan))
	require.NoError(t, NewSeeder(db).Run(plan))

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.Equal(t, int64(4), userCount)
}

func TestRunNoSelfFollows(t *testing.T) {
	db := setupTestDB(t)

	plan := DefaultPlan()
	plan.Creators = 2
	plan.Consumers = 3
	plan.PhotosPerCreator = 0
	plan.CommentsPerPhoto = 0
	plan.FollowsPerUser = 5
	require.NoError(t, NewSeeder(db).Run(plan))

	var selfFollows int64
	require.NoError(t, db.Table("followers").Where("follower_id = followed_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)
}
