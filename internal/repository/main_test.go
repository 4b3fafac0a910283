package repository

import (
	"crypto/sha1"
	"fmt"
	"testing"

	"photoshare/internal/database"
	"photoshare/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database per test so tests stay
// independent and parallelizable.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache memory DB keeps every pooled connection on the
	// same database; the name scopes it to this test.
	dsn := fmt.Sprintf("file:%x?mode=memory&cache=shared", sha1.Sum([]byte(t.Name())))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("testpass1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Username: username, Password: string(hash), Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPhoto(t *testing.T, db *gorm.DB, userID uint, title string) *models.Photo {
	t.Helper()
	photo := &models.Photo{
		FileURL: "/static/uploads/20240101120000_" + title + ".jpg",
		Title:   title,
		UserID:  userID,
	}
	require.NoError(t, db.Create(photo).Error)
	return photo
}
