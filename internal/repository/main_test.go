package repository

import (
	"fmt"
	"testing"

	"hayai/internal/database"
	"hayai/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. The DSN is keyed on
// the test name so parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id uint, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       id,
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     models.RoleChild,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, owner *models.User, imageID string, visibility models.Visibility, status models.PostStatus) *models.Post {
	t.Helper()
	post := &models.Post{
		ImageID:    imageID,
		UserID:     owner.ID,
		Kind:       models.KindTransformed,
		Status:     status,
		Visibility: visibility,
		Style:      "anime",
	}
	require.NoError(t, db.Create(post).Error)
	return post
}
