package repository

import (
	"context"
	"testing"

	"hayai/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateMintsSequentialIDs(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &models.User{Username: "ada", Email: "ada@example.com", Password: "x"}
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, uint(UserIDStart), first.ID)

	second := &models.User{Username: "grace", Email: "grace@example.com", Password: "x"}
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, first.ID+1, second.ID)
}

func TestUserRepository_CreateKeepsExplicitID(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{ID: 3, Username: "demo", Email: "demo@example.com", Password: "x"}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, uint(3), user.ID)
}

func TestUserRepository_CreateDuplicateUsername(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "ada", Email: "ada@example.com", Password: "x"}))

	err := repo.Create(ctx, &models.User{Username: "ada", Email: "other@example.com", Password: "x"})
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
}

func TestUserRepository_GetByUsernameCaseInsensitive(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, 1, "LunaArt")

	user, err := repo.GetByUsername(ctx, "lunaart")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "LunaArt", user.Username)

	missing, err := repo.GetByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.GetByID(context.Background(), 999)
	require.Error(t, err)
	assert.Nil(t, user)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestUserRepository_GetByIDIncludesFollowCounts(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewUserRepository(db)
	follows := NewFollowRepository(db)
	ctx := context.Background()

	target := seedUser(t, db, 1, "target")
	fanA := seedUser(t, db, 2, "fan_a")
	fanB := seedUser(t, db, 3, "fan_b")

	require.NoError(t, follows.Upsert(ctx, fanA.ID, target.ID))
	require.NoError(t, follows.Upsert(ctx, fanB.ID, target.ID))
	require.NoError(t, follows.Upsert(ctx, target.ID, fanA.ID))

	user, err := repo.GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, user.FollowersCount)
	assert.Equal(t, 1, user.FollowingCount)
}

func TestUserRepository_Search(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seedUser(t, db, 1, "pixelbaran")
	seedUser(t, db, 2, "selincreates")
	luna := seedUser(t, db, 3, "luna_art")
	luna.DisplayName = "Pixel Luna"
	require.NoError(t, db.Save(luna).Error)

	results, err := repo.Search(ctx, "pixel", 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	names := []string{results[0].Username, results[1].Username}
	assert.Contains(t, names, "pixelbaran")
	assert.Contains(t, names, "luna_art")
}
