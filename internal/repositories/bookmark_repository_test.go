package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"yoplan/internal/models/db_models"
)

func seedUser(t *testing.T, db *gorm.DB, nickname string) *db_models.User {
	t.Helper()
	u := &db_models.User{Nickname: nickname, Email: nickname + "@example.com", Role: db_models.RoleUser}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func TestBookmarkRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookmarkRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "mina")
	plan := seedPlan(t, db, planSeed{name: "5G", price: 50000})

	require.NoError(t, repo.CreateBookmark(ctx, &db_models.Bookmark{UserID: user.ID, PlanID: plan.ID}))

	err := repo.CreateBookmark(ctx, &db_models.Bookmark{UserID: user.ID, PlanID: plan.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	list, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "5G", list[0].Plan.Name)

	removed, err := repo.DeleteBookmark(ctx, user.ID, plan.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteBookmark(ctx, user.ID, plan.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, repo.CreateBookmark(ctx, &db_models.Bookmark{UserID: user.ID, PlanID: plan.ID}), "a removed pair can be bookmarked again")
}

func TestUserRepository_Lookups(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	kakao := "12345"
	u := &db_models.User{Nickname: "jun", Email: "jun@example.com", KakaoID: &kakao, Role: db_models.RoleUser}
	require.NoError(t, repo.Create(ctx, u))

	byEmail, err := repo.FindByEmail(ctx, "jun@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)

	byKakao, err := repo.FindByKakaoID(ctx, "12345")
	require.NoError(t, err)
	require.NotNil(t, byKakao)

	missing, err := repo.FindByNickname(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	dup := &db_models.User{Nickname: "jun", Email: "other@example.com", Role: db_models.RoleUser}
	assert.ErrorIs(t, repo.Create(ctx, dup), gorm.ErrDuplicatedKey)
}

func TestUserRepository_DeleteRemovesBookmarks(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	bookmarks := NewBookmarkRepository(db)
	user := seedUser(t, db, "sora")
	plan := seedPlan(t, db, planSeed{name: "LTE", price: 30000})
	require.NoError(t, bookmarks.CreateBookmark(ctx, &db_models.Bookmark{UserID: user.ID, PlanID: plan.ID}))

	require.NoError(t, users.Delete(ctx, user.ID))

	gone, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	list, err := bookmarks.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	// the nickname is free again after a hard delete
	seedUser(t, db, "sora")
}
