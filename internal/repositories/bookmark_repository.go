package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yoplan/internal/models/db_models"
)

type BookmarkRepositoryInterface interface {
	// CreateBookmark returns gorm.ErrDuplicatedKey when the pair already exists.
	CreateBookmark(ctx context.Context, bookmark *db_models.Bookmark) error
	DeleteBookmark(ctx context.Context, userID, planID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Bookmark, error)
	DeleteAll(ctx context.Context) error
}

type BookmarkRepository struct {
	db *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) BookmarkRepositoryInterface {
	return &BookmarkRepository{db: db}
}

func (r *BookmarkRepository) CreateBookmark(ctx context.Context, bookmark *db_models.Bookmark) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(bookmark).Error
}

func (r *BookmarkRepository) DeleteBookmark(ctx context.Context, userID, planID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND plan_id = ?", userID, planID).
		Delete(&db_models.Bookmark{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BookmarkRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Bookmark, error) {
	var bookmarks []db_models.Bookmark
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error
	return bookmarks, err
}

func (r *BookmarkRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&db_models.Bookmark{}).Error
}
