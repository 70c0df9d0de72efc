package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yoplan/internal/models/db_models"
)

type UserRepository interface {
	Create(ctx context.Context, user *db_models.User) error
	Update(ctx context.Context, user *db_models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	FindByEmail(ctx context.Context, email string) (*db_models.User, error)
	FindByNickname(ctx context.Context, nickname string) (*db_models.User, error)
	FindByKakaoID(ctx context.Context, kakaoID string) (*db_models.User, error)
	// Delete removes the user together with their bookmarks.
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (u *userRepository) Create(ctx context.Context, user *db_models.User) error {
	return u.db.WithContext(ctx).Create(user).Error
}

func (u *userRepository) Update(ctx context.Context, user *db_models.User) error {
	return u.db.WithContext(ctx).Omit("Bookmarks").Save(user).Error
}

func (u *userRepository) findOne(ctx context.Context, query string, arg any) (*db_models.User, error) {
	var user db_models.User
	err := u.db.WithContext(ctx).First(&user, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (u *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	return u.findOne(ctx, "id = ?", id)
}

func (u *userRepository) FindByEmail(ctx context.Context, email string) (*db_models.User, error) {
	return u.findOne(ctx, "email = ?", email)
}

func (u *userRepository) FindByNickname(ctx context.Context, nickname string) (*db_models.User, error) {
	return u.findOne(ctx, "nickname = ?", nickname)
}

func (u *userRepository) FindByKakaoID(ctx context.Context, kakaoID string) (*db_models.User, error) {
	return u.findOne(ctx, "kakao_id = ?", kakaoID)
}

func (u *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&db_models.Bookmark{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&db_models.User{}, "id = ?", id).Error
	})
}
