package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yoplan/internal/models/request_models"
	"yoplan/internal/models/response_models"
	"yoplan/internal/repositories"
	"yoplan/pkg/utils"
)

type UserServiceInterface interface {
	GetByNickname(ctx context.Context, nickname string) (*response_models.PublicUserResponse, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, request request_models.UpdateUserRequest) (*response_models.UserResponse, error)
	// BookmarksOf lists the bookmarks of nickname, which must be the requester.
	BookmarksOf(ctx context.Context, requester uuid.UUID, nickname string) ([]response_models.BookmarkResponse, error)
}

type UserService struct {
	userRepo  repositories.UserRepository
	bookmarks BookmarkServiceInterface
	log       *zap.Logger
}

func NewUserService(userRepo repositories.UserRepository, bookmarks BookmarkServiceInterface, log *zap.Logger) UserServiceInterface {
	return &UserService{
		userRepo:  userRepo,
		bookmarks: bookmarks,
		log:       log,
	}
}

func (u *UserService) GetByNickname(ctx context.Context, nickname string) (*response_models.PublicUserResponse, error) {
	user, err := u.userRepo.FindByNickname(ctx, nickname)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	return &response_models.PublicUserResponse{
		Nickname:  user.Nickname,
		Email:     user.Email,
		CreatedAt: utils.FromUnixSecondsKST(user.CreatedAt),
	}, nil
}

func (u *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, request request_models.UpdateUserRequest) (*response_models.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}

	if request.Nickname != nil {
		nickname := strings.TrimSpace(*request.Nickname)
		if nickname != user.Nickname {
			taken, err := u.userRepo.FindByNickname(ctx, nickname)
			if err != nil {
				return nil, utils.ErrDatabaseError
			}
			if taken != nil {
				return nil, utils.ErrNicknameTaken
			}
			user.Nickname = nickname
		}
	}
	if request.Password != nil {
		hashed, err := utils.HashPassword(*request.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrNicknameTaken
		}
		u.log.Error("update user", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (u *UserService) BookmarksOf(ctx context.Context, requester uuid.UUID, nickname string) ([]response_models.BookmarkResponse, error) {
	user, err := u.userRepo.FindByNickname(ctx, nickname)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	if user.ID != requester {
		return nil, utils.ErrForbidden
	}
	return u.bookmarks.ListBookmarks(ctx, user.ID)
}
