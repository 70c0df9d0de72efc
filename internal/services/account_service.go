package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yoplan/internal/models/db_models"
	"yoplan/internal/models/request_models"
	"yoplan/internal/models/response_models"
	"yoplan/internal/repositories"
	"yoplan/pkg/utils"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error)
	Register(ctx context.Context, request request_models.RegisterRequest) (*response_models.UserResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*response_models.UserResponse, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
	// UserAge is nil when the user is unknown or has no birth year.
	UserAge(ctx context.Context, userID uuid.UUID) (*int, error)
	// IssueToken signs a session token for an already authenticated user.
	IssueToken(user *db_models.User) (*response_models.LoginResponse, error)
}

type AccountService struct {
	userRepo repositories.UserRepository
	tokens   *utils.JWTManager
	log      *zap.Logger
	now      func() time.Time
}

func NewAccountService(userRepo repositories.UserRepository, tokens *utils.JWTManager, log *zap.Logger) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
		now:      time.Now,
	}
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error) {
	user, err := a.userRepo.FindByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		a.log.Error("find user by email", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	// kakao-only accounts have no password
	if user == nil || user.PasswordHash == "" {
		return nil, utils.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}
	return a.IssueToken(user)
}

func (a *AccountService) IssueToken(user *db_models.User) (*response_models.LoginResponse, error) {
	token, err := a.tokens.CreateToken(user.ID, user.Role)
	if err != nil {
		a.log.Error("sign token", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}
	return &response_models.LoginResponse{
		Nickname: user.Nickname,
		Email:    user.Email,
		Token:    token,
	}, nil
}

func (a *AccountService) Register(ctx context.Context, request request_models.RegisterRequest) (*response_models.UserResponse, error) {
	email := normalizeEmail(request.Email)
	nickname := strings.TrimSpace(request.Nickname)

	if err := a.ensureAvailable(ctx, email, nickname); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	user := &db_models.User{
		Nickname:     nickname,
		Email:        email,
		PasswordHash: hashedPassword,
		BirthYear:    request.BirthYear,
		Role:         db_models.RoleUser,
	}
	if err := a.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent registration
			if err := a.ensureAvailable(ctx, email, nickname); err != nil {
				return nil, err
			}
			return nil, utils.ErrEmailTaken
		}
		a.log.Error("create user", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	a.log.Info("user registered", zap.String("user_id", user.ID.String()))
	resp := toUserResponse(user)
	return &resp, nil
}

func (a *AccountService) ensureAvailable(ctx context.Context, email, nickname string) error {
	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existing != nil {
		return utils.ErrEmailTaken
	}
	existing, err = a.userRepo.FindByNickname(ctx, nickname)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existing != nil {
		return utils.ErrNicknameTaken
	}
	return nil
}

func (a *AccountService) Profile(ctx context.Context, userID uuid.UUID) (*response_models.UserResponse, error) {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (a *AccountService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if user == nil {
		return utils.ErrUserNotFound
	}
	if err := a.userRepo.Delete(ctx, userID); err != nil {
		a.log.Error("delete user", zap.String("user_id", userID.String()), zap.Error(err))
		return utils.ErrDatabaseError
	}
	a.log.Info("user deleted", zap.String("user_id", userID.String()))
	return nil
}

func (a *AccountService) UserAge(ctx context.Context, userID uuid.UUID) (*int, error) {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil || user.BirthYear == nil {
		return nil, nil
	}
	age := utils.AgeFromBirthYear(a.now(), *user.BirthYear)
	return &age, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(user *db_models.User) response_models.UserResponse {
	return response_models.UserResponse{
		ID:        user.ID.String(),
		Nickname:  user.Nickname,
		Email:     user.Email,
		BirthYear: user.BirthYear,
		Role:      user.Role,
		CreatedAt: utils.FromUnixSecondsKST(user.CreatedAt),
	}
}
