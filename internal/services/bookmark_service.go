package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yoplan/internal/models/db_models"
	"yoplan/internal/models/response_models"
	"yoplan/internal/repositories"
	"yoplan/pkg/utils"
)

type BookmarkServiceInterface interface {
	AddBookmark(ctx context.Context, userID uuid.UUID, planID string) (*response_models.BookmarkResponse, error)
	RemoveBookmark(ctx context.Context, userID uuid.UUID, planID string) error
	ListBookmarks(ctx context.Context, userID uuid.UUID) ([]response_models.BookmarkResponse, error)
}

type BookmarkService struct {
	bookmarkRepo repositories.BookmarkRepositoryInterface
	planRepo     repositories.IPlanRepository
	log          *zap.Logger
}

func NewBookmarkService(bookmarkRepo repositories.BookmarkRepositoryInterface, planRepo repositories.IPlanRepository, log *zap.Logger) BookmarkServiceInterface {
	return &BookmarkService{
		bookmarkRepo: bookmarkRepo,
		planRepo:     planRepo,
		log:          log,
	}
}

func (b *BookmarkService) AddBookmark(ctx context.Context, userID uuid.UUID, planID string) (*response_models.BookmarkResponse, error) {
	plan, err := b.planRepo.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}

	bookmark := &db_models.Bookmark{UserID: userID, PlanID: plan.ID}
	if err := b.bookmarkRepo.CreateBookmark(ctx, bookmark); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.ErrAlreadyBookmarked
		}
		b.log.Error("create bookmark", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	bookmark.Plan = *plan

	resp := toBookmarkResponse(*bookmark)
	return &resp, nil
}

func (b *BookmarkService) RemoveBookmark(ctx context.Context, userID uuid.UUID, planID string) error {
	id, err := uuid.Parse(planID)
	if err != nil {
		return utils.ErrBookmarkNotFound
	}
	removed, err := b.bookmarkRepo.DeleteBookmark(ctx, userID, id)
	if err != nil {
		b.log.Error("delete bookmark", zap.String("user_id", userID.String()), zap.Error(err))
		return utils.ErrDatabaseError
	}
	if !removed {
		return utils.ErrBookmarkNotFound
	}
	return nil
}

func (b *BookmarkService) ListBookmarks(ctx context.Context, userID uuid.UUID) ([]response_models.BookmarkResponse, error) {
	bookmarks, err := b.bookmarkRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	out := make([]response_models.BookmarkResponse, 0, len(bookmarks))
	for _, bm := range bookmarks {
		out = append(out, toBookmarkResponse(bm))
	}
	return out, nil
}

func toBookmarkResponse(bm db_models.Bookmark) response_models.BookmarkResponse {
	return response_models.BookmarkResponse{
		PlanID:    bm.PlanID.String(),
		Plan:      repositories.ToPlanView(bm.Plan),
		CreatedAt: bm.CreatedAt,
	}
}
