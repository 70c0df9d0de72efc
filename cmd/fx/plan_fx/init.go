package plan_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yoplan/internal/repositories"
	"yoplan/internal/services"
)

var Module = fx.Provide(
	providePlanRepo, providePlanService,
	provideBookmarkRepo, provideBookmarkService)

func providePlanRepo(db *gorm.DB) repositories.IPlanRepository {
	return repositories.NewPlanRepository(db)
}

func providePlanService(planRepo repositories.IPlanRepository, log *zap.Logger) services.PlanServiceInterface {
	return services.NewPlanService(planRepo, log.Named("plan"))
}

func provideBookmarkRepo(db *gorm.DB) repositories.BookmarkRepositoryInterface {
	return repositories.NewBookmarkRepository(db)
}

func provideBookmarkService(bookmarkRepo repositories.BookmarkRepositoryInterface, planRepo repositories.IPlanRepository, log *zap.Logger) services.BookmarkServiceInterface {
	return services.NewBookmarkService(bookmarkRepo, planRepo, log.Named("bookmark"))
}
