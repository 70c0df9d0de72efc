package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yoplan/internal/infra"
	"yoplan/internal/repositories"
	"yoplan/internal/services"
	"yoplan/pkg/utils"
)

var Module = fx.Provide(
	provideUserRepo,
	provideAccountService,
	provideKakaoService,
	provideUserService)

func provideUserRepo(db *gorm.DB) repositories.UserRepository {
	return repositories.NewUserRepository(db)
}

// provideAccountService exposes the account service both as itself and as
// the age lookup the diagnosis service needs.
func provideAccountService(userRepo repositories.UserRepository, tokens *utils.JWTManager, log *zap.Logger) (services.AccountServiceInterface, services.UserAgeLookup) {
	svc := services.NewAccountService(userRepo, tokens, log.Named("account"))
	return svc, svc
}

func provideKakaoService(cfg *infra.Config, userRepo repositories.UserRepository, accounts services.AccountServiceInterface, log *zap.Logger) services.KakaoServiceInterface {
	return services.NewKakaoService(services.KakaoConfig{
		ClientID:     cfg.KakaoClientID,
		ClientSecret: cfg.KakaoClientSecret,
		RedirectURL:  cfg.KakaoRedirectURI,
	}, userRepo, accounts, log.Named("kakao"))
}

func provideUserService(userRepo repositories.UserRepository, bookmarks services.BookmarkServiceInterface, log *zap.Logger) services.UserServiceInterface {
	return services.NewUserService(userRepo, bookmarks, log.Named("user"))
}
