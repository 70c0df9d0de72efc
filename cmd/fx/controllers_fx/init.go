package controllers_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yoplan/internal/api/controllers"
	"yoplan/internal/infra"
	"yoplan/internal/services"
)

var Module = fx.Options(
	fx.Provide(provideSessionCookieConfig),
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewUserController),
	fx.Provide(controllers.NewPlanController),
	fx.Provide(controllers.NewBookmarkController),
	fx.Provide(controllers.NewDiagnosisController),
	fx.Provide(controllers.NewFaqController),
	fx.Provide(provideChatController),
	fx.Provide(provideHealthController),
	fx.Invoke(controllers.RegisterValidators))

func provideSessionCookieConfig(cfg *infra.Config) controllers.SessionCookieConfig {
	return controllers.SessionCookieConfig{
		Secure:      cfg.IsProduction(),
		TTL:         cfg.JWTTTL,
		FrontendURL: cfg.FrontendURL,
	}
}

func provideChatController(chat services.ChatServiceInterface, cfg *infra.Config, log *zap.Logger) *controllers.ChatController {
	var origins []string
	if cfg.IsProduction() {
		origins = []string{cfg.FrontendURL}
	}
	return controllers.NewChatController(chat, origins, log.Named("chat_ws"))
}

func provideHealthController(db *gorm.DB) (*controllers.HealthController, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return controllers.NewHealthController(sqlDB), nil
}
