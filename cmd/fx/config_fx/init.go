package config_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"yoplan/internal/infra"
	"yoplan/pkg/logger"
	"yoplan/pkg/utils"
)

var Module = fx.Provide(
	infra.LoadConfig,
	provideLogger,
	provideJWTManager)

func provideLogger(cfg *infra.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}

func provideJWTManager(cfg *infra.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
}
