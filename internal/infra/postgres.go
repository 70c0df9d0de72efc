package infra

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func gormConfig(log *zap.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: gormLogger.New(
			zap.NewStdLog(log.Named("gorm")),
			gormLogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormLogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}
}

func InitPostgresql(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresURL), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func ClosePostgresql(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("get database handle", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("close database", zap.Error(err))
		return
	}
	log.Info("PostgreSQL database connection closed")
}
