// Command yoplanctl seeds, clears and inspects the yoplan database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yoplan/internal/infra"
	"yoplan/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "yoplanctl",
	Short:         "Administer the yoplan database",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is what every subcommand needs: configuration, a logger and a
// migrated database connection.
type env struct {
	cfg *infra.Config
	log *zap.Logger
	db  *gorm.DB
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := infra.LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, err
	}
	db, err := infra.InitPostgresql(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := infra.Migrate(db.WithContext(ctx)); err != nil {
		infra.ClosePostgresql(db, log)
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) Close() {
	infra.ClosePostgresql(e.db, e.log)
	_ = e.log.Sync()
}
