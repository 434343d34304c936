package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Kariqs/goneer-api/app"
	"github.com/Kariqs/goneer-api/config"
	"github.com/Kariqs/goneer-api/initializers"
	"github.com/Kariqs/goneer-api/logger"
	"github.com/Kariqs/goneer-api/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// boot loads .env and the configuration and builds the logger.
func boot() (*config.Config, *zap.Logger, error) {
	if err := initializers.LoadEnv(); err != nil {
		return nil, nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}), nil
}

// goneer-api serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Serve(ctx)
	},
}

var seedAfterMigrate bool

// goneer-api migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the SQL schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := initializers.ConnectToDB(cfg.Database, log)
		if err != nil {
			return err
		}
		if db == nil {
			return fmt.Errorf("DB_DRIVER=%s has no schema to migrate", cfg.Database.Driver)
		}
		if err := initializers.SyncDatabase(db, log); err != nil {
			return err
		}
		if !seedAfterMigrate {
			return nil
		}
		return repository.Seed(context.Background(), repository.NewGorm(db))
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&seedAfterMigrate, "seed", false, "insert the demo marketplace into empty tables")
}
