// main.go
package main

import (
	"context"
	"log"

	"user-management/cmd"
	"user-management/internal/data/repository"
	"user-management/internal/wire"
	"user-management/pkg/database"
	"user-management/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.Stringer("config", config),
	)

	ctx := context.Background()

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, config.Database, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	tokens, err := utils.NewTokenManager(config.JWT)
	if err != nil {
		logger.Fatal("Failed to init token signer", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Wire all dependencies
	app := wire.Wiring(wire.Deps{
		Repo:     repos,
		Config:   config,
		Tokens:   tokens,
		Registry: registry,
		DB:       db,
		Logger:   logger,
	})

	// roles always; the bootstrap admin only when SEED_ENABLED
	if err := app.Service.User.SeedDefaults(ctx, config.Seed); err != nil {
		logger.Fatal("Failed to seed defaults", zap.Error(err))
	}

	if err := cmd.APIServer(app.Router, config.App.Port, config.App.ShutdownTimeout, logger); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
	}
}
