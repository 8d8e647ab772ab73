package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/statement_import/internal/adapters/filestore"
	portsrepo "github.com/SscSPs/statement_import/internal/core/ports/repositories"
	"github.com/SscSPs/statement_import/internal/core/services"
	"github.com/SscSPs/statement_import/internal/handlers"
	"github.com/SscSPs/statement_import/internal/middleware"
	"github.com/SscSPs/statement_import/internal/platform/config"
	"github.com/SscSPs/statement_import/internal/repositories/database/pgsql"
	"github.com/SscSPs/statement_import/internal/utils"
	"github.com/SscSPs/statement_import/pkg/database"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := portsrepo.RepositoryProvider{}
	if cfg.DatabaseURL != "" {
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			logger.Error("Failed to run database migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck, logger)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool, logger)

		repos = pgsql.NewRepositoryProvider(dbPool)
	}
	if cfg.TemplateBackend == config.TemplateBackendFile {
		repos.TemplateRepo = filestore.NewTemplateStore(cfg.TemplateDir)
	}
	logger.Info("Template store selected", slog.String("backend", cfg.TemplateBackend))

	serviceContainer := services.NewServiceContainer(cfg, repos)

	posthogClient := utils.InitializePosthogClient(cfg.PostHogAPIKey, cfg.PostHogEndpoint, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, posthogClient); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
