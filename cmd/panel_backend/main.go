package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/keypanel/key_panel_app/internal/adapters/realtime"
	"github.com/keypanel/key_panel_app/internal/core/domain"
	"github.com/keypanel/key_panel_app/internal/core/services"
	"github.com/keypanel/key_panel_app/internal/handlers"
	"github.com/keypanel/key_panel_app/internal/middleware"
	"github.com/keypanel/key_panel_app/internal/platform/config"
	"github.com/keypanel/key_panel_app/internal/repositories/database/pgsql"
	"github.com/keypanel/key_panel_app/pkg/database"
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

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire repositories, the live balance hub, and services.
	repos := pgsql.NewRepositoryContainer(dbPool)
	hub := realtime.NewHub()

	serviceContainer := services.NewServiceContainer(services.ContainerDeps{
		AccountRepo: repos.Account,
		KeyRepo:     repos.Key,
		Cache:       hub,
		Prices:      domain.DefaultPriceTable,
		JWTSecret:   cfg.JWTSecret,
		JWTIssuer:   cfg.JWTIssuer,
		JWTExpiry:   cfg.JWTExpiryDuration,
		Logger:      logger,
	})

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.StructuredLoggingMiddleware(logger))
	r.Use(cors.Default())

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Starting server", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection compatible with the main pgx pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err == migrate.ErrNoChange {
		logger.Info("No new database migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
