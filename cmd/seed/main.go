// Command seed prepares a fresh installation: it creates the media
// directories, applies migrations and installs the theme catalog.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"story-wall/internal/storage"
	"story-wall/pkg/database"
	"story-wall/pkg/migration"
	sharedDB "story-wall/shared/database"
	sharedLogger "story-wall/shared/logger"
	"story-wall/shared/models"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

type seedConfig struct {
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	MediaRoot  string `envconfig:"MEDIA_ROOT" default:"./media"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"story_wall"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

func main() {
	_ = godotenv.Load()

	var cfg seedConfig
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Printf("error processing env vars: %v\n", err)
		os.Exit(1)
	}

	logger, err := sharedLogger.New(sharedLogger.Config{Level: cfg.LogLevel, Encoding: "console", Service: "story-wall-seed"})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}
	logger.Info("Seeding finished")
}

func run(cfg seedConfig, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	media := storage.NewMedia(cfg.MediaRoot, logger)
	if err := media.EnsureLayout(); err != nil {
		return fmt.Errorf("media layout: %w", err)
	}
	logger.Info("Media directories ready", zap.String("root", media.Root()))

	db, err := database.New(ctx, database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: sharedDB.MigrationsPath,
		MigrationsFS:   sharedDB.MigrationsFS,
	}, db.Pool, logger)
	if err := migrator.Up(ctx); err != nil {
		return err
	}

	themes := sharedDB.NewPgThemeRepository(db.Pool, logger)
	for i := range models.SeedThemes {
		theme := models.SeedThemes[i]
		if err := themes.Upsert(ctx, &theme); err != nil {
			return fmt.Errorf("upsert theme %q: %w", theme.Name, err)
		}
		logger.Info("Theme installed", zap.String("name", theme.Name), zap.String("id", theme.ID.String()))
	}
	return nil
}
