package db

import (
	"fmt"
	"sms-relay-api/config"
	"sms-relay-api/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all pending migrations from the given source path
// (e.g. "file://db/migrations") against the configured database.
func RunMigrations(sourcePath string) error {
	cfg := config.AppConfig.Database

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)

	mig, err := migrate.New(sourcePath, connStr)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to create migrate instance")
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := mig.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Log.WithError(err).Error("Failed to run migrations")
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Log.Info("Database migrations applied")
	return nil
}
