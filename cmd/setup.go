package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/aria/internal/repositories"
	"github.com/desertthunder/aria/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig creates a config.toml from the embedded template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Created %s\n", configPath)
	r.writePlain("Fill in credentials.tidal and credentials.gemini, then run 'aria auth login'.\n")

	return nil
}

// SetupDatabase initializes the run history database.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	if config.Storage.DataDir != "" {
		if err := os.MkdirAll(config.Storage.DataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	r.logger.Info("initializing database", "path", config.Storage.DatabasePath)

	db, err := shared.NewDatabase(config.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, 1, 1)

	if err := repositories.EnsureSchema(db); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Storage.DatabasePath)
	return nil
}
