package main

import (
	"context"
	"os"

	"github.com/desertthunder/aria/internal/services"
	"github.com/desertthunder/aria/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}

	var catalog *services.TidalService
	if config.Credentials.Tidal.ClientID != "" && config.Credentials.Tidal.ClientSecret != "" {
		if svc, err := services.NewTidalService(
			config.Credentials.Tidal.ClientID,
			config.Credentials.Tidal.ClientSecret,
			config.Credentials.Tidal.RedirectURI,
		); err == nil {
			catalog = svc
		} else {
			logger.Warn("tidal service unavailable", "error", err)
		}
	}

	var analyst services.Analyst
	var scout services.Scout
	if config.Credentials.Gemini.APIKey != "" {
		if svc, err := services.NewGeminiService(config.Credentials.Gemini.APIKey, config.Credentials.Gemini.Model); err == nil {
			analyst = svc
			scout = svc
		} else {
			logger.Warn("analyst service unavailable", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Analyst: analyst,
		Scout:   scout,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "aria",
		Usage:    "Curate new music releases into your Tidal library",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
