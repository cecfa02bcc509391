package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/playdeck/internal/services"
	"github.com/desertthunder/playdeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// configPath returns the config file location, overridable with PLAYDECK_CONFIG.
func configPath() string {
	if p := os.Getenv("PLAYDECK_CONFIG"); p != "" {
		return p
	}
	return "config.toml"
}

func main() {
	logger := shared.NewLogger(nil)

	path := configPath()
	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if loadedConfig, err := shared.LoadConfig(path); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", path, "error", err)
		}
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Logging.Level))

	httpClient := services.NewHTTPClient(config.Auth.Token, config.API.Timeout())

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: path,
		API:        services.NewAPIService(config.API.BaseURL, httpClient),
		Catalog:    services.NewCatalogService(config.API.CatalogBase(), httpClient),
		HTTPClient: httpClient,
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "playdeck",
		Usage:    "Terminal music player for the catalog service",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
