package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/playdeck/internal/shared"
	"github.com/urfave/cli/v3"
)

// loadOrCreateConfig reads the config at path, writing the embedded template there first when the
// file does not exist. Any failure falls back to defaults.
func (r *Runner) loadOrCreateConfig(path string) *shared.Config {
	if _, err := os.Stat(path); err != nil {
		if err := shared.CreateConfigFile(path); err != nil {
			r.logger.Warn("could not write config template, using defaults", "path", path, "error", err)
			return shared.DefaultConfig()
		}
		r.logger.Info("wrote config template", "path", path)
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("could not load config, using defaults", "path", path, "error", err)
		return shared.DefaultConfig()
	}
	return config
}

// SetupDatabase creates the database named in the config at --config and applies pending migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config := r.loadOrCreateConfig(cmd.String("config"))
	path := config.Database.Path

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to prepare database %s: %w", path, err)
	}
	defer db.Close()

	version, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	r.logger.Info("database ready", "path", path, "version", version)
	return r.writePlain("✓ Database ready at %s (schema version %d)\n", path, version)
}

// SetupConfig writes the default configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	r.logger.Info("config file created", "path", configPath)
	return r.writePlain("✓ Config written to %s\n", configPath)
}
