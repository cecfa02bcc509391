package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/playdeck/internal/repositories"
	"github.com/desertthunder/playdeck/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) settingsRepository() (*repositories.SettingsRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewSettingsRepository(db), nil
}

// SettingsVolumeGet prints the stored volume, or the configured default when none is stored.
func (r *Runner) SettingsVolumeGet(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.settingsRepository()
	if err != nil {
		return err
	}

	v, ok, err := repo.LoadVolume(ctx)
	if err != nil {
		return fmt.Errorf("failed to load volume: %w", err)
	}
	if !ok {
		v = r.config.Player.DefaultVolume
		if v <= 0 {
			v = 1
		}
		return r.writePlain("%.2f (default)\n", v)
	}
	return r.writePlain("%.2f\n", v)
}

// SettingsVolumeSet stores a volume in [0, 1].
func (r *Runner) SettingsVolumeSet(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("value")
	if raw == "" {
		return fmt.Errorf("%w: value", shared.ErrMissingArgument)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 1 {
		return fmt.Errorf("%w: volume must be a number between 0 and 1, got %q", shared.ErrInvalidArgument, raw)
	}

	repo, err := r.settingsRepository()
	if err != nil {
		return err
	}

	if err := repo.SaveVolume(ctx, v); err != nil {
		return fmt.Errorf("failed to save volume: %w", err)
	}

	r.logger.Info("volume saved", "volume", v)
	return r.writePlain("✓ Volume set to %.2f\n", v)
}
