package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/playdeck/internal/formatter"
	"github.com/desertthunder/playdeck/internal/repositories"
	"github.com/urfave/cli/v3"
)

func (r *Runner) historyRepository() (*repositories.HistoryRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewHistoryRepository(db), nil
}

// HistoryList prints recently played tracks.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	repo, err := r.historyRepository()
	if err != nil {
		return err
	}

	entries, err := repo.Recent(ctx, int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	out, err := formatter.History(format, entries)
	if err != nil {
		return fmt.Errorf("failed to format history: %w", err)
	}
	return r.writeBytes(out)
}

// HistoryArtists prints recently played artists with play counts.
func (r *Runner) HistoryArtists(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	repo, err := r.historyRepository()
	if err != nil {
		return err
	}

	artists, err := repo.Artists(ctx, int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("failed to load artists: %w", err)
	}

	out, err := formatter.Artists(format, artists)
	if err != nil {
		return fmt.Errorf("failed to format artists: %w", err)
	}
	return r.writeBytes(out)
}

// HistoryClear deletes every history entry.
func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.historyRepository()
	if err != nil {
		return err
	}

	if err := repo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	r.logger.Info("history cleared")
	return r.writePlain("✓ History cleared\n")
}
