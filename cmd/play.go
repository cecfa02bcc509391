package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/playdeck/internal/media"
	"github.com/desertthunder/playdeck/internal/player"
	"github.com/desertthunder/playdeck/internal/repositories"
	"github.com/desertthunder/playdeck/internal/services"
	"github.com/desertthunder/playdeck/internal/shared"
	"github.com/desertthunder/playdeck/internal/ui"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 5 * time.Second

// newElement builds the media backend named by backend.
func newElement(cfg shared.PlayerConfig, backend string, logger *log.Logger) (media.Element, error) {
	if backend == "" {
		backend = cfg.Backend
	}

	switch backend {
	case "", "virtual":
		length := time.Duration(cfg.VirtualLengthSeconds) * time.Second
		if length <= 0 {
			length = 3 * time.Minute
		}
		return media.NewVirtual(length, 250*time.Millisecond), nil
	case "ffplay":
		return media.NewFFPlay(cfg.FFPlayPath, cfg.FFProbePath, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown player backend %q", shared.ErrInvalidConfig, backend)
	}
}

// newCoordinator wires the player to the configured services and the settings store.
func (r *Runner) newCoordinator(el media.Element, settings *repositories.SettingsRepository) *player.Coordinator {
	cfg := r.config
	client := services.NewHTTPClient(cfg.Auth.Token, cfg.API.Timeout())
	authenticated := cfg.Auth.Authenticated()

	return player.New(player.Options{
		Catalog:       r.catalog,
		Library:       services.NewLibraryService(cfg.API.LibraryBase(), client, authenticated),
		Reporter:      services.NewReportService(cfg.API.StatsBase(), client, cfg.Reporting.RatePerSecond, cfg.Reporting.Burst),
		Volume:        settings,
		Media:         el,
		Logger:        r.logger,
		Authenticated: authenticated,
		DefaultVolume: cfg.Player.DefaultVolume,
	})
}

// Play launches the interactive player.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Logging.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Logging.Level))
	r.SetLogger(fileLogger)

	db, err := r.database()
	if err != nil {
		return err
	}

	el, err := newElement(r.config.Player, cmd.String("backend"), r.logger)
	if err != nil {
		return err
	}
	defer el.Close()

	coordinator := r.newCoordinator(el, repositories.NewSettingsRepository(db))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	recorder := repositories.NewHistoryRecorder(repositories.NewHistoryRepository(db), r.logger)
	events, unsubscribe := coordinator.Subscribe(64)
	defer unsubscribe()
	recorded := make(chan struct{})
	go func() {
		defer close(recorded)
		recorder.Run(ctx, events)
	}()
	go coordinator.Run(ctx)

	model := ui.NewModel(ctx, coordinator)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, runErr := p.Run()

	closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer closeCancel()
	if err := coordinator.Close(closeCtx); err != nil {
		r.logger.Warn("player did not shut down cleanly", "error", err)
	}
	select {
	case <-recorded:
	case <-closeCtx.Done():
		r.logger.Warn("history recorder did not finish", "error", closeCtx.Err())
	}

	if runErr != nil {
		return fmt.Errorf("error running TUI: %w", runErr)
	}
	return nil
}
