package repositories

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playdeck/internal/player"
	"github.com/desertthunder/playdeck/internal/shared"
)

// HistoryRecorder writes coordinator events to a [HistoryRepository].
//
// Each [player.TrackStarted] opens an entry; [player.ListenReported] adds to the latest entry of that track.
type HistoryRecorder struct {
	repo   *HistoryRepository
	logger *log.Logger
	latest map[string]string
}

// NewHistoryRecorder creates a recorder writing to repo.
func NewHistoryRecorder(repo *HistoryRepository, logger *log.Logger) *HistoryRecorder {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &HistoryRecorder{
		repo:   repo,
		logger: shared.WithLogger(logger, "module", "history"),
		latest: make(map[string]string),
	}
}

// Run consumes events until the channel closes or ctx ends. Write failures are logged.
func (h *HistoryRecorder) Run(ctx context.Context, events <-chan player.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			h.Handle(ctx, ev)
		}
	}
}

// Handle records a single event.
func (h *HistoryRecorder) Handle(ctx context.Context, ev player.Event) {
	switch ev := ev.(type) {
	case player.TrackStarted:
		id, err := h.repo.Record(ctx, ev.Track, ev.At)
		if err != nil {
			h.logger.Warn("failed to record track start", "track", ev.Track.ID, "error", err)
			return
		}
		h.latest[ev.Track.ID] = id
	case player.ListenReported:
		id, ok := h.latest[ev.TrackID]
		if !ok {
			h.logger.Debug("listen without recorded start", "track", ev.TrackID)
			return
		}
		if err := h.repo.AddListened(ctx, id, ev.Elapsed); err != nil {
			h.logger.Warn("failed to record listen", "track", ev.TrackID, "error", err)
		}
	}
}
