package player

import (
	"time"

	"github.com/desertthunder/playdeck/internal/models"
)

const (
	// MinListen is the shortest session that counts as a listen.
	MinListen = 5000 * time.Millisecond
	// MaxListen caps a single report.
	MaxListen = 3_600_000 * time.Millisecond
	// RepeatWindow is the elapsed time under which a repeat report for the same track is dropped.
	RepeatWindow = 8000 * time.Millisecond
)

// listen is a closed session that should be reported.
type listen struct {
	TrackID string
	Elapsed time.Duration
}

// accountant tracks the open listening window. At most one session exists at a time.
type accountant struct {
	session      *models.PlaySession
	lastReported string
}

func (a *accountant) open(trackID string, now time.Time) {
	a.session = &models.PlaySession{TrackID: trackID, StartedAt: now}
}

func (a *accountant) isOpen() bool {
	return a.session != nil
}

// close ends the open session and reports whether it produced a listen.
func (a *accountant) close(now time.Time) (listen, bool) {
	if a.session == nil {
		return listen{}, false
	}
	s := *a.session
	a.session = nil

	elapsed := now.Sub(s.StartedAt)
	if elapsed < MinListen {
		return listen{}, false
	}
	if elapsed > MaxListen {
		elapsed = MaxListen
	}
	if s.TrackID == a.lastReported && elapsed < RepeatWindow {
		return listen{}, false
	}

	a.lastReported = s.TrackID
	return listen{TrackID: s.TrackID, Elapsed: elapsed}, true
}
