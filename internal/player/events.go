package player

import (
	"sync"
	"time"

	"github.com/desertthunder/playdeck/internal/models"
)

// Event is a notification published by the [Coordinator].
type Event interface {
	isEvent()
}

// TrackStarted is published when a freshly loaded or restarted track begins playing.
type TrackStarted struct {
	Track models.Track
	At    time.Time
}

// StateChanged carries the playback state after any change, including progress updates.
type StateChanged struct {
	State models.Snapshot
}

// LikeChanged is published when the current track is liked or unliked.
type LikeChanged struct {
	TrackID string
	Liked   bool
}

// ListenReported is published when a listen is handed to the reporter.
type ListenReported struct {
	TrackID string
	Elapsed time.Duration
}

func (TrackStarted) isEvent()   {}
func (StateChanged) isEvent()   {}
func (LikeChanged) isEvent()    {}
func (ListenReported) isEvent() {}

// hub fans events out to subscribers without blocking.
type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[int]chan Event)}
}

func (h *hub) subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
}

func (h *hub) publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
