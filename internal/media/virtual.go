package media

import (
	"sync"
	"time"

	"github.com/desertthunder/playdeck/internal/shared"
)

var _ Element = (*Virtual)(nil)

// Virtual is a silent [Element] whose position advances with wall-clock time while playing.
type Virtual struct {
	mu       sync.Mutex
	length   time.Duration
	tick     time.Duration
	now      func() time.Time
	src      string
	position time.Duration
	lastTick time.Time
	playing  bool
	volume   float64
	stop     chan struct{}
	events   chan Event
	done     chan struct{}
	closed   bool
}

// NewVirtual creates a [Virtual] element where every source lasts length and progress is emitted every tick.
func NewVirtual(length, tick time.Duration) *Virtual {
	if tick <= 0 {
		tick = 250 * time.Millisecond
	}
	return &Virtual{
		length: length,
		tick:   tick,
		now:    time.Now,
		volume: 1,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
}

func (v *Virtual) Load(src string) error {
	if src == "" {
		return shared.ErrNoSource
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.haltLocked()
	v.src = src
	v.position = 0
	return nil
}

func (v *Virtual) Play() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return shared.ErrPlaybackRejected
	}
	if v.src == "" {
		return shared.ErrNoSource
	}
	if v.playing {
		return nil
	}
	if v.position >= v.length {
		v.position = 0
	}

	v.playing = true
	v.lastTick = v.now()
	v.stop = make(chan struct{})
	go v.run(v.stop)
	return nil
}

func (v *Virtual) Pause() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.haltLocked()
}

// haltLocked folds elapsed time into position and stops the tick goroutine.
func (v *Virtual) haltLocked() {
	if !v.playing {
		return
	}
	v.advanceLocked()
	v.playing = false
	close(v.stop)
	v.stop = nil
}

func (v *Virtual) advanceLocked() {
	now := v.now()
	v.position += now.Sub(v.lastTick)
	v.lastTick = now
	if v.position > v.length {
		v.position = v.length
	}
}

func (v *Virtual) run(stop chan struct{}) {
	ticker := time.NewTicker(v.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-v.done:
			return
		case <-ticker.C:
		}

		v.mu.Lock()
		if v.stop != stop {
			v.mu.Unlock()
			return
		}
		v.advanceLocked()
		ev := Event{Kind: TimeUpdate, Src: v.src, Position: v.position}
		if v.position >= v.length {
			v.playing = false
			close(v.stop)
			v.stop = nil
			ev.Kind = Ended
		}
		v.mu.Unlock()

		v.emit(ev)
		if ev.Kind == Ended {
			return
		}
	}
}

// emit drops progress updates nobody is reading; ended notifications wait for a reader.
func (v *Virtual) emit(ev Event) {
	if ev.Kind == TimeUpdate {
		select {
		case v.events <- ev:
		default:
		}
		return
	}
	select {
	case v.events <- ev:
	case <-v.done:
	}
}

func (v *Virtual) CurrentTime() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.playing {
		v.advanceLocked()
	}
	return v.position
}

func (v *Virtual) SetCurrentTime(d time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if d < 0 {
		d = 0
	}
	if d > v.length {
		d = v.length
	}
	v.position = d
	v.lastTick = v.now()
}

func (v *Virtual) Duration() (time.Duration, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.src == "" {
		return 0, false
	}
	return v.length, true
}

func (v *Virtual) SetVolume(level float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.volume = shared.Clamp01(level)
}

// Volume returns the last level applied with SetVolume.
func (v *Virtual) Volume() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.volume
}

// Playing reports whether the clock is running.
func (v *Virtual) Playing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.playing
}

func (v *Virtual) Events() <-chan Event {
	return v.events
}

func (v *Virtual) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.haltLocked()
	v.closed = true
	close(v.done)
	return nil
}
