package testing

import (
	"sync"
	"time"

	"github.com/desertthunder/playdeck/internal/media"
)

// FakeMedia is a scriptable [media.Element]. Position only moves through SetCurrentTime or SetPosition.
type FakeMedia struct {
	mu       sync.Mutex
	src      string
	loads    int
	plays    int
	playing  bool
	position time.Duration
	length   time.Duration
	known    bool
	volume   float64
	playErr  error
	loadErr  error
	events   chan media.Event
}

// NewFakeMedia creates a fake element whose sources last length once loaded.
func NewFakeMedia(length time.Duration) *FakeMedia {
	return &FakeMedia{length: length, known: true, volume: 1, events: make(chan media.Event, 16)}
}

func (f *FakeMedia) Load(src string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loads++
	f.src = src
	f.position = 0
	f.playing = false
	return nil
}

func (f *FakeMedia) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.playErr != nil {
		return f.playErr
	}
	f.plays++
	f.playing = true
	return nil
}

func (f *FakeMedia) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = false
}

func (f *FakeMedia) CurrentTime() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

func (f *FakeMedia) SetCurrentTime(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = d
}

func (f *FakeMedia) Duration() (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.src == "" || !f.known {
		return 0, false
	}
	return f.length, true
}

func (f *FakeMedia) SetVolume(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = v
}

func (f *FakeMedia) Events() <-chan media.Event { return f.events }

func (f *FakeMedia) Close() error { return nil }

// Emit delivers ev to whoever is reading Events.
func (f *FakeMedia) Emit(ev media.Event) { f.events <- ev }

// SetPosition moves the playhead without going through the coordinator.
func (f *FakeMedia) SetPosition(d time.Duration) { f.SetCurrentTime(d) }

// SetDurationKnown toggles whether metadata has "loaded".
func (f *FakeMedia) SetDurationKnown(known bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.known = known
}

// RejectPlay makes every following Play call fail with err (nil to allow).
func (f *FakeMedia) RejectPlay(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playErr = err
}

// FailLoad makes every following Load call fail with err (nil to allow).
func (f *FakeMedia) FailLoad(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadErr = err
}

func (f *FakeMedia) Src() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.src
}

func (f *FakeMedia) Loads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func (f *FakeMedia) Plays() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays
}

func (f *FakeMedia) Playing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

func (f *FakeMedia) Volume() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}
