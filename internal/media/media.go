// Package media implements the single audio output driven by the playback coordinator.
//
// An [Element] mirrors the shape of a browser media element: a source, a play/pause switch, a
// seekable current time, a duration that is only known once metadata has loaded, a volume, and
// asynchronous timeupdate/ended/failed notifications delivered on [Element.Events].
//
// Two implementations are provided:
//   - [Virtual] : advances a clock while playing and produces no sound; used by tests and headless runs
//   - [FFPlay] : plays through an ffplay subprocess and probes duration with ffprobe
package media

import "time"

// EventKind enumerates the notifications an [Element] emits.
type EventKind int

const (
	TimeUpdate EventKind = iota
	Ended
	// Failed means the source stopped without finishing; playback is paused at Position.
	Failed
)

func (k EventKind) String() string {
	switch k {
	case TimeUpdate:
		return "timeupdate"
	case Ended:
		return "ended"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is a notification from an [Element].
type Event struct {
	Kind     EventKind
	Src      string
	Position time.Duration
}

// Element is the media playback primitive.
//
// Implementations must not deliver events synchronously from inside their own methods; callers
// are free to call back into the element while handling an event.
type Element interface {
	// Load replaces the source and rewinds to zero. Playback stops.
	Load(src string) error
	// Play starts or resumes playback. An error means playback did not start.
	Play() error
	Pause()
	CurrentTime() time.Duration
	SetCurrentTime(d time.Duration)
	// Duration reports the source length; ok is false until it is known.
	Duration() (d time.Duration, ok bool)
	// SetVolume sets the output level in [0, 1].
	SetVolume(v float64)
	Events() <-chan Event
	Close() error
}

const eventBuffer = 64
