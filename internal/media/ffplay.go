package media

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playdeck/internal/shared"
)

var _ Element = (*FFPlay)(nil)

const probeTimeout = 10 * time.Second

// FFPlay plays sources through an ffplay subprocess.
//
// ffplay has no control channel, so pausing stops the process and resuming starts a new one at the
// saved offset with -ss. Volume changes while playing restart the process the same way.
type FFPlay struct {
	mu          sync.Mutex
	ffplayPath  string
	ffprobePath string
	logger      *log.Logger
	tick        time.Duration
	src         string
	duration    time.Duration
	known       bool
	position    time.Duration
	startedAt   time.Time
	playing     bool
	volume      float64
	cmd         *exec.Cmd
	generation  int
	loads       int
	events      chan Event
	done        chan struct{}
	closed      bool
}

// NewFFPlay creates an [FFPlay] element using the given binaries.
func NewFFPlay(ffplayPath, ffprobePath string, logger *log.Logger) *FFPlay {
	if ffplayPath == "" {
		ffplayPath = "ffplay"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &FFPlay{
		ffplayPath:  ffplayPath,
		ffprobePath: ffprobePath,
		logger:      shared.WithLogger(logger, "module", "ffplay"),
		tick:        250 * time.Millisecond,
		volume:      1,
		events:      make(chan Event, eventBuffer),
		done:        make(chan struct{}),
	}
}

// ffplayArgs builds the ffplay command line for src starting at offset.
func ffplayArgs(src string, offset time.Duration, volume float64) []string {
	return []string{
		"-nodisp",
		"-autoexit",
		"-loglevel", "error",
		"-ss", strconv.FormatFloat(offset.Seconds(), 'f', 3, 64),
		"-volume", strconv.Itoa(int(shared.Clamp01(volume)*100 + 0.5)),
		src,
	}
}

// parseProbeDuration parses ffprobe's "format=duration" csv output (seconds, e.g. "183.451000").
func parseProbeDuration(out string) (time.Duration, error) {
	out = strings.TrimSpace(out)
	if out == "" || out == "N/A" {
		return 0, fmt.Errorf("duration unavailable")
	}
	secs, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", out, err)
	}
	if secs <= 0 {
		return 0, fmt.Errorf("invalid duration %q", out)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func (f *FFPlay) probe(src string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		src)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbeDuration(string(out))
}

// Load stops playback and probes the new source in the background. The duration stays unknown
// until the probe returns, and a failed probe leaves it unknown.
func (f *FFPlay) Load(src string) error {
	if src == "" {
		return shared.ErrNoSource
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopLocked()
	f.src = src
	f.position = 0
	f.duration, f.known = 0, false
	f.loads++

	go f.probeDuration(src, f.loads)
	return nil
}

// probeDuration records the duration of src unless another Load happened meanwhile.
func (f *FFPlay) probeDuration(src string, load int) {
	d, err := f.probe(src)
	if err != nil {
		f.logger.Debug("duration probe failed", "src", src, "error", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loads == load {
		f.duration, f.known = d, true
	}
}

func (f *FFPlay) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return shared.ErrPlaybackRejected
	}
	if f.src == "" {
		return shared.ErrNoSource
	}
	if f.playing {
		return nil
	}
	if f.known && f.position >= f.duration {
		f.position = 0
	}
	return f.startLocked()
}

func (f *FFPlay) startLocked() error {
	cmd := exec.Command(f.ffplayPath, ffplayArgs(f.src, f.position, f.volume)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrPlaybackRejected, err)
	}

	f.generation++
	gen := f.generation
	f.cmd = cmd
	f.playing = true
	f.startedAt = time.Now()

	go f.wait(cmd, gen)
	go f.progress(gen)
	return nil
}

// stopLocked records the current offset and kills the running process, if any.
func (f *FFPlay) stopLocked() {
	if !f.playing {
		return
	}
	f.position = f.currentLocked()
	f.playing = false
	f.generation++
	if f.cmd != nil && f.cmd.Process != nil {
		if err := f.cmd.Process.Kill(); err != nil {
			f.logger.Debug("failed to kill ffplay", "error", err)
		}
	}
	f.cmd = nil
}

// wait reports the end of a process it still owns: Ended after a clean exit, Failed otherwise.
func (f *FFPlay) wait(cmd *exec.Cmd, gen int) {
	err := cmd.Wait()

	f.mu.Lock()
	if gen != f.generation {
		f.mu.Unlock()
		return
	}
	f.position = f.currentLocked()
	f.playing = false
	f.cmd = nil
	f.generation++

	kind := Ended
	if err != nil {
		kind = Failed
		f.logger.Warn("ffplay exited with error", "src", f.src, "error", err)
	} else if f.known {
		f.position = f.duration
	}
	ev := Event{Kind: kind, Src: f.src, Position: f.position}
	f.mu.Unlock()

	select {
	case f.events <- ev:
	case <-f.done:
	}
}

func (f *FFPlay) progress(gen int) {
	ticker := time.NewTicker(f.tick)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
		}

		f.mu.Lock()
		if gen != f.generation || !f.playing {
			f.mu.Unlock()
			return
		}
		ev := Event{Kind: TimeUpdate, Src: f.src, Position: f.currentLocked()}
		f.mu.Unlock()

		select {
		case f.events <- ev:
		default:
		}
	}
}

func (f *FFPlay) currentLocked() time.Duration {
	if !f.playing {
		return f.position
	}
	pos := f.position + time.Since(f.startedAt)
	if f.known && pos > f.duration {
		pos = f.duration
	}
	return pos
}

func (f *FFPlay) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopLocked()
}

func (f *FFPlay) CurrentTime() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentLocked()
}

func (f *FFPlay) SetCurrentTime(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if d < 0 {
		d = 0
	}
	if f.known && d > f.duration {
		d = f.duration
	}

	wasPlaying := f.playing
	f.stopLocked()
	f.position = d
	if wasPlaying {
		if err := f.startLocked(); err != nil {
			f.logger.Warn("failed to restart after seek", "error", err)
		}
	}
}

func (f *FFPlay) Duration() (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration, f.known
}

func (f *FFPlay) SetVolume(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v = shared.Clamp01(v)
	if v == f.volume {
		return
	}
	f.volume = v
	if f.playing {
		f.stopLocked()
		if err := f.startLocked(); err != nil {
			f.logger.Warn("failed to restart after volume change", "error", err)
		}
	}
}

func (f *FFPlay) Events() <-chan Event {
	return f.events
}

func (f *FFPlay) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.stopLocked()
	f.closed = true
	close(f.done)
	return nil
}
