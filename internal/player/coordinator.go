package player

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playdeck/internal/media"
	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/shared"
)

// Catalog provides the full track list.
type Catalog interface {
	GetAll(ctx context.Context) ([]models.Track, error)
}

// Library manages the user's saved songs.
type Library interface {
	GetSavedSongs(ctx context.Context) (map[string]struct{}, error)
	SaveSong(ctx context.Context, id string) error
	UnsaveSong(ctx context.Context, id string) error
}

// Reporter receives listens.
type Reporter interface {
	ReportPlay(ctx context.Context, trackID string, elapsed time.Duration) error
}

// VolumeStore persists the volume level between sessions. ok is false when nothing was stored.
type VolumeStore interface {
	LoadVolume(ctx context.Context) (v float64, ok bool, err error)
	SaveVolume(ctx context.Context, v float64) error
}

// Clock supplies wall-clock time for listen accounting.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options configures a [Coordinator]. Media is required; nil collaborators disable their feature.
type Options struct {
	Catalog       Catalog
	Library       Library
	Reporter      Reporter
	Volume        VolumeStore
	Media         media.Element
	Logger        *log.Logger
	Clock         Clock
	Rand          func(n int) int // returns a value in [0, n)
	Authenticated bool
	DefaultVolume float64
}

// Coordinator mediates all playback intent against a single [media.Element].
type Coordinator struct {
	mu sync.Mutex

	catalog  Catalog
	library  Library
	reporter Reporter
	store    VolumeStore
	media    media.Element
	logger   *log.Logger
	clock    Clock
	rand     func(n int) int
	authed   bool

	tracks   []models.Track
	queue    []models.Track
	current  *models.Track
	playing  bool
	announce bool
	progress models.Progress
	volume   float64
	muted    bool
	shuffle  bool
	repeat   models.RepeatMode
	acct     accountant

	events *hub
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// New creates a coordinator. Call [Coordinator.Init] to load the catalog and [Coordinator.Run] to
// start consuming media events.
func New(opts Options) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.IntN
	}
	volume := 1.0
	if opts.DefaultVolume > 0 {
		volume = shared.Clamp01(opts.DefaultVolume)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		catalog:  opts.Catalog,
		library:  opts.Library,
		reporter: opts.Reporter,
		store:    opts.Volume,
		media:    opts.Media,
		logger:   shared.WithLogger(logger, "module", "player"),
		clock:    clock,
		rand:     rnd,
		authed:   opts.Authenticated,
		volume:   volume,
		events:   newHub(),
		ctx:      ctx,
		cancel:   cancel,
	}
	c.media.SetVolume(volume)
	return c
}

// Init loads the catalog, marks saved songs and restores the persisted volume.
//
// A failed or empty catalog is replaced by [FallbackTracks]. Library and volume failures are logged
// and leave defaults in place.
func (c *Coordinator) Init(ctx context.Context) {
	tracks := c.fetchCatalog(ctx)

	if c.authed && c.library != nil {
		saved, err := c.library.GetSavedSongs(ctx)
		if err != nil {
			c.logger.Warn("failed to load saved songs", "error", err)
		} else {
			for i := range tracks {
				if _, ok := saved[tracks[i].ID]; ok {
					tracks[i].IsLiked = true
				}
			}
		}
	}

	var (
		volume float64
		stored bool
	)
	if c.store != nil {
		v, ok, err := c.store.LoadVolume(ctx)
		if err != nil {
			c.logger.Warn("failed to load volume", "error", err)
		}
		volume, stored = v, ok && err == nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.tracks = tracks
	c.queue = cloneTracks(tracks)
	if stored {
		c.volume = shared.Clamp01(volume)
		c.applyVolumeLocked()
	}
	c.logger.Info("catalog ready", "tracks", len(tracks), "volume", c.volume)
	c.notifyLocked()
}

func (c *Coordinator) fetchCatalog(ctx context.Context) []models.Track {
	if c.catalog == nil {
		return FallbackTracks()
	}

	tracks, err := c.catalog.GetAll(ctx)
	if err != nil {
		c.logger.Warn("failed to load catalog, using fallback", "error", err)
		return FallbackTracks()
	}
	if len(tracks) == 0 {
		c.logger.Warn("catalog is empty, using fallback")
		return FallbackTracks()
	}
	return tracks
}

// Run consumes media events until ctx ends, then closes any open listening window.
func (c *Coordinator) Run(ctx context.Context) {
	events := c.media.Events()
	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.flushLocked()
			c.mu.Unlock()
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.handle(ev)
		}
	}
}

func (c *Coordinator) handle(ev media.Event) {
	switch ev.Kind {
	case media.TimeUpdate:
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.current == nil || ev.Src != c.current.AudioURL {
			return
		}
		c.progress.Current = ev.Position
		c.refreshDurationLocked()
		c.notifyLocked()
	case media.Ended:
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.current == nil || ev.Src != c.current.AudioURL {
			return
		}
		c.logger.Debug("track ended", "src", ev.Src)
		c.nextLocked()
	case media.Failed:
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.current == nil || ev.Src != c.current.AudioURL {
			return
		}
		c.logger.Warn("playback failed", "id", c.current.ID, "src", ev.Src)
		c.pauseLocked()
		c.progress.Current = ev.Position
		c.notifyLocked()
	}
}

// Drain waits for background network calls to finish or ctx to end.
func (c *Coordinator) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close pauses playback, flushes the open listening window, waits for background calls until ctx
// ends and closes all subscriptions. The media element is left to its owner.
func (c *Coordinator) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.pauseLocked()
	c.closed = true
	c.mu.Unlock()

	err := c.Drain(ctx)
	c.cancel()
	c.events.close()
	return err
}

// Subscribe registers for coordinator events. The returned func unsubscribes and closes the channel.
func (c *Coordinator) Subscribe(buffer int) (<-chan Event, func()) {
	return c.events.subscribe(buffer)
}

// State returns a snapshot of the playback state.
func (c *Coordinator) State() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Queue returns a copy of the current queue.
func (c *Coordinator) Queue() []models.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneTracks(c.queue)
}

// Tracks returns a copy of the catalog loaded by Init.
func (c *Coordinator) Tracks() []models.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneTracks(c.tracks)
}

// Authenticated reports whether library actions are available.
func (c *Coordinator) Authenticated() bool {
	return c.authed
}

func (c *Coordinator) snapshotLocked() models.Snapshot {
	s := models.Snapshot{
		IsPlaying: c.playing,
		Progress:  c.progress,
		Volume:    c.volume,
		Muted:     c.muted,
		Shuffle:   c.shuffle,
		Repeat:    c.repeat,
		QueueLen:  len(c.queue),
		Index:     -1,
	}
	if c.current != nil {
		track := *c.current
		s.Current = &track
		s.Index = models.IndexOf(c.queue, track.ID)
	}
	return s
}

func (c *Coordinator) notifyLocked() {
	c.events.publish(StateChanged{State: c.snapshotLocked()})
}

// async runs fn in the background, tracked by Drain. Must be called with c.mu held.
func (c *Coordinator) async(op string, fn func(ctx context.Context) error) {
	if c.closed {
		c.logger.Debug("coordinator closed, skipping background call", "op", op)
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := fn(c.ctx); err != nil {
			c.logger.Warn("background call failed", "op", op, "error", err)
		}
	}()
}
