package player

import (
	"context"
	"time"

	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/shared"
)

// rewindThreshold is how far into a track Previous restarts it instead of moving back.
const rewindThreshold = 3 * time.Second

// PlayWithID plays the track with the given id.
//
// When id is the loaded track, playback toggles in place and queue is ignored. Otherwise the track
// is looked up in queue (or the current queue when queue is nil); a miss leaves everything
// untouched. On a hit, a non-nil queue replaces the current one wholesale.
func (c *Coordinator) PlayWithID(id string, queue []models.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playWithIDLocked(id, queue)
	c.notifyLocked()
}

func (c *Coordinator) playWithIDLocked(id string, queue []models.Track) {
	if c.current != nil && c.current.ID == id {
		if c.playing {
			c.pauseLocked()
		} else {
			c.startLocked()
		}
		return
	}

	effective := c.queue
	if queue != nil {
		effective = queue
	}
	idx := models.IndexOf(effective, id)
	if idx < 0 {
		c.logger.Debug("track not in queue", "id", id, "queue", len(effective))
		return
	}

	track := effective[idx]
	c.pauseLocked()
	if queue != nil {
		c.queue = cloneTracks(queue)
	}
	if c.loadLocked(track) {
		c.startLocked()
	}
}

// PlayAlbum replaces the queue with the catalog tracks of albumID and plays startID, or the first
// album track when startID is empty or not on the album.
func (c *Coordinator) PlayAlbum(albumID, startID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	album := models.FilterAlbum(c.tracks, albumID)
	if len(album) == 0 {
		c.logger.Debug("album has no tracks", "album", albumID)
		return
	}
	if models.IndexOf(album, startID) < 0 {
		startID = album[0].ID
	}
	c.playWithIDLocked(startID, album)
	c.notifyLocked()
}

// Play resumes the loaded track.
func (c *Coordinator) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked()
	c.notifyLocked()
}

// Pause pauses playback and closes the listening window.
func (c *Coordinator) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked()
	c.notifyLocked()
}

// TogglePlay pauses when playing and resumes otherwise.
func (c *Coordinator) TogglePlay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		c.pauseLocked()
	} else {
		c.startLocked()
	}
	c.notifyLocked()
}

// Next advances according to the repeat and shuffle modes.
//
// Repeat-one restarts the current track. At the end of the queue without repeat, playback stops
// and the last track stays loaded.
func (c *Coordinator) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextLocked()
}

func (c *Coordinator) nextLocked() {
	defer c.notifyLocked()

	if len(c.queue) == 0 || c.current == nil {
		return
	}
	c.pauseLocked()

	if c.repeat == models.RepeatOne {
		c.restartLocked()
		return
	}

	n := len(c.queue)
	idx := models.IndexOf(c.queue, c.current.ID)
	var next int
	switch {
	case c.shuffle:
		next = c.shuffleIndexLocked(idx)
	case idx+1 < n:
		next = idx + 1
	case c.repeat == models.RepeatAll:
		next = 0
	default:
		c.logger.Debug("end of queue")
		return
	}

	if c.loadLocked(c.queue[next]) {
		c.startLocked()
	}
}

// shuffleIndexLocked draws uniformly among the positions other than idx. A single-track queue
// yields 0.
func (c *Coordinator) shuffleIndexLocked(idx int) int {
	n := len(c.queue)
	if n == 1 {
		return 0
	}
	if idx < 0 || idx >= n {
		return c.rand(n)
	}
	r := c.rand(n - 1)
	if r >= idx {
		r++
	}
	return r
}

// Previous restarts the current track when more than three seconds in, otherwise moves to the prior
// track, wrapping to the end of the queue.
func (c *Coordinator) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.notifyLocked()

	if len(c.queue) == 0 || c.current == nil {
		return
	}
	position := c.media.CurrentTime()
	c.pauseLocked()

	if position > rewindThreshold {
		c.restartLocked()
		return
	}

	prev := models.IndexOf(c.queue, c.current.ID) - 1
	if prev < 0 {
		prev = len(c.queue) - 1
	}
	if c.loadLocked(c.queue[prev]) {
		c.startLocked()
	}
}

// Seek moves to fraction of the track. Nothing happens until the duration is known.
func (c *Coordinator) Seek(fraction float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.media.Duration()
	if !ok || d <= 0 {
		c.logger.Debug("seek ignored, duration unknown")
		return
	}

	pos := time.Duration(shared.Clamp01(fraction) * float64(d))
	c.media.SetCurrentTime(pos)
	c.progress = models.Progress{Current: pos, Duration: d, DurationKnown: true}
	c.notifyLocked()
}

// loadLocked makes track current and loads its source. It reports whether the load succeeded.
func (c *Coordinator) loadLocked(track models.Track) bool {
	c.current = &track
	c.progress = models.Progress{}
	c.announce = true

	if err := c.media.Load(track.AudioURL); err != nil {
		c.logger.Warn("failed to load track", "id", track.ID, "error", err)
		c.playing = false
		return false
	}
	c.refreshDurationLocked()
	return true
}

// startLocked plays the loaded track and opens a listening window. A rejected play leaves the
// coordinator paused.
func (c *Coordinator) startLocked() {
	if c.current == nil || c.playing {
		return
	}
	if err := c.media.Play(); err != nil {
		c.logger.Debug("play rejected", "id", c.current.ID, "error", err)
		c.playing = false
		return
	}

	now := c.clock.Now()
	c.playing = true
	c.acct.open(c.current.ID, now)
	if c.announce {
		c.announce = false
		c.events.publish(TrackStarted{Track: *c.current, At: now})
	}
}

// pauseLocked stops the output and closes the listening window.
func (c *Coordinator) pauseLocked() {
	if c.playing {
		c.media.Pause()
		c.playing = false
	}
	c.flushLocked()
}

// restartLocked rewinds the current track and plays it in a fresh session.
func (c *Coordinator) restartLocked() {
	c.pauseLocked()
	c.media.SetCurrentTime(0)
	c.progress.Current = 0
	c.announce = true
	c.startLocked()
}

// flushLocked closes the open listening window and reports it when it counts.
func (c *Coordinator) flushLocked() {
	l, ok := c.acct.close(c.clock.Now())
	if !ok {
		return
	}

	c.events.publish(ListenReported{TrackID: l.TrackID, Elapsed: l.Elapsed})
	if c.reporter == nil {
		return
	}
	c.async("report", func(ctx context.Context) error {
		return c.reporter.ReportPlay(ctx, l.TrackID, l.Elapsed)
	})
}

func (c *Coordinator) refreshDurationLocked() {
	if d, ok := c.media.Duration(); ok && d > 0 {
		c.progress.Duration = d
		c.progress.DurationKnown = true
	}
}
