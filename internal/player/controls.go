package player

import (
	"context"

	"github.com/desertthunder/playdeck/internal/shared"
)

// ChangeVolume sets and persists the volume, clamped to [0, 1], and clears mute.
func (c *Coordinator) ChangeVolume(fraction float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.volume = shared.Clamp01(fraction)
	c.muted = false
	c.applyVolumeLocked()

	if c.store != nil {
		if err := c.store.SaveVolume(c.ctx, c.volume); err != nil {
			c.logger.Warn("failed to persist volume", "error", err)
		}
	}
	c.notifyLocked()
}

// ToggleMute flips mute. The stored volume is untouched.
func (c *Coordinator) ToggleMute() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = !c.muted
	c.applyVolumeLocked()
	c.notifyLocked()
}

func (c *Coordinator) applyVolumeLocked() {
	if c.muted {
		c.media.SetVolume(0)
		return
	}
	c.media.SetVolume(c.volume)
}

// ToggleShuffle flips shuffle.
func (c *Coordinator) ToggleShuffle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shuffle = !c.shuffle
	c.notifyLocked()
}

// ToggleRepeat cycles none, all, one.
func (c *Coordinator) ToggleRepeat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repeat = c.repeat.Next()
	c.notifyLocked()
}

// ToggleLike flips the liked flag of the current track and its queue and catalog copies, then saves
// or unsaves it in the background. A failed call is logged and the local flag is kept.
func (c *Coordinator) ToggleLike() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return
	}
	id := c.current.ID
	liked := !c.current.IsLiked
	c.current.IsLiked = liked
	for i := range c.queue {
		if c.queue[i].ID == id {
			c.queue[i].IsLiked = liked
		}
	}
	for i := range c.tracks {
		if c.tracks[i].ID == id {
			c.tracks[i].IsLiked = liked
		}
	}

	c.events.publish(LikeChanged{TrackID: id, Liked: liked})
	c.notifyLocked()

	if c.library == nil {
		return
	}
	c.async("like", func(ctx context.Context) error {
		if liked {
			return c.library.SaveSong(ctx, id)
		}
		return c.library.UnsaveSong(ctx, id)
	})
}
