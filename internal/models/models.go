package models

import (
	"fmt"
	"time"
)

// Track is a playable song as returned by the catalog service.
type Track struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Artist   string        `json:"artist"`
	ArtistID string        `json:"artistId"`
	AlbumID  string        `json:"albumId,omitempty"`
	AudioURL string        `json:"audioUrl"`
	Image    string        `json:"image"`
	Duration time.Duration `json:"-"`
	IsLiked  bool          `json:"isLiked"`
}

// Validate checks the fields the coordinator relies on.
func (t Track) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("track id is required")
	}
	if t.AudioURL == "" {
		return fmt.Errorf("track %s has no audio url", t.ID)
	}
	return nil
}

// IndexOf returns the index of the first track in queue with the given id, or -1.
func IndexOf(queue []Track, id string) int {
	for i := range queue {
		if queue[i].ID == id {
			return i
		}
	}
	return -1
}

// FilterAlbum returns the tracks of queue belonging to albumID, preserving order.
func FilterAlbum(queue []Track, albumID string) []Track {
	var album []Track
	for _, t := range queue {
		if albumID != "" && t.AlbumID == albumID {
			album = append(album, t)
		}
	}
	return album
}

// RepeatMode defines the behavior at the end of the queue.
type RepeatMode int

const (
	RepeatNone RepeatMode = iota
	RepeatAll
	RepeatOne
)

// Next returns the following mode in the none → all → one → none cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatNone:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatNone
	}
}

func (m RepeatMode) String() string {
	switch m {
	case RepeatNone:
		return "none"
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "unknown"
	}
}

// Progress is the current-time/duration pair of the loaded track.
type Progress struct {
	Current       time.Duration
	Duration      time.Duration
	DurationKnown bool
}

// Fraction returns Current/Duration in [0, 1], or 0 when the duration is unknown.
func (p Progress) Fraction() float64 {
	if !p.DurationKnown || p.Duration <= 0 {
		return 0
	}
	f := float64(p.Current) / float64(p.Duration)
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}

// PlaySession is the open listening window for one track.
type PlaySession struct {
	TrackID   string
	StartedAt time.Time
}

// Snapshot is a copy of the playback state safe to hand to other goroutines.
type Snapshot struct {
	Current   *Track
	IsPlaying bool
	Progress  Progress
	Volume    float64
	Muted     bool
	Shuffle   bool
	Repeat    RepeatMode
	QueueLen  int
	Index     int
}

// EffectiveVolume is the level actually applied to the output.
func (s Snapshot) EffectiveVolume() float64 {
	if s.Muted {
		return 0
	}
	return s.Volume
}

// HistoryEntry records a track start, plus the listening time once reported.
type HistoryEntry struct {
	ID         string
	TrackID    string
	TrackName  string
	Artist     string
	ArtistID   string
	AlbumID    string
	StartedAt  time.Time
	ListenedMS int64
}

// ArtistPlays aggregates history rows by artist.
type ArtistPlays struct {
	ArtistID   string
	Artist     string
	Plays      int
	LastPlayed time.Time
}
