package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/playdeck/internal/formatter"
	"github.com/desertthunder/playdeck/internal/models"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name + " " + i.track.Artist }
func (i trackItem) Title() string {
	if i.track.IsLiked {
		return i.track.Name + " ♥"
	}
	return i.track.Name
}
func (i trackItem) Description() string {
	return fmt.Sprintf("%s • %s", i.track.Artist, formatter.TrackDuration(i.track))
}

func trackItems(tracks []models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, track := range tracks {
		items[i] = trackItem{track: track}
	}
	return items
}
