package player

import (
	"time"

	"github.com/desertthunder/playdeck/internal/models"
)

// fallbackTracks is shown when the catalog cannot be loaded.
var fallbackTracks = []models.Track{
	{
		ID:       "fallback-1",
		Name:     "Signal Lost",
		Artist:   "Offline Ensemble",
		ArtistID: "fallback-artist",
		AlbumID:  "fallback-album",
		AudioURL: "https://cdn.playdeck.local/fallback/signal-lost.mp3",
		Image:    "https://cdn.playdeck.local/fallback/cover.jpg",
		Duration: 3*time.Minute + 12*time.Second,
	},
	{
		ID:       "fallback-2",
		Name:     "Retrying Connection",
		Artist:   "Offline Ensemble",
		ArtistID: "fallback-artist",
		AlbumID:  "fallback-album",
		AudioURL: "https://cdn.playdeck.local/fallback/retrying-connection.mp3",
		Image:    "https://cdn.playdeck.local/fallback/cover.jpg",
		Duration: 2*time.Minute + 47*time.Second,
	},
	{
		ID:       "fallback-3",
		Name:     "Cached Memories",
		Artist:   "Local Echo",
		ArtistID: "fallback-artist-2",
		AudioURL: "https://cdn.playdeck.local/fallback/cached-memories.mp3",
		Image:    "https://cdn.playdeck.local/fallback/cover-2.jpg",
		Duration: 4*time.Minute + 5*time.Second,
	},
}

// FallbackTracks returns a copy of the built-in placeholder catalog. It is never empty.
func FallbackTracks() []models.Track {
	return cloneTracks(fallbackTracks)
}

func cloneTracks(tracks []models.Track) []models.Track {
	if tracks == nil {
		return nil
	}
	return append(make([]models.Track, 0, len(tracks)), tracks...)
}
