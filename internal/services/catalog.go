package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/playdeck/internal/models"
)

// catalogTrack is the wire shape of a track returned by the catalog service.
type catalogTrack struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Artist   string  `json:"artist"`
	ArtistID string  `json:"artistId"`
	AlbumID  string  `json:"albumId"`
	AudioURL string  `json:"audioUrl"`
	Image    string  `json:"image"`
	Duration float64 `json:"duration"` // seconds
}

func (t catalogTrack) toModel() models.Track {
	return models.Track{
		ID:       t.ID,
		Name:     t.Name,
		Artist:   t.Artist,
		ArtistID: t.ArtistID,
		AlbumID:  t.AlbumID,
		AudioURL: t.AudioURL,
		Image:    t.Image,
		Duration: time.Duration(t.Duration * float64(time.Second)),
	}
}

// CatalogService fetches the track catalog.
type CatalogService struct {
	client
}

// NewCatalogService creates a catalog client for baseURL.
func NewCatalogService(baseURL string, httpClient *http.Client) *CatalogService {
	return &CatalogService{client: newClient(baseURL, httpClient)}
}

// GetAll returns every track in the catalog.
//
// Calls GET /api/tracks. Both a bare JSON array and an envelope of the form {"data": [...]} are accepted.
// Tracks without an id or audio URL are skipped.
func (s *CatalogService) GetAll(ctx context.Context) ([]models.Track, error) {
	var raw json.RawMessage
	if err := s.do(ctx, http.MethodGet, "/api/tracks", nil, nil, &raw); err != nil {
		return nil, err
	}

	var items []catalogTrack
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Data []catalogTrack `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode catalog: %w", err)
		}
		items = envelope.Data
	} else if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		track := item.toModel()
		if err := track.Validate(); err != nil {
			continue
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}
