package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/playdeck/internal/shared"
)

// LibraryService manages the authenticated user's saved songs.
type LibraryService struct {
	client
	authenticated bool
}

// NewLibraryService creates a library client. Without authentication every call returns [shared.ErrNotAuthenticated].
func NewLibraryService(baseURL string, httpClient *http.Client, authenticated bool) *LibraryService {
	return &LibraryService{client: newClient(baseURL, httpClient), authenticated: authenticated}
}

// savedSong is one entry of the saved songs list: either a bare id or an object with an id field.
type savedSong string

func (s *savedSong) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*s = savedSong(id)
		return nil
	}

	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to decode saved song %s: %w", data, err)
	}
	*s = savedSong(obj.ID)
	return nil
}

// GetSavedSongs returns the ids of the user's saved songs.
//
// Calls GET /api/library/songs, which answers with an array of ids ("t1") or of objects ({"id": "t1"}).
func (s *LibraryService) GetSavedSongs(ctx context.Context) (map[string]struct{}, error) {
	if !s.authenticated {
		return nil, shared.ErrNotAuthenticated
	}

	var songs []savedSong
	if err := s.do(ctx, http.MethodGet, "/api/library/songs", nil, nil, &songs); err != nil {
		return nil, fmt.Errorf("failed to fetch saved songs: %w", err)
	}

	saved := make(map[string]struct{}, len(songs))
	for _, id := range songs {
		if id != "" {
			saved[string(id)] = struct{}{}
		}
	}
	return saved, nil
}

// SaveSong adds a track to the library. Calls PUT /api/library/songs/{id}.
func (s *LibraryService) SaveSong(ctx context.Context, id string) error {
	return s.mutate(ctx, http.MethodPut, id)
}

// UnsaveSong removes a track from the library. Calls DELETE /api/library/songs/{id}.
func (s *LibraryService) UnsaveSong(ctx context.Context, id string) error {
	return s.mutate(ctx, http.MethodDelete, id)
}

func (s *LibraryService) mutate(ctx context.Context, method, id string) error {
	if !s.authenticated {
		return shared.ErrNotAuthenticated
	}
	if id == "" {
		return fmt.Errorf("%w: empty track id", shared.ErrInvalidArgument)
	}

	endpoint := "/api/library/songs/" + url.PathEscape(id)
	if err := s.do(ctx, method, endpoint, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to update library for %s: %w", id, err)
	}
	return nil
}
