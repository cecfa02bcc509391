package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/playdeck/internal/shared"
	tu "github.com/desertthunder/playdeck/internal/testing"
)

func TestNewHTTPClient(t *testing.T) {
	t.Run("Attaches Bearer Token", func(t *testing.T) {
		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewHTTPClient("jwt-token", time.Second)
		resp, err := client.Get(server.URL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		resp.Body.Close()

		if got != "Bearer jwt-token" {
			t.Errorf("expected bearer header, got %q", got)
		}
		if client.Timeout != time.Second {
			t.Errorf("expected timeout 1s, got %v", client.Timeout)
		}
	})

	t.Run("Without Token", func(t *testing.T) {
		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
		}))
		defer server.Close()

		resp, err := NewHTTPClient("", time.Second).Get(server.URL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		resp.Body.Close()

		if got != "" {
			t.Errorf("expected no authorization header, got %q", got)
		}
	})
}

func TestCatalogService(t *testing.T) {
	t.Run("GetAll Decodes Array", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/tracks" {
				t.Errorf("expected path '/api/tracks', got %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"id":"t1","name":"One","artist":"A","artistId":"a1","albumId":"al1","audioUrl":"http://x/1.mp3","image":"http://x/1.jpg","duration":90.5},
				{"id":"t2","name":"Two","artist":"B","audioUrl":"http://x/2.mp3"}
			]`))
		}))
		defer server.Close()

		tracks, err := NewCatalogService(server.URL, nil).GetAll(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}
		if tracks[0].ArtistID != "a1" || tracks[0].AlbumID != "al1" {
			t.Errorf("unexpected ids on first track: %+v", tracks[0])
		}
		if tracks[0].Duration != 90500*time.Millisecond {
			t.Errorf("expected duration 1m30.5s, got %v", tracks[0].Duration)
		}
		if tracks[1].IsLiked {
			t.Error("expected catalog tracks to start unliked")
		}
	})

	t.Run("GetAll Decodes Envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":[{"id":"t1","name":"One","audioUrl":"http://x/1.mp3"}]}`))
		}))
		defer server.Close()

		tracks, err := NewCatalogService(server.URL, nil).GetAll(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 1 || tracks[0].ID != "t1" {
			t.Errorf("expected single track t1, got %+v", tracks)
		}
	})

	t.Run("GetAll Skips Invalid Tracks", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"id":"","audioUrl":"http://x/1.mp3"},{"id":"t2","audioUrl":""},{"id":"t3","audioUrl":"http://x/3.mp3"}]`))
		}))
		defer server.Close()

		tracks, err := NewCatalogService(server.URL, nil).GetAll(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 1 || tracks[0].ID != "t3" {
			t.Errorf("expected only t3, got %+v", tracks)
		}
	})

	t.Run("GetAll Server Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"detail":"upstream down"}`))
		}))
		defer server.Close()

		_, err := NewCatalogService(server.URL, nil).GetAll(context.Background())
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "upstream down") {
			t.Errorf("expected error detail in message, got %v", err)
		}
	})

	t.Run("GetAll Transport Error", func(t *testing.T) {
		client := &http.Client{Transport: tu.FailingTransport(errors.New("connection refused"))}

		_, err := NewCatalogService("http://example.com", client).GetAll(context.Background())
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("GetAll Malformed Body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		_, err := NewCatalogService(server.URL, nil).GetAll(context.Background())
		if err == nil || !strings.Contains(err.Error(), "failed to decode") {
			t.Errorf("expected decode error, got %v", err)
		}
	})
}

func TestLibraryService(t *testing.T) {
	t.Run("Unauthenticated", func(t *testing.T) {
		svc := NewLibraryService("http://example.com", nil, false)

		if _, err := svc.GetSavedSongs(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if err := svc.SaveSong(context.Background(), "t1"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if err := svc.UnsaveSong(context.Background(), "t1"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("GetSavedSongs", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != "/api/library/songs" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			json.NewEncoder(w).Encode([]map[string]string{{"id": "t1"}, {"id": "t3"}, {"id": ""}})
		}))
		defer server.Close()

		saved, err := NewLibraryService(server.URL, nil, true).GetSavedSongs(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(saved) != 2 {
			t.Fatalf("expected 2 saved ids, got %d", len(saved))
		}
		if _, ok := saved["t3"]; !ok {
			t.Error("expected t3 to be saved")
		}
	})

	t.Run("GetSavedSongs Accepts Bare IDs", func(t *testing.T) {
		tests := []struct {
			name string
			body string
			want []string
		}{
			{name: "strings", body: `["t1","t2",""]`, want: []string{"t1", "t2"}},
			{name: "mixed", body: `["t1",{"id":"t3"}]`, want: []string{"t1", "t3"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Content-Type", "application/json")
					w.Write([]byte(tt.body))
				}))
				defer server.Close()

				saved, err := NewLibraryService(server.URL, nil, true).GetSavedSongs(context.Background())
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if len(saved) != len(tt.want) {
					t.Fatalf("expected %d saved ids, got %v", len(tt.want), saved)
				}
				for _, id := range tt.want {
					if _, ok := saved[id]; !ok {
						t.Errorf("expected %s to be saved", id)
					}
				}
			})
		}
	})

	t.Run("GetSavedSongs Rejects Malformed Entries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[42]`))
		}))
		defer server.Close()

		if _, err := NewLibraryService(server.URL, nil, true).GetSavedSongs(context.Background()); err == nil {
			t.Error("expected decode error for numeric entry")
		}
	})

	t.Run("Save And Unsave", func(t *testing.T) {
		var mu sync.Mutex
		var calls []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			calls = append(calls, r.Method+" "+r.URL.Path)
			mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		svc := NewLibraryService(server.URL, nil, true)
		if err := svc.SaveSong(context.Background(), "t1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := svc.UnsaveSong(context.Background(), "t1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		expected := []string{"PUT /api/library/songs/t1", "DELETE /api/library/songs/t1"}
		if len(calls) != len(expected) {
			t.Fatalf("expected %d calls, got %v", len(expected), calls)
		}
		for i := range expected {
			if calls[i] != expected[i] {
				t.Errorf("call %d: expected %q, got %q", i, expected[i], calls[i])
			}
		}
	})

	t.Run("Empty ID", func(t *testing.T) {
		err := NewLibraryService("http://example.com", nil, true).SaveSong(context.Background(), "")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Expired Token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := NewLibraryService(server.URL, nil, true).GetSavedSongs(context.Background())
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestReportService(t *testing.T) {
	t.Run("ReportPlay Sends Body And Request ID", func(t *testing.T) {
		var body playReport
		var requestID string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/plays" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			requestID = r.Header.Get("X-Request-ID")
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("failed to decode body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		svc := NewReportService(server.URL, nil, 0, 1)
		if err := svc.ReportPlay(context.Background(), "t1", 12345*time.Millisecond); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if body.TrackID != "t1" || body.DurationMS != 12345 {
			t.Errorf("unexpected report body %+v", body)
		}
		if requestID == "" {
			t.Error("expected X-Request-ID header")
		}
	})

	t.Run("Request IDs Are Unique", func(t *testing.T) {
		seen := map[string]bool{}
		var mu sync.Mutex
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			seen[r.Header.Get("X-Request-ID")] = true
			mu.Unlock()
		}))
		defer server.Close()

		svc := NewReportService(server.URL, nil, 0, 1)
		for range 3 {
			if err := svc.ReportPlay(context.Background(), "t1", 6*time.Second); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}
		if len(seen) != 3 {
			t.Errorf("expected 3 distinct request ids, got %d", len(seen))
		}
	})

	t.Run("Throttled Report Honors Context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		svc := NewReportService(server.URL, nil, 0.001, 1)
		if err := svc.ReportPlay(context.Background(), "t1", 6*time.Second); err != nil {
			t.Fatalf("expected first report to pass, got %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if err := svc.ReportPlay(ctx, "t1", 6*time.Second); err == nil {
			t.Error("expected throttled report to fail once context ends")
		}
	})

	t.Run("Server Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		err := NewReportService(server.URL, nil, 0, 1).ReportPlay(context.Background(), "t1", 6*time.Second)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Empty Track ID", func(t *testing.T) {
		err := NewReportService("http://example.com", nil, 0, 1).ReportPlay(context.Background(), "", time.Minute)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
