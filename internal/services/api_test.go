package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tu "github.com/desertthunder/playdeck/internal/testing"
)

// gateway records the last request and answers by path.
type gateway struct {
	method      string
	contentType string
	body        string
}

func (g *gateway) handler(w http.ResponseWriter, r *http.Request) {
	g.method = r.Method
	g.contentType = r.Header.Get("Content-Type")
	raw, _ := io.ReadAll(r.Body)
	g.body = string(raw)

	switch r.URL.Path {
	case "/api/tracks":
		w.Header().Set("X-Total-Count", "2")
		w.Write([]byte(`[{"id":"t1"},{"id":"t2"}]`))
	case "/api/plays":
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"p1"}`))
	case "/api/library/songs/t1":
		w.WriteHeader(http.StatusNoContent)
	case "/health":
		w.Write([]byte("ok"))
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"not found"}`))
	}
}

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		custom := &http.Client{}
		if srv := NewAPIService("http://gateway.test", custom); srv.baseURL != "http://gateway.test" || srv.httpClient != custom {
			t.Errorf("expected custom base URL and client, got %s %v", srv.baseURL, srv.httpClient)
		}

		srv := NewAPIService("", nil)
		if srv.baseURL != DefaultBaseURL {
			t.Errorf("expected default baseURL %q, got %s", DefaultBaseURL, srv.baseURL)
		}
		if srv.httpClient != http.DefaultClient {
			t.Error("expected http.DefaultClient to be used")
		}
	})

	t.Run("Request", func(t *testing.T) {
		g := &gateway{}
		server := httptest.NewServer(http.HandlerFunc(g.handler))
		defer server.Close()
		api := NewAPIService(server.URL, server.Client())

		tests := []struct {
			name        string
			method      string
			path        string
			data        []byte
			status      int
			isJSON      bool
			contentType string
		}{
			{name: "GET catalog", method: http.MethodGet, path: "/api/tracks", status: http.StatusOK, isJSON: true},
			{name: "POST play", method: http.MethodPost, path: "/api/plays", data: []byte(`{"trackId":"t1"}`), status: http.StatusCreated, isJSON: true, contentType: "application/json"},
			{name: "DELETE without body", method: http.MethodDelete, path: "/api/library/songs/t1", status: http.StatusNoContent},
			{name: "plain text", method: http.MethodGet, path: "/health", status: http.StatusOK},
			{name: "error status is not an error", method: http.MethodGet, path: "/missing", status: http.StatusNotFound, isJSON: true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				resp, err := api.Request(context.Background(), tt.method, tt.path, tt.data)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}

				if g.method != tt.method {
					t.Errorf("expected %s, server saw %s", tt.method, g.method)
				}
				if g.contentType != tt.contentType {
					t.Errorf("expected Content-Type %q, got %q", tt.contentType, g.contentType)
				}
				if g.body != string(tt.data) {
					t.Errorf("expected body %q, got %q", tt.data, g.body)
				}
				if resp.StatusCode != tt.status {
					t.Errorf("expected status %d, got %d", tt.status, resp.StatusCode)
				}
				if resp.IsJSON != tt.isJSON {
					t.Errorf("expected IsJSON=%v for %q", tt.isJSON, resp.Body)
				}
				if !tt.isJSON && resp.JSONData != nil {
					t.Errorf("expected no JSONData, got %v", resp.JSONData)
				}
			})
		}
	})

	t.Run("Get Decodes JSON And Keeps Headers", func(t *testing.T) {
		g := &gateway{}
		server := httptest.NewServer(http.HandlerFunc(g.handler))
		defer server.Close()

		resp, err := NewAPIService(server.URL, nil).Get(context.Background(), "/api/tracks")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		items, ok := resp.JSONData.([]any)
		if !ok || len(items) != 2 {
			t.Errorf("expected two decoded items, got %#v", resp.JSONData)
		}
		if got := resp.Headers.Get("X-Total-Count"); got != "2" {
			t.Errorf("expected header to be preserved, got %q", got)
		}
	})

	t.Run("Post Sends JSON", func(t *testing.T) {
		g := &gateway{}
		server := httptest.NewServer(http.HandlerFunc(g.handler))
		defer server.Close()

		if _, err := NewAPIService(server.URL, nil).Post(context.Background(), "/api/plays", []byte(`{}`)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if g.method != http.MethodPost || g.contentType != "application/json" {
			t.Errorf("expected JSON POST, got %s %q", g.method, g.contentType)
		}
	})

	t.Run("Failures", func(t *testing.T) {
		tests := []struct {
			name   string
			client *http.Client
			path   string
			want   string
		}{
			{name: "invalid path", client: nil, path: "/api\x00tracks", want: "failed to create request"},
			{name: "transport error", client: &http.Client{Transport: tu.FailingTransport(errors.New("connection refused"))}, path: "/api/tracks", want: "request failed"},
			{name: "unreadable body", client: &http.Client{Transport: tu.BrokenBodyTransport(http.StatusOK)}, path: "/api/tracks", want: "failed to read response"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewAPIService("http://gateway.test", tt.client).Get(context.Background(), tt.path)
				if err == nil || !strings.Contains(err.Error(), tt.want) {
					t.Errorf("expected %q error, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("Canceled Context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc((&gateway{}).handler))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := NewAPIService(server.URL, nil).Get(ctx, "/health"); err == nil {
			t.Error("expected error for canceled context")
		}
	})
}
