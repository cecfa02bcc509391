package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/playdeck/internal/shared"
	"golang.org/x/oauth2"
)

// NewHTTPClient returns an [http.Client] with the given timeout that attaches token as a bearer token.
//
// An empty token yields a plain client.
func NewHTTPClient(token string, timeout time.Duration) *http.Client {
	base := &http.Client{Timeout: timeout}
	if token == "" {
		return base
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	client.Timeout = timeout
	return client
}

// client is the JSON request helper shared by the service clients.
type client struct {
	baseURL    string
	httpClient *http.Client
}

func newClient(baseURL string, httpClient *http.Client) client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// do sends body (JSON-encoded when non-nil) and decodes the response into result when non-nil.
func (c client) do(ctx context.Context, method, endpoint string, headers map[string]string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", shared.ErrAPIRequest, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s %s", shared.ErrNotAuthenticated, method, endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail  string `json:"detail"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			if detail := firstNonEmpty(errResp.Detail, errResp.Message); detail != "" {
				return fmt.Errorf("%w (status %d): %s", shared.ErrAPIRequest, resp.StatusCode, detail)
			}
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
