package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/playdeck/internal/shared"
	"golang.org/x/time/rate"
)

// playReport is the body of POST /api/plays.
type playReport struct {
	TrackID    string `json:"trackId"`
	DurationMS int64  `json:"durationMs"`
}

// ReportService sends listen analytics to the statistics service.
//
// Reports pass through a token-bucket limiter; callers block in [ReportService.ReportPlay] until a token is
// available or ctx ends.
type ReportService struct {
	client
	limiter *rate.Limiter
}

// NewReportService creates a statistics client allowing ratePerSecond reports with the given burst.
// A non-positive rate disables throttling.
func NewReportService(baseURL string, httpClient *http.Client, ratePerSecond float64, burst int) *ReportService {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	if burst < 1 {
		burst = 1
	}
	return &ReportService{
		client:  newClient(baseURL, httpClient),
		limiter: rate.NewLimiter(limit, burst),
	}
}

// ReportPlay records that trackID was listened to for elapsed.
//
// Calls POST /api/plays with a unique X-Request-ID so the service can discard duplicate deliveries.
func (s *ReportService) ReportPlay(ctx context.Context, trackID string, elapsed time.Duration) error {
	if trackID == "" {
		return fmt.Errorf("%w: empty track id", shared.ErrInvalidArgument)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("report throttled: %w", err)
	}

	body := playReport{TrackID: trackID, DurationMS: elapsed.Milliseconds()}
	headers := map[string]string{"X-Request-ID": shared.GenerateID()}
	if err := s.do(ctx, http.MethodPost, "/api/plays", headers, body, nil); err != nil {
		return fmt.Errorf("failed to report play of %s: %w", trackID, err)
	}
	return nil
}
