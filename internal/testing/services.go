package testing

import (
	"context"
	"sync"
	"time"

	"github.com/desertthunder/playdeck/internal/models"
)

// FakeClock is a manually advanced clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockCatalog returns a fixed track list or error.
type MockCatalog struct {
	Tracks []models.Track
	Err    error
}

func (m *MockCatalog) GetAll(ctx context.Context) ([]models.Track, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Track(nil), m.Tracks...), nil
}

// MockLibrary records save/unsave calls.
type MockLibrary struct {
	mu      sync.Mutex
	Saved   map[string]struct{}
	Err     error
	SaveErr error
	calls   []string
}

func (m *MockLibrary) GetSavedSongs(ctx context.Context) (map[string]struct{}, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Saved, nil
}

func (m *MockLibrary) SaveSong(ctx context.Context, id string) error {
	m.record("save:" + id)
	return m.SaveErr
}

func (m *MockLibrary) UnsaveSong(ctx context.Context, id string) error {
	m.record("unsave:" + id)
	return m.SaveErr
}

func (m *MockLibrary) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

// Calls returns the recorded calls as "save:<id>" / "unsave:<id>".
func (m *MockLibrary) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Report is a recorded play report.
type Report struct {
	TrackID string
	Elapsed time.Duration
}

// MockReporter records play reports.
type MockReporter struct {
	mu      sync.Mutex
	Err     error
	Block   chan struct{}
	reports []Report
}

func (m *MockReporter) ReportPlay(ctx context.Context, trackID string, elapsed time.Duration) error {
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, Report{TrackID: trackID, Elapsed: elapsed})
	return m.Err
}

func (m *MockReporter) Reports() []Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Report(nil), m.reports...)
}

// MemoryVolumeStore keeps the persisted volume in memory.
type MemoryVolumeStore struct {
	mu     sync.Mutex
	value  float64
	stored bool
	Writes int
}

func (s *MemoryVolumeStore) LoadVolume(ctx context.Context) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.stored, nil
}

func (s *MemoryVolumeStore) SaveVolume(ctx context.Context, v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	s.stored = true
	s.Writes++
	return nil
}

// Value returns the persisted volume.
func (s *MemoryVolumeStore) Value() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.stored
}
