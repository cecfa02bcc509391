package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/player"
	"github.com/desertthunder/playdeck/internal/shared"
	tu "github.com/desertthunder/playdeck/internal/testing"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestSettingsRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Get Missing Key", func(t *testing.T) {
		repo := NewSettingsRepository(setupTestDB(t))

		_, err := repo.Get(ctx, "nope")
		if !errors.Is(err, shared.ErrSettingNotFound) {
			t.Errorf("expected ErrSettingNotFound, got %v", err)
		}
	})

	t.Run("Set Then Overwrite", func(t *testing.T) {
		repo := NewSettingsRepository(setupTestDB(t))

		if err := repo.Set(ctx, "theme", "dark"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
		if err := repo.Set(ctx, "theme", "light"); err != nil {
			t.Fatalf("failed to overwrite: %v", err)
		}

		value, err := repo.Get(ctx, "theme")
		if err != nil {
			t.Fatalf("failed to get: %v", err)
		}
		if value != "light" {
			t.Errorf("expected 'light', got %q", value)
		}
	})

	t.Run("Set Empty Key", func(t *testing.T) {
		repo := NewSettingsRepository(setupTestDB(t))
		if err := repo.Set(ctx, "", "x"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewSettingsRepository(setupTestDB(t))
		repo.Set(ctx, "theme", "dark")

		if err := repo.Delete(ctx, "theme"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, err := repo.Get(ctx, "theme"); !errors.Is(err, shared.ErrSettingNotFound) {
			t.Errorf("expected key to be gone, got %v", err)
		}
		if err := repo.Delete(ctx, "theme"); err != nil {
			t.Errorf("expected deleting a missing key to succeed, got %v", err)
		}
	})

	t.Run("Volume Round Trip", func(t *testing.T) {
		repo := NewSettingsRepository(setupTestDB(t))

		if _, ok, err := repo.LoadVolume(ctx); ok || err != nil {
			t.Fatalf("expected no stored volume, got ok=%v err=%v", ok, err)
		}

		if err := repo.SaveVolume(ctx, 0.42); err != nil {
			t.Fatalf("failed to save volume: %v", err)
		}

		raw, _ := repo.Get(ctx, VolumeKey)
		if raw != "0.42" {
			t.Errorf("expected stored string '0.42', got %q", raw)
		}

		v, ok, err := repo.LoadVolume(ctx)
		if err != nil || !ok {
			t.Fatalf("expected stored volume, got ok=%v err=%v", ok, err)
		}
		if v != 0.42 {
			t.Errorf("expected 0.42, got %v", v)
		}
	})

	t.Run("Volume Is Clamped", func(t *testing.T) {
		repo := NewSettingsRepository(setupTestDB(t))
		repo.SaveVolume(ctx, 3)

		if v, _, _ := repo.LoadVolume(ctx); v != 1 {
			t.Errorf("expected 1, got %v", v)
		}
	})

	t.Run("Corrupt Volume", func(t *testing.T) {
		repo := NewSettingsRepository(setupTestDB(t))
		repo.Set(ctx, VolumeKey, "loud")

		if _, _, err := repo.LoadVolume(ctx); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSettingsRepository(db)
		db.Close()

		if err := repo.Set(ctx, "k", "v"); err == nil {
			t.Error("expected error on closed database")
		}
		if _, err := repo.Get(ctx, "k"); err == nil || errors.Is(err, shared.ErrSettingNotFound) {
			t.Errorf("expected read error, got %v", err)
		}
	})
}

func TestHistoryRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	one := models.Track{ID: "t1", Name: "One", Artist: "A", ArtistID: "a1", AlbumID: "al1"}
	two := models.Track{ID: "t2", Name: "Two", Artist: "B", ArtistID: "b1"}

	t.Run("Record And Recent", func(t *testing.T) {
		repo := NewHistoryRepository(setupTestDB(t))

		first, err := repo.Record(ctx, one, base)
		if err != nil {
			t.Fatalf("failed to record: %v", err)
		}
		if _, err := repo.Record(ctx, two, base.Add(time.Minute)); err != nil {
			t.Fatalf("failed to record: %v", err)
		}
		if err := repo.AddListened(ctx, first, 30*time.Second); err != nil {
			t.Fatalf("failed to add listened: %v", err)
		}
		if err := repo.AddListened(ctx, first, 15*time.Second); err != nil {
			t.Fatalf("failed to add listened: %v", err)
		}

		entries, err := repo.Recent(ctx, 10)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].TrackID != "t2" {
			t.Errorf("expected newest first, got %s", entries[0].TrackID)
		}
		if entries[1].ListenedMS != 45000 {
			t.Errorf("expected 45000ms listened, got %d", entries[1].ListenedMS)
		}
		if !entries[1].StartedAt.Equal(base) {
			t.Errorf("expected started at %v, got %v", base, entries[1].StartedAt)
		}
		if entries[1].AlbumID != "al1" {
			t.Errorf("expected album al1, got %q", entries[1].AlbumID)
		}
	})

	t.Run("Recent Honors Limit", func(t *testing.T) {
		repo := NewHistoryRepository(setupTestDB(t))
		for i := range 5 {
			repo.Record(ctx, one, base.Add(time.Duration(i)*time.Second))
		}

		entries, err := repo.Recent(ctx, 3)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(entries) != 3 {
			t.Errorf("expected 3 entries, got %d", len(entries))
		}
	})

	t.Run("Record Requires Track ID", func(t *testing.T) {
		repo := NewHistoryRepository(setupTestDB(t))
		if _, err := repo.Record(ctx, models.Track{}, base); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("AddListened Unknown Entry", func(t *testing.T) {
		repo := NewHistoryRepository(setupTestDB(t))
		if err := repo.AddListened(ctx, "missing", time.Second); err == nil {
			t.Error("expected error for unknown entry")
		}
	})

	t.Run("Artists", func(t *testing.T) {
		repo := NewHistoryRepository(setupTestDB(t))
		repo.Record(ctx, one, base)
		repo.Record(ctx, two, base.Add(time.Minute))
		repo.Record(ctx, one, base.Add(2*time.Minute))

		artists, err := repo.Artists(ctx, 10)
		if err != nil {
			t.Fatalf("failed to list artists: %v", err)
		}
		if len(artists) != 2 {
			t.Fatalf("expected 2 artists, got %d", len(artists))
		}
		if artists[0].ArtistID != "a1" || artists[0].Plays != 2 {
			t.Errorf("expected a1 with 2 plays first, got %+v", artists[0])
		}
		if !artists[0].LastPlayed.Equal(base.Add(2 * time.Minute)) {
			t.Errorf("expected last played %v, got %v", base.Add(2*time.Minute), artists[0].LastPlayed)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewHistoryRepository(setupTestDB(t))
		repo.Record(ctx, one, base)

		if err := repo.Clear(ctx); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if entries, _ := repo.Recent(ctx, 10); len(entries) != 0 {
			t.Errorf("expected empty history, got %d", len(entries))
		}
	})
}

func TestHistoryRecorder(t *testing.T) {
	ctx := context.Background()

	t.Run("Handle", func(t *testing.T) {
		repo := NewHistoryRepository(setupTestDB(t))
		rec := NewHistoryRecorder(repo, nil)
		track := models.Track{ID: "t1", Name: "One", Artist: "A", ArtistID: "a1"}

		rec.Handle(ctx, player.ListenReported{TrackID: "t1", Elapsed: time.Minute})
		rec.Handle(ctx, player.TrackStarted{Track: track, At: time.Now()})
		rec.Handle(ctx, player.ListenReported{TrackID: "t1", Elapsed: time.Minute})
		rec.Handle(ctx, player.LikeChanged{TrackID: "t1", Liked: true})

		entries, err := repo.Recent(ctx, 10)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].ListenedMS != 60000 {
			t.Errorf("expected 60000ms, got %d", entries[0].ListenedMS)
		}
	})

	t.Run("Records Coordinator Playback", func(t *testing.T) {
		repo := NewHistoryRepository(setupTestDB(t))
		clock := tu.NewFakeClock()
		tracks := []models.Track{
			{ID: "t1", Name: "One", Artist: "A", ArtistID: "a1", AudioURL: "http://x/1.mp3"},
			{ID: "t2", Name: "Two", Artist: "B", ArtistID: "b1", AudioURL: "http://x/2.mp3"},
		}
		c := player.New(player.Options{
			Catalog: &tu.MockCatalog{Tracks: tracks},
			Media:   tu.NewFakeMedia(time.Minute),
			Clock:   clock,
		})
		c.Init(ctx)

		events, unsubscribe := c.Subscribe(64)
		c.PlayWithID("t1", nil)
		clock.Advance(20 * time.Second)
		c.Next()
		clock.Advance(10 * time.Second)
		c.Pause()
		unsubscribe()

		NewHistoryRecorder(repo, nil).Run(ctx, events)
		c.Close(ctx)

		entries, err := repo.Recent(ctx, 10)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}

		listened := map[string]int64{}
		for _, e := range entries {
			listened[e.TrackID] = e.ListenedMS
		}
		if listened["t1"] != 20000 || listened["t2"] != 10000 {
			t.Errorf("unexpected listening times %v", listened)
		}
	})
}
