package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/playdeck/internal/models"
	"github.com/desertthunder/playdeck/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// HistoryRepository records what was played and for how long.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record inserts a track start and returns the new entry id.
func (r *HistoryRepository) Record(ctx context.Context, track models.Track, startedAt time.Time) (string, error) {
	if track.ID == "" {
		return "", fmt.Errorf("%w: empty track id", shared.ErrInvalidArgument)
	}

	id := shared.GenerateID()
	query := `
		INSERT INTO play_history (id, track_id, track_name, artist, artist_id, album_id, started_at, listened_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)
	`
	_, err := r.db.ExecContext(ctx, query,
		id,
		track.ID,
		track.Name,
		track.Artist,
		track.ArtistID,
		track.AlbumID,
		startedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert history entry: %w", err)
	}
	return id, nil
}

// AddListened adds elapsed to the listening time of entry id.
func (r *HistoryRepository) AddListened(ctx context.Context, id string, elapsed time.Duration) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE play_history SET listened_ms = listened_ms + ? WHERE id = ?`,
		elapsed.Milliseconds(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update history entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("history entry not found: %s", id)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	query := `
		SELECT id, track_id, track_name, artist, artist_id, album_id, started_at, listened_ms
		FROM play_history
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.TrackID, &e.TrackName, &e.Artist, &e.ArtistID, &e.AlbumID, &e.StartedAt, &e.ListenedMS); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// Artists returns recently played artists with their play counts, most recent first.
func (r *HistoryRepository) Artists(ctx context.Context, limit int) ([]models.ArtistPlays, error) {
	query := `
		SELECT artist_id, artist, COUNT(*), MAX(started_at) AS last_played
		FROM play_history
		GROUP BY artist_id, artist
		ORDER BY last_played DESC, artist ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	var artists []models.ArtistPlays
	for rows.Next() {
		var (
			a    models.ArtistPlays
			last string
		)
		if err := rows.Scan(&a.ArtistID, &a.Artist, &a.Plays, &last); err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		a.LastPlayed = parseTimestamp(last)
		artists = append(artists, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return artists, nil
}

// Clear deletes every history entry.
func (r *HistoryRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM play_history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// parseTimestamp reads a timestamp that lost its column type in an aggregate.
func parseTimestamp(s string) time.Time {
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}
