package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/playdeck/internal/shared"
)

// VolumeKey is the settings key holding the persisted volume as a float string.
const VolumeKey = "player-volume"

// SettingsRepository stores flat key/value settings.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository with the given database connection
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the value stored under key, or [shared.ErrSettingNotFound].
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", shared.ErrSettingNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

// Set writes value under key, replacing any previous value.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: empty setting key", shared.ErrInvalidArgument)
	}

	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (r *SettingsRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// LoadVolume reads the persisted volume. ok is false when none has been stored.
func (r *SettingsRepository) LoadVolume(ctx context.Context) (float64, bool, error) {
	raw, err := r.Get(ctx, VolumeKey)
	if errors.Is(err, shared.ErrSettingNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s=%q", shared.ErrInvalidConfig, VolumeKey, raw)
	}
	return shared.Clamp01(v), true, nil
}

// SaveVolume persists v, clamped to [0, 1].
func (r *SettingsRepository) SaveVolume(ctx context.Context, v float64) error {
	return r.Set(ctx, VolumeKey, strconv.FormatFloat(shared.Clamp01(v), 'f', -1, 64))
}
