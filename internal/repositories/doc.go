// Package repositories implements SQLite persistence for player settings and listening history.
//
// Key Implementations:
//   - [SettingsRepository] : flat key/value settings, including the persisted volume under [VolumeKey]
//   - [HistoryRepository] : one row per track start with the listening time reported for it
//   - [HistoryRecorder] : feeds [HistoryRepository] from playback coordinator events
//
// Timestamps are stored in UTC so that aggregate queries can order them as text.
package repositories
