// Package models defines the domain types shared by the playback coordinator, the HTTP clients and the persistence layer.
//
// The package contains two categories of types:
//
// 1. Catalog values supplied by external services
//   - [Track] : A playable song with display metadata and the mutable like flag
//
// 2. Playback state
//   - [RepeatMode] : none → all → one cycle
//   - [Progress] : Current time/duration pair refreshed from the media element
//   - [PlaySession] : The single open listening window used for analytics
//   - [Snapshot] : Read-only copy of the coordinator state handed to UI surfaces
//   - [HistoryEntry] : A persisted record of a track start
package models
