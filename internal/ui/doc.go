// Package ui implements the interactive player using bubbletea's Elm architecture.
//
// The screen is split into the catalog list and a now-playing footer:
//  1. catalog : every track, filterable; enter plays, a plays the selected track's album
//  2. now playing : title, artist, shuffle/repeat/like markers
//  3. seek bar : click anywhere to seek
//  4. volume bar : click to set volume
//
// The [Model] never owns playback state. It drives a shared [player.Coordinator] and re-renders from the
// [player.StateChanged] snapshots it publishes, so the coordinator stays the single source of truth.
//
// Keyboard navigation uses vim-style bindings with contextual help displayed via charmbracelet/bubbles/help.
package ui
