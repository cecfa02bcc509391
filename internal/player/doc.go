// Package player implements the playback coordinator: the single owner of the audio output, the
// current track, the play queue and listen reporting.
//
// A [Coordinator] is built once at startup with [New] and handed to every surface that needs it
// (the CLI runner and the TUI model). All exported methods are safe for concurrent use.
//
// # Transport
//
// [Coordinator.PlayWithID] selects a track, optionally replacing the queue; selecting the loaded
// track toggles play/pause instead of reloading it. [Coordinator.Next] and [Coordinator.Previous]
// follow the shuffle and repeat modes. A media element that refuses to play leaves the coordinator
// paused; no error reaches the caller.
//
// # Listen accounting
//
// Every transition into playing opens a session and every transition out of it closes one. A
// closed session becomes a report when it lasted at least [MinListen]; reports are clamped to
// [MaxListen] and a second report for the same track under [RepeatWindow] is dropped. Reports are
// sent in the background and failures are only logged.
//
// # Events
//
// Subscribers registered with [Coordinator.Subscribe] receive [TrackStarted], [StateChanged],
// [LikeChanged] and [ListenReported] values. Delivery never blocks playback: a subscriber whose
// buffer is full misses the event.
package player
