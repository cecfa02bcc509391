// Package services implements HTTP clients for the external REST services the player consumes.
//
// # Clients
//
//   - [CatalogService] : GET /api/tracks, the full track catalog
//   - [LibraryService] : the authenticated user's saved songs (list, save, unsave)
//   - [ReportService] : POST /api/plays, listen analytics
//   - [APIService] : raw GET/POST used by the `api` debugging command
//
// # Authentication
//
// Calls carry a bearer token (the JWT issued by the auth service) attached by an [oauth2.Transport] built in
// [NewHTTPClient]. Library calls without a token fail fast with [shared.ErrNotAuthenticated]; a 401 from any
// service maps to the same error.
//
// # Error Handling
//
// Non-2xx responses are wrapped in [shared.ErrAPIRequest] with the status code and the service's error detail.
// Nothing here retries; the playback coordinator decides what a failure means.
package services
