// Package services defines the [Catalog] interface for the streaming catalog
// and implements it for Spotify, with audio features served by ReccoBeats.
//
// # Catalog Interface
//
// All catalog access goes through a single abstraction so the aggregation
// engine can be exercised against a fake in tests. Methods accept and return
// domain types from the models package; provider JSON never crosses the
// boundary.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 with automatic token refresh. A stored
// refresh token is exchanged transparently by the [oauth2] client, so a
// one-time authorization keeps the CLI working indefinitely.
//
// Playlist and library reads paginate to exhaustion. Artist lookups and
// track additions are chunked to the API's batch limits (50 artists, 100
// added tracks per request). The user's saved tracks are exposed as a
// synthetic playlist with id [models.LikedPlaylistID].
//
// # ReccoBeats Implementation
//
// [FeatureService] fetches audio features in batches of 40 from the
// ReccoBeats API, which requires no authentication and accepts Spotify track
// ids. Responses are matched back to ids positionally because the provider
// assigns its own identifiers.
//
// # Rate Limiting and Retries
//
// Every request waits on a [rate.Limiter] before leaving the process. Each
// batch then runs through a bounded retry loop: rate-limit responses honor
// the Retry-After header, transient upstream failures back off
// exponentially with jitter, and anything else fails the batch immediately.
//
// # Error Handling
//
// Failures map onto the shared error taxonomy:
//   - [shared.ErrUnauthorized] : credential rejected, surfaced without retry
//   - [shared.ErrRateLimited] : retry budget exhausted on rate limits
//   - [shared.ErrCatalogUnavailable] : network failure or 5xx after retries
//   - [shared.ErrNotFound] : absorbed per-identifier, never fails a batch
//   - [shared.ErrValidation] : bad input rejected before any network call
package services
