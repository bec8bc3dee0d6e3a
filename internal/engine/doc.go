// Package engine orchestrates playlist aggregation and vibe classification with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] struct exposes four operation families:
//
//  1. [Engine.Analyze] : Aggregate one or more source playlists
//     - Fetches every playlist's tracks through a bounded worker pool
//     - Merges them into a deduplicated set in first-seen order
//     - Resolves genres transitively through artist metadata
//     - Enriches tracks with audio features and computes aggregate metrics
//
//  2. [Engine.CreateVibePlaylist] : Materialize a mood playlist
//     - Scores every track against a named vibe profile
//     - Creates a "<Vibe> Mix" playlist from tracks meeting the threshold
//     - Returns a no-op result when nothing matches
//
//  3. [Engine.CreateGenrePlaylist] and [Engine.CreatePlaylistFromTracks] : Materialize from a genre or an explicit track list
//     - Reuses an existing playlist with the same name
//     - Suppresses URIs the destination already contains
//
//  4. [Engine.DeletePlaylist] : Remove a playlist from the user's library
//     - Safe to repeat; a playlist that is already gone is not an error
//
// # Progress Reporting
//
// All operations accept an optional channel for [ProgressUpdate] events.
// Updates use select with default to prevent blocking; a nil channel
// disables reporting.
//
// # Metadata Caching
//
// The optional [ArtistCache] and [FeatureCache] interfaces let artist and
// audio-feature lookups hit a local store before the catalog. Cache
// failures are logged and degrade to direct fetches to avoid disrupting
// analysis.
//
// # Error Handling
//
// Validation failures surface before any catalog request. Auth, rate-limit,
// and availability failures abort the running operation; a playlist the
// catalog no longer knows is skipped with a warning. A failure after a
// playlist was created is reported as [shared.PartialWriteError] so the
// caller keeps the new playlist's id.
package engine
