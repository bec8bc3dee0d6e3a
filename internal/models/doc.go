// Package models defines domain entities for the vibes aggregation engine.
//
// The package contains two categories of types:
//
// 1. Catalog entities: Fixed-shape records mapped from external service data
//   - [SourcePlaylist] : Playlist metadata, including the saved-tracks pseudo-playlist
//   - [Track] : Song metadata with artist references and optional [AudioFeatures]
//   - [Artist] : Artist metadata carrying the genre labels used for classification
//   - [User] : The catalog account that owns created playlists
//
// 2. Derived aggregates: Request-scoped values computed by the engine
//   - [TrackSet] : Deduplicated, order-preserving union of tracks across playlists
//   - [GenreIndex] : Genre name → ordered track ids, built through track artists
//   - [AggregateMetrics] : Summary statistics with feature means over analyzed tracks
//   - [VibeProfile] : Named mood defined by per-feature (weight, ideal, tolerance) targets
//
// Derived aggregates never persist between requests. Identity for tracks is the
// catalog ID; two tracks with the same ID from different playlists are the same entity.
package models
