// Package repositories implements the SQLite metadata cache for catalog lookups.
//
// Analyses repeatedly resolve the same artists and audio features, so both are
// cached locally with a freshness TTL. Stale entries count as misses and are
// refetched from the catalog, then refreshed in place.
//
// Key Implementations:
//   - [ArtistRepository] : Artist genre caching keyed by catalog artist id
//   - [FeatureRepository] : Audio-feature caching keyed by catalog track id
//
// Both repositories return cache hits alongside the list of ids that still
// need fetching, so callers only hit the network for the gap.
//
// Sequence numbers provide stable, human-readable ordering (e.g., artist #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
