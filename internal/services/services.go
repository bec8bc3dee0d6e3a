// package services defines interface Catalog for interacting with the
// streaming catalog's HTTP APIs
package services

import (
	"context"

	"github.com/desertthunder/vibes/internal/models"
)

// Catalog defines the interface for a streaming catalog provider that can
// list playlists, resolve artists and audio features, and materialize new
// playlists. All methods speak domain types; provider wire formats stay
// inside the implementation.
type Catalog interface {
	// CurrentUser retrieves the authenticated user's profile.
	CurrentUser(ctx context.Context) (*models.User, error)

	// ListPlaylists retrieves every playlist the user can read, including
	// the synthetic liked-songs playlist.
	ListPlaylists(ctx context.Context) ([]models.SourcePlaylist, error)

	// ListPlaylistTracks retrieves all tracks in a playlist, following
	// pagination to exhaustion. Accepts [models.LikedPlaylistID] for the
	// user's saved tracks.
	ListPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// GetArtists retrieves artist records for the given ids in batches.
	// Unknown ids are skipped rather than failing the call.
	GetArtists(ctx context.Context, ids []string) ([]models.Artist, error)

	// GetAudioFeatures retrieves audio features keyed by track id.
	// Tracks the provider cannot resolve are absent from the result.
	GetAudioFeatures(ctx context.Context, ids []string) (map[string]models.AudioFeatures, error)

	// CreatePlaylist creates a new private playlist owned by the current user.
	CreatePlaylist(ctx context.Context, name, description string) (*models.SourcePlaylist, error)

	// AddTracks appends track URIs to a playlist in batches.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// GetPlaylistTrackURIs retrieves the URIs already present in a playlist.
	GetPlaylistTrackURIs(ctx context.Context, playlistID string) ([]string, error)

	// UnfollowPlaylist removes the playlist from the user's library.
	// Unfollowing a playlist that no longer exists is not an error.
	UnfollowPlaylist(ctx context.Context, playlistID string) error

	// Name returns the name of the catalog provider (e.g. "Spotify")
	Name() string
}
