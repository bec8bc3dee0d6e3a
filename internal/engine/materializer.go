package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/vibes/internal/models"
	"github.com/desertthunder/vibes/internal/shared"
)

// CreatePlaylistFromTracks materializes a playlist with the given name and
// track URIs. An existing playlist with the same name is reused and only
// the URIs it does not already contain are added; otherwise a new private
// playlist is created.
func (e *Engine) CreatePlaylistFromTracks(ctx context.Context, progress chan<- ProgressUpdate, name string, uris []string) (*MaterializeResult, error) {
	if len(uris) == 0 {
		return nil, fmt.Errorf("%w: no tracks to add", shared.ErrValidation)
	}
	return e.materialize(ctx, progress, name, "Created by vibes", uris)
}

// CreateVibePlaylist analyzes the given playlists and materializes a
// "<Vibe> Mix" playlist holding every track that matches the vibe. When no
// track meets the threshold nothing is created and a no-op result is
// returned instead.
func (e *Engine) CreateVibePlaylist(ctx context.Context, progress chan<- ProgressUpdate, vibe string, playlistIDs []string) (*MaterializeResult, error) {
	profile, ok := models.FindVibeProfile(e.profiles, vibe)
	if !ok {
		return nil, fmt.Errorf("%w: unknown vibe %q", shared.ErrValidation, vibe)
	}
	if err := validatePlaylistIDs(playlistIDs); err != nil {
		return nil, err
	}

	set, err := e.mergePlaylists(ctx, progress, playlistIDs)
	if err != nil {
		return nil, err
	}
	if err := e.enrichFeatures(ctx, progress, set); err != nil {
		return nil, err
	}

	e.sendProgress(progress, classifyVibeUpdate(profile.Name))
	uris := matchVibe(set, profile, e.threshold)
	e.sendProgress(progress, vibeMatchedUpdate(profile.Name, len(uris), set.Len()))

	if len(uris) == 0 {
		e.logger.Info("no tracks matched vibe", "vibe", profile.Name, "tracks", set.Len())
		return &MaterializeResult{
			NoOp:    true,
			Message: fmt.Sprintf("No tracks matched vibe '%s'; playlist not created", profile.Name),
		}, nil
	}

	name := fmt.Sprintf("%s Mix", titleWords(profile.Name))
	description := fmt.Sprintf("Generated %s playlist by vibes", profile.Name)
	return e.materialize(ctx, progress, name, description, uris)
}

// CreateGenrePlaylist analyzes the given playlists and materializes a
// playlist holding every track carrying the genre. The playlist name
// defaults to "<Genre> Mix" when name is empty.
func (e *Engine) CreateGenrePlaylist(ctx context.Context, progress chan<- ProgressUpdate, genre, name string, playlistIDs []string) (*MaterializeResult, error) {
	if strings.TrimSpace(genre) == "" {
		return nil, fmt.Errorf("%w: genre is required", shared.ErrValidation)
	}
	if err := validatePlaylistIDs(playlistIDs); err != nil {
		return nil, err
	}

	set, err := e.mergePlaylists(ctx, progress, playlistIDs)
	if err != nil {
		return nil, err
	}
	if _, err := e.resolveGenres(ctx, progress, set); err != nil {
		return nil, err
	}

	uris := FilterTracksByGenre(set.Tracks(), genre)
	if len(uris) == 0 {
		e.logger.Info("no tracks matched genre", "genre", genre, "tracks", set.Len())
		return &MaterializeResult{
			NoOp:    true,
			Message: fmt.Sprintf("No tracks matched genre '%s'; playlist not created", genre),
		}, nil
	}

	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("%s Mix", titleWords(genre))
	}
	return e.materialize(ctx, progress, name, "Created by vibes", uris)
}

// DeletePlaylist removes the playlist from the user's library. Removing a
// playlist that is already gone is not an error, so the operation is safe
// to repeat.
func (e *Engine) DeletePlaylist(ctx context.Context, progress chan<- ProgressUpdate, playlistID string) error {
	if strings.TrimSpace(playlistID) == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrValidation)
	}

	e.sendProgress(progress, deletePlaylistUpdate(playlistID))
	if err := e.catalog.UnfollowPlaylist(ctx, playlistID); err != nil {
		return err
	}
	e.logger.Info("playlist removed", "playlist", playlistID)
	return nil
}

// materialize finds or creates the destination playlist and adds the URIs
// it does not already contain. A failure after a playlist was created is
// returned as a [shared.PartialWriteError] carrying the new playlist's id
// so the caller is not left without a handle.
func (e *Engine) materialize(ctx context.Context, progress chan<- ProgressUpdate, name, description string, uris []string) (*MaterializeResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrValidation)
	}

	e.sendProgress(progress, createPlaylistUpdate(name))

	target, reused, err := e.findOrCreate(ctx, name, description)
	if err != nil {
		return nil, err
	}
	if reused {
		e.sendProgress(progress, playlistReusedUpdate(target))
	} else {
		e.sendProgress(progress, playlistCreatedUpdate(target))
	}

	result := &MaterializeResult{PlaylistID: target.ID, PlaylistName: target.Name, Reused: reused}

	existing := make(map[string]bool)
	if reused {
		present, err := e.catalog.GetPlaylistTrackURIs(ctx, target.ID)
		if err != nil {
			return result, fmt.Errorf("failed to read playlist %s before adding tracks: %w", target.ID, err)
		}
		for _, uri := range present {
			existing[uri] = true
		}
	}

	toAdd := make([]string, 0, len(uris))
	seen := make(map[string]bool, len(uris))
	for _, uri := range uris {
		if uri == "" || seen[uri] || existing[uri] {
			continue
		}
		seen[uri] = true
		toAdd = append(toAdd, uri)
	}
	result.Skipped = len(uris) - len(toAdd)

	if len(toAdd) == 0 {
		result.Message = fmt.Sprintf("Playlist '%s' already contains all %d tracks", target.Name, len(uris))
		e.logger.Info("no new tracks to add", "playlist", target.ID, "skipped", result.Skipped)
		return result, nil
	}

	if err := e.catalog.AddTracks(ctx, target.ID, toAdd); err != nil {
		if !reused {
			return result, &shared.PartialWriteError{PlaylistID: target.ID, Err: err}
		}
		return result, fmt.Errorf("failed to add tracks to playlist %s: %w", target.ID, err)
	}

	result.Added = len(toAdd)
	result.Message = fmt.Sprintf("Added %d tracks to '%s' (%d skipped)", result.Added, target.Name, result.Skipped)
	e.sendProgress(progress, addTracksUpdate(result.Added, result.Skipped))
	e.logger.Info("playlist materialized",
		"playlist", target.ID,
		"added", result.Added,
		"skipped", result.Skipped,
		"reused", reused)
	return result, nil
}

// findOrCreate returns the user's existing playlist with the exact name, or
// creates a new private one. The liked-songs pseudo-playlist is never a
// reuse candidate.
func (e *Engine) findOrCreate(ctx context.Context, name, description string) (*models.SourcePlaylist, bool, error) {
	playlists, err := e.catalog.ListPlaylists(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range playlists {
		if playlists[i].IsLiked() {
			continue
		}
		if playlists[i].Name == name {
			return &playlists[i], true, nil
		}
	}

	created, err := e.catalog.CreatePlaylist(ctx, name, description)
	if err != nil {
		return nil, false, err
	}
	return created, false, nil
}
