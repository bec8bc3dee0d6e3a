package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vibes/internal/shared"
	"github.com/urfave/cli/v3"
)

// Playlists lists the user's playlists, including the liked songs pseudo-playlist.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	r.applyVerbosity(cmd)
	limit := int(cmd.Int("limit"))
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	catalog, err := r.requireCatalog(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("listing playlists", "catalog", catalog.Name())

	playlists, err := catalog.ListPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.renderer.Playlists(playlists)
	return nil
}

// Delete removes a playlist from the user's library.
func (r *Runner) Delete(ctx context.Context, cmd *cli.Command) error {
	r.applyVerbosity(cmd)
	playlistID := cmd.StringArg("id")

	if playlistID == "" {
		return fmt.Errorf("%w: playlist ID is required", shared.ErrMissingArgument)
	}

	eng, err := r.buildEngine(ctx, 0)
	if err != nil {
		return err
	}

	r.logger.Info("deleting playlist", "id", playlistID)

	progressCh, done := r.watchProgress(true)
	err = eng.DeletePlaylist(ctx, progressCh, playlistID)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("✓ Playlist %s removed from library\n", playlistID)
	return nil
}
