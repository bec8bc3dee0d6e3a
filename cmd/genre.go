package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vibes/internal/shared"
	"github.com/urfave/cli/v3"
)

// GenreList reports every genre found across the given playlists with the
// number of tracks resolved to it.
func (r *Runner) GenreList(ctx context.Context, cmd *cli.Command) error {
	r.applyVerbosity(cmd)
	playlistIDs := cmd.StringSlice("playlist")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	eng, err := r.buildEngine(ctx, 0)
	if err != nil {
		return err
	}

	r.logger.Info("listing genres", "sources", len(playlistIDs))

	progressCh, done := r.watchProgress(false)
	analysis, err := eng.Analyze(ctx, progressCh, playlistIDs)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(analysis.GenreCounts, pretty)
	}

	r.writePlain("Found %d genres across %d tracks:\n\n", len(analysis.GenreCounts), analysis.Metrics.TotalTracks)
	for i, gc := range analysis.GenreCounts {
		r.writePlain("%d. %s (%d tracks)\n", i+1, gc.Genre, gc.Count)
	}

	return nil
}

// GenreCreate builds a playlist of every merged track whose resolved genres
// include the given genre.
func (r *Runner) GenreCreate(ctx context.Context, cmd *cli.Command) error {
	r.applyVerbosity(cmd)
	genre := cmd.StringArg("genre")
	name := cmd.String("name")
	playlistIDs := cmd.StringSlice("playlist")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if genre == "" {
		return fmt.Errorf("%w: genre is required", shared.ErrMissingArgument)
	}

	eng, err := r.buildEngine(ctx, 0)
	if err != nil {
		return err
	}

	r.logger.Info("creating genre playlist", "genre", genre, "sources", len(playlistIDs))

	progressCh, done := r.watchProgress(!useJSON)
	result, err := eng.CreateGenrePlaylist(ctx, progressCh, genre, name, playlistIDs)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlain("\n")
	r.renderer.Materialized(result)
	return nil
}
