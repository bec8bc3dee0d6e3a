package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vibes/internal/engine"
	"github.com/desertthunder/vibes/internal/shared"
	"github.com/urfave/cli/v3"
)

// VibeList lists the configured vibe profiles and their feature targets.
func (r *Runner) VibeList(ctx context.Context, cmd *cli.Command) error {
	r.applyVerbosity(cmd)
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	profiles := engine.ProfilesFromConfig(r.config.Vibes)

	if useJSON {
		return r.writeJSON(profiles, pretty)
	}

	r.renderer.Profiles(profiles)
	return nil
}

// VibeCreate scores the merged tracks against the named vibe profile and
// materializes a playlist from the matches.
func (r *Runner) VibeCreate(ctx context.Context, cmd *cli.Command) error {
	r.applyVerbosity(cmd)
	vibe := cmd.StringArg("vibe")
	playlistIDs := cmd.StringSlice("playlist")
	threshold := float64(cmd.Float("threshold"))
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if vibe == "" {
		return fmt.Errorf("%w: vibe name is required", shared.ErrMissingArgument)
	}

	eng, err := r.buildEngine(ctx, threshold)
	if err != nil {
		return err
	}

	r.logger.Info("creating vibe playlist", "vibe", vibe, "sources", len(playlistIDs))

	progressCh, done := r.watchProgress(!useJSON)
	result, err := eng.CreateVibePlaylist(ctx, progressCh, vibe, playlistIDs)
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
