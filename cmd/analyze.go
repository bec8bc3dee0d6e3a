package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/vibes/internal/formatter"
	"github.com/desertthunder/vibes/internal/models"
	"github.com/desertthunder/vibes/internal/shared"
	"github.com/urfave/cli/v3"
)

// Analyze merges the given playlists into a deduplicated track list and reports
// aggregate metrics and genre counts. With --export the analysis is written to
// disk instead of rendered.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	r.applyVerbosity(cmd)
	playlistIDs := cmd.StringSlice("playlist")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	trackLimit := int(cmd.Int("tracks"))
	exportFormat := cmd.String("export")
	outputPath := cmd.String("output")

	eng, err := r.buildEngine(ctx, 0)
	if err != nil {
		return err
	}

	r.logger.Info("analyzing playlists", "sources", len(playlistIDs))

	plain := !useJSON && exportFormat == ""
	progressCh, done := r.watchProgress(plain)
	analysis, err := eng.Analyze(ctx, progressCh, playlistIDs)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if exportFormat != "" {
		return r.exportAnalysis(ctx, analysis, exportFormat, outputPath)
	}

	if useJSON {
		return r.writeJSON(analysis, pretty)
	}

	r.writePlain("\n")
	r.renderer.Analysis(analysis, trackLimit)
	return nil
}

// exportAnalysis writes an analysis to disk in the requested format.
func (r *Runner) exportAnalysis(ctx context.Context, analysis *models.Analysis, format, outputPath string) error {
	switch strings.ToLower(format) {
	case "csv":
		result, err := formatter.WriteCSVExport(analysis, outputPath)
		if err != nil {
			return fmt.Errorf("failed to export CSV: %w", err)
		}
		r.writePlain("✓ Exported %s and %s\n", result.TracksFile, result.SummaryFile)
	case "markdown", "md":
		result, err := formatter.WriteMarkdownExport(analysis, outputPath, r.coverImageURL(ctx, analysis))
		if err != nil {
			return fmt.Errorf("failed to export markdown: %w", err)
		}
		r.writePlain("✓ Exported %s\n", strings.Join(result.Files, ", "))
	case "text", "txt":
		path, err := formatter.WriteTextExport(analysis, outputPath)
		if err != nil {
			return fmt.Errorf("failed to export text: %w", err)
		}
		r.writePlain("✓ Exported %s\n", path)
	case "json":
		path, err := formatter.WriteJSONExport(analysis, outputPath)
		if err != nil {
			return fmt.Errorf("failed to export JSON: %w", err)
		}
		r.writePlain("✓ Exported %s\n", path)
	default:
		return fmt.Errorf("%w: unknown export format %q (expected csv, markdown, text, or json)", shared.ErrInvalidArgument, format)
	}

	return nil
}

// coverImageURL returns the source playlist's artwork when the analysis covers
// exactly one playlist. The markdown export proceeds without a cover when the
// lookup fails.
func (r *Runner) coverImageURL(ctx context.Context, analysis *models.Analysis) string {
	if r.catalog == nil || len(analysis.PlaylistIDs) != 1 {
		return ""
	}

	playlists, err := r.catalog.ListPlaylists(ctx)
	if err != nil {
		r.logger.Debug("skipping cover image", "error", err)
		return ""
	}

	for _, playlist := range playlists {
		if playlist.ID == analysis.PlaylistIDs[0] {
			return playlist.ImageURL
		}
	}
	return ""
}
