package engine

import (
	"fmt"

	"github.com/desertthunder/vibes/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylists Phase = iota
	MergeTracks
	ResolveGenres
	FetchFeatures
	ComputeMetrics
	ClassifyVibe
	CreatePlaylist
	AddTracks
	DeletePlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylists:
		return "fetch_playlists"
	case MergeTracks:
		return "merge_tracks"
	case ResolveGenres:
		return "resolve_genres"
	case FetchFeatures:
		return "fetch_features"
	case ComputeMetrics:
		return "compute_metrics"
	case ClassifyVibe:
		return "classify_vibe"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	case DeletePlaylist:
		return "delete_playlist"
	default:
		return ""
	}
}

func fetchPlaylistsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Fetching %d source playlists...", total),
	}
}

func playlistFetchedUpdate(step, total int, id string, trackCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetched %s (%d tracks)", step, total, id, trackCount),
	}
}

func mergeTracksUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MergeTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Merged into %d unique tracks", count),
	}
}

func resolveGenresUpdate(artistCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveGenres,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Resolving genres for %d artists...", artistCount),
	}
}

func genresResolvedUpdate(genreCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveGenres,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Found %d genres", genreCount),
	}
}

func fetchFeaturesUpdate(trackCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFeatures,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Fetching audio features for %d tracks...", trackCount),
	}
}

func featuresFetchedUpdate(enriched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFeatures,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Audio features resolved for %d/%d tracks", enriched, total),
	}
}

func computeMetricsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ComputeMetrics,
		Step:    1,
		Total:   1,
		Message: "Computing aggregate metrics...",
	}
}

func classifyVibeUpdate(vibe string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ClassifyVibe,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Scoring tracks against vibe '%s'...", vibe),
	}
}

func vibeMatchedUpdate(vibe string, matched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ClassifyVibe,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Matched %d of %d tracks to '%s'", matched, total, vibe),
	}
}

func createPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Creating playlist '%s'...", name),
	}
}

func playlistCreatedUpdate(pl *models.SourcePlaylist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func playlistReusedUpdate(pl *models.SourcePlaylist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Reusing existing playlist: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func addTracksUpdate(added, skipped int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Added %d tracks (%d already present)", added, skipped),
	}
}

func deletePlaylistUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DeletePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Removing playlist %s from library...", id),
	}
}
