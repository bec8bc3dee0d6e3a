package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/vibes/internal/engine"
	"github.com/desertthunder/vibes/internal/models"
)

// topGenreCount caps the genre listing in analysis summaries.
const topGenreCount = 10

// Renderer writes human-readable command output styled with the package [Palette].
type Renderer struct {
	out    io.Writer
	styles *Palette
}

// NewRenderer creates a Renderer writing to out, defaulting to [os.Stdout]
// when out is nil.
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out, styles: styles}
}

// Playlists renders a playlist listing with ids and track counts as
// secondary text.
func (r *Renderer) Playlists(playlists []models.SourcePlaylist) {
	fmt.Fprintln(r.out, r.styles.Title(fmt.Sprintf("Playlists (%d)", len(playlists))))
	for i, pl := range playlists {
		fmt.Fprintf(r.out, "%2d. %s %s\n", i+1, pl.Name, r.styles.Help(fmt.Sprintf("(%s, %d tracks)", pl.ID, pl.TrackCount)))
	}
}

// Analysis renders an analysis summary followed by up to limit tracks.
// A non-positive limit renders every track.
func (r *Renderer) Analysis(a *models.Analysis, limit int) {
	fmt.Fprintln(r.out, r.styles.Title("Playlist Analysis"))
	fmt.Fprintf(r.out, "Sources: %s\n", strings.Join(a.PlaylistIDs, ", "))

	m := a.Metrics
	fmt.Fprintf(r.out, "Tracks: %d | Artists: %d | Genres: %d | With features: %d\n",
		m.TotalTracks, m.UniqueArtists, m.TotalGenres, m.TracksWithFeatures)

	if m.TracksWithFeatures > 0 {
		fmt.Fprintln(r.out)
		r.mean("Energy", m.AvgEnergy, "")
		r.mean("Valence", m.AvgValence, "")
		r.mean("Danceability", m.AvgDanceability, "")
		r.mean("Tempo", m.AvgTempo, " BPM")
		r.mean("Acousticness", m.AvgAcousticness, "")
		r.mean("Instrumentalness", m.AvgInstrumentalness, "")
	}

	if len(a.GenreCounts) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, r.styles.Title("Top Genres"))
		for i, gc := range a.GenreCounts {
			if i == topGenreCount {
				break
			}
			fmt.Fprintf(r.out, "%2d. %s %s\n", i+1, gc.Genre, r.styles.Help(fmt.Sprintf("(%d tracks)", gc.Count)))
		}
	}

	if limit <= 0 || limit > len(a.Tracks) {
		limit = len(a.Tracks)
	}
	if limit > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, r.styles.Title("Tracks"))
		for i := 0; i < limit; i++ {
			track := a.Tracks[i]
			fmt.Fprintf(r.out, "%2d. %s - %s\n", i+1, strings.Join(track.ArtistNames, ", "), track.Name)
		}
		if rest := len(a.Tracks) - limit; rest > 0 {
			fmt.Fprintln(r.out, r.styles.Help(fmt.Sprintf("... and %d more", rest)))
		}
	}
}

// Profiles renders the available vibe profiles and their feature targets.
func (r *Renderer) Profiles(profiles []models.VibeProfile) {
	fmt.Fprintln(r.out, r.styles.Title(fmt.Sprintf("Vibe Profiles (%d)", len(profiles))))
	for _, p := range profiles {
		fmt.Fprintln(r.out, r.styles.OK(p.Name))
		for _, target := range p.Targets {
			fmt.Fprintf(r.out, "  %-16s ideal %.2f, tolerance %.2f, weight %.1f\n",
				target.Feature, target.Ideal, target.Tolerance, target.Weight)
		}
	}
}

// Materialized renders the outcome of a playlist creation run.
func (r *Renderer) Materialized(result *engine.MaterializeResult) {
	if result.NoOp {
		fmt.Fprintln(r.out, r.styles.Warn(result.Message))
		return
	}
	fmt.Fprintln(r.out, r.styles.OK(fmt.Sprintf("✓ %s", result.Message)))
	fmt.Fprintf(r.out, "Playlist: %s %s\n", result.PlaylistName, r.styles.Help(fmt.Sprintf("(%s)", result.PlaylistID)))
	if result.Reused {
		fmt.Fprintln(r.out, r.styles.Help("Reused an existing playlist with the same name"))
	}
}

// Progress renders a single progress update as a phase-tagged line.
func (r *Renderer) Progress(update engine.ProgressUpdate) {
	fmt.Fprintf(r.out, "%s %s\n", r.styles.Help(update.Phase.String()), update.Message)
}

// Watch drains updates from ch, rendering each one. The returned channel
// closes once ch is closed and every update has been written.
func (r *Renderer) Watch(ch <-chan engine.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range ch {
			r.Progress(update)
		}
	}()
	return done
}

// Error renders err as a styled error line.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.out, r.styles.Err(fmt.Sprintf("Error: %v", err)))
}

func (r *Renderer) mean(label string, value *float64, suffix string) {
	if value == nil {
		return
	}
	fmt.Fprintf(r.out, "Avg %s: %s%s\n", label, strconv.FormatFloat(*value, 'f', -1, 64), suffix)
}
