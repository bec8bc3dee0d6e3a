// package engine implements playlist aggregation and vibe classification.
//
// The core abstraction is Engine, which orchestrates multi-playlist analysis:
// fetching and merging tracks, resolving genres through artist metadata,
// enriching tracks with audio features, and materializing result playlists.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibes/internal/models"
	"github.com/desertthunder/vibes/internal/services"
	"github.com/desertthunder/vibes/internal/shared"
)

// ArtistCache is the engine's view of the artist metadata cache. Get returns
// cached artists keyed by id plus the ids it could not serve; implementations
// decide freshness. [repositories.ArtistRepository] satisfies this.
type ArtistCache interface {
	Get(ids []string) (map[string]models.Artist, []string, error)
	Put(artists []models.Artist) error
}

// FeatureCache is the engine's view of the audio-feature cache.
// [repositories.FeatureRepository] satisfies this.
type FeatureCache interface {
	Get(ids []string) (map[string]models.AudioFeatures, []string, error)
	Put(features map[string]models.AudioFeatures) error
}

// Opts contains optional Engine dependencies and tuning.
type Opts struct {
	ArtistCache  ArtistCache          // Artist metadata cache (nil disables caching)
	FeatureCache FeatureCache         // Audio feature cache (nil disables caching)
	Profiles     []models.VibeProfile // Vibe profiles (default: built-in profiles)
	Threshold    float64              // Inclusive vibe match cutoff (default: 0.6)
	Workers      int                  // Concurrent playlist fetches (default: 4, max: 10)
	Logger       *log.Logger
}

// Engine orchestrates playlist aggregation, vibe classification, and
// playlist materialization against a catalog provider.
type Engine struct {
	catalog   services.Catalog
	artists   ArtistCache
	features  FeatureCache
	profiles  []models.VibeProfile
	threshold float64
	workers   int
	logger    *log.Logger
}

// MaterializeResult reports the outcome of a playlist materialization.
// NoOp is true when nothing matched and no playlist was touched.
type MaterializeResult struct {
	PlaylistID   string `json:"playlist_id,omitempty"`
	PlaylistName string `json:"playlist_name,omitempty"`
	Added        int    `json:"added"`
	Skipped      int    `json:"skipped"`
	Reused       bool   `json:"reused,omitempty"`
	NoOp         bool   `json:"no_op,omitempty"`
	Message      string `json:"message"`
}

// New creates an Engine backed by the given catalog.
func New(catalog services.Catalog, opts Opts) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Workers > 10 {
		opts.Workers = 10
	}
	if opts.Threshold <= 0 || opts.Threshold > 1 {
		opts.Threshold = models.DefaultVibeThreshold
	}
	if len(opts.Profiles) == 0 {
		opts.Profiles = models.DefaultVibeProfiles()
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{
		catalog:   catalog,
		artists:   opts.ArtistCache,
		features:  opts.FeatureCache,
		profiles:  opts.Profiles,
		threshold: opts.Threshold,
		workers:   opts.Workers,
		logger:    logger,
	}
}

// Profiles returns the vibe profiles the engine scores against.
func (e *Engine) Profiles() []models.VibeProfile {
	return e.profiles
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Analyze fetches the given playlists, merges their tracks into a
// deduplicated set, resolves genres through artists, enriches tracks with
// audio features, and computes aggregate metrics.
//
// Tracks appearing in multiple playlists are counted once, keeping
// first-seen order across the requested playlist sequence. Auth, rate-limit,
// and availability failures abort the run; per-id gaps (unclassified
// artists, tracks without audio analysis) degrade the affected tracks
// instead of failing.
func (e *Engine) Analyze(ctx context.Context, progress chan<- ProgressUpdate, playlistIDs []string) (*models.Analysis, error) {
	if err := validatePlaylistIDs(playlistIDs); err != nil {
		return nil, err
	}

	set, err := e.mergePlaylists(ctx, progress, playlistIDs)
	if err != nil {
		return nil, err
	}

	index, err := e.resolveGenres(ctx, progress, set)
	if err != nil {
		return nil, err
	}

	if err := e.enrichFeatures(ctx, progress, set); err != nil {
		return nil, err
	}

	e.sendProgress(progress, computeMetricsUpdate())
	tracks := set.Tracks()
	if tracks == nil {
		tracks = []models.Track{}
	}
	result := &models.Analysis{
		RequestID:   shared.GenerateID(),
		PlaylistIDs: playlistIDs,
		Metrics:     computeMetrics(set, index),
		GenreCounts: genreCounts(index),
		Tracks:      tracks,
	}

	e.logger.Info("analysis complete",
		"request_id", result.RequestID,
		"tracks", result.Metrics.TotalTracks,
		"artists", result.Metrics.UniqueArtists,
		"genres", result.Metrics.TotalGenres)
	return result, nil
}

func validatePlaylistIDs(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one playlist id is required", shared.ErrValidation)
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: playlist id must not be empty", shared.ErrValidation)
		}
	}
	return nil
}

// titleWords upper-cases the first letter of each space-separated word.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
