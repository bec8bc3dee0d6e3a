package main

import (
	"context"
	"time"

	"github.com/desertthunder/vibes/internal/repositories"
	"github.com/urfave/cli/v3"
)

// cacheRepositories opens the cache database and returns repositories for both
// cached entity types. The database must already exist.
func (r *Runner) cacheRepositories() (*repositories.ArtistRepository, *repositories.FeatureRepository, error) {
	db, err := r.openCache(true)
	if err != nil {
		return nil, nil, err
	}

	ttl := time.Duration(r.config.Database.CacheTTLHours) * time.Hour
	return repositories.NewArtistRepository(db, ttl), repositories.NewFeatureRepository(db, ttl), nil
}

// CacheStatus reports how many artists and audio features are cached.
func (r *Runner) CacheStatus(ctx context.Context, cmd *cli.Command) error {
	r.applyVerbosity(cmd)
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	artists, features, err := r.cacheRepositories()
	if err != nil {
		return err
	}

	artistCount, err := artists.Count()
	if err != nil {
		return err
	}

	featureCount, err := features.Count()
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(map[string]any{
			"path":           r.config.Database.Path,
			"artists":        artistCount,
			"audio_features": featureCount,
		}, pretty)
	}

	r.writePlainHeader("Cache Status")
	r.writePlain("Database: %s\n", r.config.Database.Path)
	r.writePlain("Artists cached: %d\n", artistCount)
	r.writePlain("Audio features cached: %d\n", featureCount)
	return nil
}

// CacheClear deletes every cached artist and audio feature row.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	r.applyVerbosity(cmd)

	artists, features, err := r.cacheRepositories()
	if err != nil {
		return err
	}

	r.logger.Info("clearing cache", "path", r.config.Database.Path)

	if err := artists.Clear(); err != nil {
		return err
	}

	if err := features.Clear(); err != nil {
		return err
	}

	r.writePlain("✓ Cache cleared\n")
	return nil
}
