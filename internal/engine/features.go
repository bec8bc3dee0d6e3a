package engine

import (
	"context"

	"github.com/desertthunder/vibes/internal/models"
)

// enrichFeatures attaches audio features to every track the catalog has
// analysis for. Tracks without features keep a nil Features field; they are
// excluded from feature means and never match a vibe.
//
// Feature lookups consult the cache first; only misses reach the catalog.
// Cache failures degrade to a direct fetch, but a catalog failure aborts
// the run.
func (e *Engine) enrichFeatures(ctx context.Context, progress chan<- ProgressUpdate, set *models.TrackSet) error {
	ids := make([]string, 0, set.Len())
	for i := 0; i < set.Len(); i++ {
		ids = append(ids, set.At(i).ID)
	}
	e.sendProgress(progress, fetchFeaturesUpdate(len(ids)))

	features := make(map[string]models.AudioFeatures, len(ids))
	missing := ids

	if e.features != nil {
		hits, misses, err := e.features.Get(ids)
		if err != nil {
			e.logger.Warn("feature cache read failed", "err", err)
		} else {
			for id, f := range hits {
				features[id] = f
			}
			missing = misses
		}
	}

	if len(missing) > 0 {
		fetched, err := e.catalog.GetAudioFeatures(ctx, missing)
		if err != nil {
			return err
		}
		for id, f := range fetched {
			features[id] = f
		}
		if e.features != nil && len(fetched) > 0 {
			if err := e.features.Put(fetched); err != nil {
				e.logger.Warn("feature cache write failed", "err", err)
			}
		}
	}

	enriched := 0
	for i := 0; i < set.Len(); i++ {
		track := set.At(i)
		if f, ok := features[track.ID]; ok {
			value := f
			track.Features = &value
			enriched++
		}
	}

	e.sendProgress(progress, featuresFetchedUpdate(enriched, set.Len()))
	e.logger.Debug("enriched features", "tracks", set.Len(), "with_features", enriched)
	return nil
}
