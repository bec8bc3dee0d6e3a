package engine

import (
	"context"
	"strings"

	"github.com/desertthunder/vibes/internal/models"
)

// resolveGenres populates each track's genre labels from its artists and
// builds the genre index for the set.
//
// Artist lookups consult the cache first; only misses reach the catalog.
// Cache failures degrade to a direct fetch, but a catalog failure aborts
// the run. Artists the catalog does not know stay unclassified and
// contribute no genres.
func (e *Engine) resolveGenres(ctx context.Context, progress chan<- ProgressUpdate, set *models.TrackSet) (*models.GenreIndex, error) {
	artistIDs := set.ArtistIDs()
	e.sendProgress(progress, resolveGenresUpdate(len(artistIDs)))

	genresByArtist, err := e.artistGenres(ctx, artistIDs)
	if err != nil {
		return nil, err
	}

	index := models.NewGenreIndex()
	for i := 0; i < set.Len(); i++ {
		track := set.At(i)
		track.Genres = trackGenres(track.ArtistIDs, genresByArtist)
		for _, genre := range track.Genres {
			index.Add(genre, track.ID)
		}
	}

	e.sendProgress(progress, genresResolvedUpdate(index.Len()))
	e.logger.Debug("resolved genres", "artists", len(artistIDs), "genres", index.Len())
	return index, nil
}

// artistGenres returns the genre labels for each artist id, consulting the
// cache before the catalog and writing fetched artists back to the cache.
func (e *Engine) artistGenres(ctx context.Context, ids []string) (map[string][]string, error) {
	genres := make(map[string][]string, len(ids))
	missing := ids

	if e.artists != nil {
		hits, misses, err := e.artists.Get(ids)
		if err != nil {
			e.logger.Warn("artist cache read failed", "err", err)
		} else {
			for id, artist := range hits {
				genres[id] = artist.Genres
			}
			missing = misses
		}
	}

	if len(missing) == 0 {
		return genres, nil
	}

	fetched, err := e.catalog.GetArtists(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, artist := range fetched {
		genres[artist.ID] = artist.Genres
	}

	if e.artists != nil && len(fetched) > 0 {
		if err := e.artists.Put(fetched); err != nil {
			e.logger.Warn("artist cache write failed", "err", err)
		}
	}
	return genres, nil
}

// trackGenres merges the normalized genre labels of the track's artists,
// deduplicated in first-seen order.
func trackGenres(artistIDs []string, genresByArtist map[string][]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, artistID := range artistIDs {
		for _, genre := range genresByArtist[artistID] {
			normalized := strings.ToLower(strings.TrimSpace(genre))
			if normalized == "" || seen[normalized] {
				continue
			}
			seen[normalized] = true
			out = append(out, normalized)
		}
	}
	return out
}
