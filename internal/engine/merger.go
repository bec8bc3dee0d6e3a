package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/desertthunder/vibes/internal/models"
	"github.com/desertthunder/vibes/internal/shared"
)

type playlistJob struct {
	index int
	id    string
}

type playlistResult struct {
	index  int
	id     string
	tracks []models.Track
	err    error
}

// mergePlaylists fetches every playlist's tracks through a bounded worker
// pool and merges them into a deduplicated set. Merge order is the requested
// playlist order regardless of fetch completion order, so repeated runs over
// the same sources produce the same set.
//
// A playlist the catalog no longer knows is skipped with a warning; any
// other fetch failure aborts the merge.
func (e *Engine) mergePlaylists(ctx context.Context, progress chan<- ProgressUpdate, ids []string) (*models.TrackSet, error) {
	e.sendProgress(progress, fetchPlaylistsUpdate(len(ids)))

	workers := e.workers
	if workers > len(ids) {
		workers = len(ids)
	}

	jobs := make(chan playlistJob, len(ids))
	results := make(chan playlistResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go e.fetchWorker(ctx, &wg, jobs, results)
	}

	for i, id := range ids {
		jobs <- playlistJob{index: i, id: id}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	slots := make([][]models.Track, len(ids))
	failures := make([]error, len(ids))
	completed := 0
	for res := range results {
		completed++
		if res.err != nil {
			if errors.Is(res.err, shared.ErrNotFound) {
				e.logger.Warn("playlist not found, skipping", "playlist", res.id)
				continue
			}
			failures[res.index] = res.err
			continue
		}
		slots[res.index] = res.tracks
		e.sendProgress(progress, playlistFetchedUpdate(completed, len(ids), res.id, len(res.tracks)))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range failures {
		if err != nil {
			return nil, err
		}
	}

	set := models.NewTrackSet()
	for _, tracks := range slots {
		for _, track := range tracks {
			set.Add(track)
		}
	}

	e.sendProgress(progress, mergeTracksUpdate(set.Len()))
	e.logger.Debug("merged playlists", "playlists", len(ids), "tracks", set.Len())
	return set, nil
}

// fetchWorker is a worker goroutine that fetches track listings from the
// jobs channel.
func (e *Engine) fetchWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan playlistJob, results chan<- playlistResult) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		tracks, err := e.catalog.ListPlaylistTracks(ctx, job.id)
		results <- playlistResult{index: job.index, id: job.id, tracks: tracks, err: err}
	}
}
