package engine

import (
	"testing"

	"github.com/desertthunder/vibes/internal/models"
)

func TestComputeMetrics(t *testing.T) {
	t.Run("Counts Tracks Artists And Genres", func(t *testing.T) {
		set := models.NewTrackSet()
		set.Add(track("t1", "a1", "a2"))
		set.Add(track("t2", "a1"))
		index := models.NewGenreIndex()
		index.Add("rock", "t1")
		index.Add("pop", "t2")

		m := computeMetrics(set, index)
		if m.TotalTracks != 2 {
			t.Errorf("expected 2 tracks, got %d", m.TotalTracks)
		}
		if m.UniqueArtists != 2 {
			t.Errorf("expected 2 unique artists, got %d", m.UniqueArtists)
		}
		if m.TotalGenres != 2 {
			t.Errorf("expected 2 genres, got %d", m.TotalGenres)
		}
	})

	t.Run("Nil Index Means No Genres", func(t *testing.T) {
		set := models.NewTrackSet()
		set.Add(track("t1", "a1"))

		m := computeMetrics(set, nil)
		if m.TotalGenres != 0 {
			t.Errorf("expected 0 genres, got %d", m.TotalGenres)
		}
	})

	t.Run("No Features Leaves Means Unset", func(t *testing.T) {
		set := models.NewTrackSet()
		set.Add(track("t1", "a1"))
		set.Add(track("t2", "a2"))

		m := computeMetrics(set, nil)
		if m.TracksWithFeatures != 0 {
			t.Errorf("expected 0 tracks with features, got %d", m.TracksWithFeatures)
		}
		if m.AvgEnergy != nil || m.AvgValence != nil || m.AvgTempo != nil {
			t.Error("expected mean fields to stay unset")
		}
	})

	t.Run("Rounds Means For Presentation", func(t *testing.T) {
		set := models.NewTrackSet()
		set.Add(featured("t1", models.AudioFeatures{Energy: 1.0 / 3.0, Tempo: 100.04}))
		set.Add(featured("t2", models.AudioFeatures{Energy: 2.0 / 3.0, Tempo: 100.04}))

		m := computeMetrics(set, nil)
		if m.AvgEnergy == nil || *m.AvgEnergy != 0.5 {
			t.Errorf("expected avg energy 0.5, got %v", m.AvgEnergy)
		}
		if m.AvgTempo == nil || *m.AvgTempo != 100.0 {
			t.Errorf("expected avg tempo rounded to 100.0, got %v", m.AvgTempo)
		}
	})
}

func TestGenreCounts(t *testing.T) {
	t.Run("Orders By Count Then Name", func(t *testing.T) {
		index := models.NewGenreIndex()
		index.Add("rock", "t1")
		index.Add("rock", "t2")
		index.Add("ambient", "t3")
		index.Add("pop", "t1")
		index.Add("pop", "t3")

		counts := genreCounts(index)
		want := []models.GenreCount{
			{Genre: "pop", Count: 2},
			{Genre: "rock", Count: 2},
			{Genre: "ambient", Count: 1},
		}
		if len(counts) != len(want) {
			t.Fatalf("expected %d genres, got %d", len(want), len(counts))
		}
		for i := range want {
			if counts[i] != want[i] {
				t.Errorf("position %d: expected %+v, got %+v", i, want[i], counts[i])
			}
		}
	})

	t.Run("Empty Index Yields Empty Slice", func(t *testing.T) {
		counts := genreCounts(models.NewGenreIndex())
		if counts == nil || len(counts) != 0 {
			t.Errorf("expected empty slice, got %v", counts)
		}
		counts = genreCounts(nil)
		if counts == nil || len(counts) != 0 {
			t.Errorf("expected empty slice for nil index, got %v", counts)
		}
	})
}
