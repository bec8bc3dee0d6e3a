package engine

import (
	"math"
	"sort"

	"github.com/desertthunder/vibes/internal/models"
)

// computeMetrics summarizes the set. Feature means cover only tracks that
// carry audio features and are rounded for presentation, two decimal places
// for the unit-interval features and one for tempo. When no track has
// features the mean fields stay nil.
func computeMetrics(set *models.TrackSet, index *models.GenreIndex) models.AggregateMetrics {
	metrics := models.AggregateMetrics{
		TotalTracks:   set.Len(),
		UniqueArtists: len(set.ArtistIDs()),
	}
	if index != nil {
		metrics.TotalGenres = index.Len()
	}

	var energy, valence, dance, tempo, acoustic, instrumental float64
	count := 0
	for i := 0; i < set.Len(); i++ {
		f := set.At(i).Features
		if f == nil {
			continue
		}
		count++
		energy += f.Energy
		valence += f.Valence
		dance += f.Danceability
		tempo += f.Tempo
		acoustic += f.Acousticness
		instrumental += f.Instrumentalness
	}

	metrics.TracksWithFeatures = count
	if count == 0 {
		return metrics
	}

	n := float64(count)
	metrics.AvgEnergy = round2(energy / n)
	metrics.AvgValence = round2(valence / n)
	metrics.AvgDanceability = round2(dance / n)
	metrics.AvgTempo = round1(tempo / n)
	metrics.AvgAcousticness = round2(acoustic / n)
	metrics.AvgInstrumentalness = round2(instrumental / n)
	return metrics
}

// genreCounts ranks the index's genres by track count, most common first,
// ties broken alphabetically.
func genreCounts(index *models.GenreIndex) []models.GenreCount {
	if index == nil || index.Len() == 0 {
		return []models.GenreCount{}
	}
	counts := make([]models.GenreCount, 0, index.Len())
	for _, genre := range index.Genres() {
		counts = append(counts, models.GenreCount{Genre: genre, Count: len(index.TrackIDs(genre))})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Genre < counts[j].Genre
	})
	return counts
}

func round2(v float64) *float64 {
	r := math.Round(v*100) / 100
	return &r
}

func round1(v float64) *float64 {
	r := math.Round(v*10) / 10
	return &r
}
