package models

import (
	"reflect"
	"testing"
)

func TestTrackSet(t *testing.T) {
	t.Run("Add", func(t *testing.T) {
		t.Run("keeps first occurrence", func(t *testing.T) {
			set := NewTrackSet()

			if !set.Add(Track{ID: "t1", Name: "First"}) {
				t.Error("expected first add to succeed")
			}
			if set.Add(Track{ID: "t1", Name: "Duplicate"}) {
				t.Error("expected duplicate add to be rejected")
			}

			if set.Len() != 1 {
				t.Fatalf("expected 1 track, got %d", set.Len())
			}
			if set.Tracks()[0].Name != "First" {
				t.Errorf("expected first occurrence to win, got %s", set.Tracks()[0].Name)
			}
		})

		t.Run("rejects empty IDs", func(t *testing.T) {
			set := NewTrackSet()
			if set.Add(Track{Name: "no id"}) {
				t.Error("expected track without ID to be rejected")
			}
			if set.Len() != 0 {
				t.Errorf("expected empty set, got %d tracks", set.Len())
			}
		})

		t.Run("preserves insertion order", func(t *testing.T) {
			set := NewTrackSet()
			for _, id := range []string{"c", "a", "b"} {
				set.Add(Track{ID: id})
			}

			var got []string
			for _, tr := range set.Tracks() {
				got = append(got, tr.ID)
			}
			if !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
				t.Errorf("expected insertion order preserved, got %v", got)
			}
		})

		t.Run("never holds two tracks with one ID", func(t *testing.T) {
			set := NewTrackSet()
			ids := []string{"a", "b", "a", "c", "b", "a"}
			for _, id := range ids {
				set.Add(Track{ID: id})
			}

			seen := map[string]bool{}
			for _, tr := range set.Tracks() {
				if seen[tr.ID] {
					t.Fatalf("duplicate id %s in set", tr.ID)
				}
				seen[tr.ID] = true
			}
			if set.Len() != 3 {
				t.Errorf("expected 3 distinct tracks, got %d", set.Len())
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		set := NewTrackSet()
		set.Add(Track{ID: "t1", Name: "Song"})

		track, ok := set.Get("t1")
		if !ok {
			t.Fatal("expected track to be found")
		}
		if track.Name != "Song" {
			t.Errorf("expected 'Song', got %s", track.Name)
		}

		if _, ok := set.Get("missing"); ok {
			t.Error("expected missing ID to not be found")
		}
	})

	t.Run("At allows enrichment", func(t *testing.T) {
		set := NewTrackSet()
		set.Add(Track{ID: "t1"})

		set.At(0).Genres = []string{"rock"}
		set.At(0).Features = &AudioFeatures{Energy: 0.8}

		track, _ := set.Get("t1")
		if len(track.Genres) != 1 || track.Genres[0] != "rock" {
			t.Errorf("expected genres to stick, got %v", track.Genres)
		}
		if track.Features == nil || track.Features.Energy != 0.8 {
			t.Error("expected features to stick")
		}
	})

	t.Run("ArtistIDs", func(t *testing.T) {
		set := NewTrackSet()
		set.Add(Track{ID: "t1", ArtistIDs: []string{"a2", "a1"}})
		set.Add(Track{ID: "t2", ArtistIDs: []string{"a1", "a3", ""}})

		got := set.ArtistIDs()
		want := []string{"a2", "a1", "a3"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
}

func TestGenreIndex(t *testing.T) {
	t.Run("accumulates track ids per genre", func(t *testing.T) {
		idx := NewGenreIndex()
		idx.Add("rock", "t1")
		idx.Add("pop", "t2")
		idx.Add("rock", "t3")

		if idx.Len() != 2 {
			t.Fatalf("expected 2 genres, got %d", idx.Len())
		}
		if !reflect.DeepEqual(idx.Genres(), []string{"rock", "pop"}) {
			t.Errorf("expected first-seen genre order, got %v", idx.Genres())
		}
		if !reflect.DeepEqual(idx.TrackIDs("rock"), []string{"t1", "t3"}) {
			t.Errorf("expected ordered rock tracks, got %v", idx.TrackIDs("rock"))
		}
	})

	t.Run("ignores empty keys", func(t *testing.T) {
		idx := NewGenreIndex()
		idx.Add("", "t1")
		idx.Add("rock", "")

		if idx.Len() != 0 {
			t.Errorf("expected empty index, got %d genres", idx.Len())
		}
	})

	t.Run("every genre maps to a non-empty id list", func(t *testing.T) {
		idx := NewGenreIndex()
		idx.Add("rock", "t1")
		idx.Add("pop", "t2")
		idx.Add("jazz", "t3")

		for _, genre := range idx.Genres() {
			if len(idx.TrackIDs(genre)) == 0 {
				t.Errorf("genre %s has no tracks", genre)
			}
		}
	})
}

func TestAudioFeaturesValue(t *testing.T) {
	f := AudioFeatures{
		Energy:           0.1,
		Valence:          0.2,
		Danceability:     0.3,
		Tempo:            120,
		Acousticness:     0.4,
		Instrumentalness: 0.5,
	}

	cases := map[string]float64{
		"energy":           0.1,
		"valence":          0.2,
		"danceability":     0.3,
		"tempo":            120,
		"acousticness":     0.4,
		"instrumentalness": 0.5,
	}
	for name, want := range cases {
		got, ok := f.Value(name)
		if !ok {
			t.Errorf("expected %s to be known", name)
		}
		if got != want {
			t.Errorf("%s: expected %v, got %v", name, want, got)
		}
	}

	if _, ok := f.Value("loudness"); ok {
		t.Error("expected unknown feature to report false")
	}
}

func TestVibeProfile(t *testing.T) {
	t.Run("Score", func(t *testing.T) {
		t.Run("full match at ideal", func(t *testing.T) {
			p := VibeProfile{Name: "test", Targets: []FeatureTarget{
				{Feature: "energy", Weight: 1, Ideal: 0.5, Tolerance: 0.25},
			}}

			if got := p.Score(AudioFeatures{Energy: 0.5}); got != 1 {
				t.Errorf("expected score 1 at ideal, got %v", got)
			}
		})

		t.Run("zero beyond tolerance", func(t *testing.T) {
			p := VibeProfile{Name: "test", Targets: []FeatureTarget{
				{Feature: "energy", Weight: 1, Ideal: 0.25, Tolerance: 0.25},
			}}

			if got := p.Score(AudioFeatures{Energy: 0.75}); got != 0 {
				t.Errorf("expected score 0 beyond tolerance, got %v", got)
			}
		})

		t.Run("weights normalize", func(t *testing.T) {
			p := VibeProfile{Name: "test", Targets: []FeatureTarget{
				{Feature: "energy", Weight: 3, Ideal: 0.5, Tolerance: 0.5},
				{Feature: "valence", Weight: 1, Ideal: 0.25, Tolerance: 0.25},
			}}

			// Energy at ideal scores 1, valence beyond tolerance scores 0.
			got := p.Score(AudioFeatures{Energy: 0.5, Valence: 0.75})
			if got != 0.75 {
				t.Errorf("expected 0.75, got %v", got)
			}
		})

		t.Run("skips malformed targets", func(t *testing.T) {
			p := VibeProfile{Name: "test", Targets: []FeatureTarget{
				{Feature: "loudness", Weight: 1, Ideal: 0.5, Tolerance: 0.5},
				{Feature: "energy", Weight: 0, Ideal: 0.5, Tolerance: 0.5},
				{Feature: "valence", Weight: 1, Ideal: 0.5, Tolerance: 0},
			}}

			if got := p.Score(AudioFeatures{Energy: 0.5, Valence: 0.5}); got != 0 {
				t.Errorf("expected 0 with no usable targets, got %v", got)
			}
		})

		t.Run("deterministic across calls", func(t *testing.T) {
			p := DefaultVibeProfiles()[1]
			f := AudioFeatures{Energy: 0.31, Valence: 0.47, Danceability: 0.52}

			first := p.Score(f)
			for i := 0; i < 100; i++ {
				if got := p.Score(f); got != first {
					t.Fatalf("score changed between runs: %v vs %v", first, got)
				}
			}
		})
	})

	t.Run("Override", func(t *testing.T) {
		base := VibeProfile{Name: "chill", Targets: []FeatureTarget{
			{Feature: "energy", Weight: 1, Ideal: 0.3, Tolerance: 0.4},
			{Feature: "valence", Weight: 1, Ideal: 0.5, Tolerance: 0.35},
		}}

		t.Run("replaces matching targets in place", func(t *testing.T) {
			out := base.Override(map[string]FeatureTarget{
				"energy": {Weight: 2, Ideal: 0.2, Tolerance: 0.3},
			})

			if out.Targets[0].Feature != "energy" || out.Targets[0].Weight != 2 {
				t.Errorf("expected energy target replaced, got %+v", out.Targets[0])
			}
			if out.Targets[1].Weight != 1 {
				t.Errorf("expected valence target untouched, got %+v", out.Targets[1])
			}
		})

		t.Run("appends unknown features", func(t *testing.T) {
			out := base.Override(map[string]FeatureTarget{
				"tempo": {Weight: 1, Ideal: 100, Tolerance: 40},
			})

			last := out.Targets[len(out.Targets)-1]
			if last.Feature != "tempo" {
				t.Errorf("expected tempo appended, got %+v", last)
			}
		})

		t.Run("empty overrides return profile unchanged", func(t *testing.T) {
			out := base.Override(nil)
			if !reflect.DeepEqual(out, base) {
				t.Errorf("expected unchanged profile, got %+v", out)
			}
		})
	})

	t.Run("FindVibeProfile", func(t *testing.T) {
		profiles := DefaultVibeProfiles()

		for _, name := range []string{"depressy", "chill", "party", "intense"} {
			if _, ok := FindVibeProfile(profiles, name); !ok {
				t.Errorf("expected built-in profile %s", name)
			}
		}

		if _, ok := FindVibeProfile(profiles, " Party "); !ok {
			t.Error("expected case-insensitive, trimmed lookup")
		}

		if _, ok := FindVibeProfile(profiles, "unknown"); ok {
			t.Error("expected unknown vibe to not be found")
		}
	})
}
