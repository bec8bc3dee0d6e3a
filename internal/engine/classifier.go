package engine

import (
	"sort"
	"strings"

	"github.com/desertthunder/vibes/internal/models"
	"github.com/desertthunder/vibes/internal/shared"
)

// matchVibe returns the URIs of tracks whose score against the profile
// meets the threshold, in set order. The threshold is inclusive. Tracks
// without audio features never match regardless of threshold.
func matchVibe(set *models.TrackSet, profile models.VibeProfile, threshold float64) []string {
	var uris []string
	for i := 0; i < set.Len(); i++ {
		track := set.At(i)
		if track.Features == nil {
			continue
		}
		if profile.Score(*track.Features) >= threshold {
			uris = append(uris, track.URI)
		}
	}
	return uris
}

// FilterTracksByGenre returns the URIs of tracks carrying the genre,
// matched case-insensitively, in track order.
func FilterTracksByGenre(tracks []models.Track, genre string) []string {
	want := strings.ToLower(strings.TrimSpace(genre))
	if want == "" {
		return nil
	}
	var uris []string
	for _, track := range tracks {
		for _, g := range track.Genres {
			if g == want {
				uris = append(uris, track.URI)
				break
			}
		}
	}
	return uris
}

// ProfilesFromConfig merges configured vibe overrides into the built-in
// profiles. Overrides for known vibe names replace the named feature
// targets; unknown names define new profiles with their targets in sorted
// feature order so scoring stays deterministic.
func ProfilesFromConfig(overrides map[string]map[string]shared.VibeTargetConfig) []models.VibeProfile {
	profiles := models.DefaultVibeProfiles()
	if len(overrides) == 0 {
		return profiles
	}

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		targets := make(map[string]models.FeatureTarget, len(overrides[name]))
		for feature, t := range overrides[name] {
			feature = strings.ToLower(strings.TrimSpace(feature))
			if feature == "" {
				continue
			}
			targets[feature] = models.FeatureTarget{
				Feature:   feature,
				Weight:    t.Weight,
				Ideal:     t.Ideal,
				Tolerance: t.Tolerance,
			}
		}
		if len(targets) == 0 {
			continue
		}

		replaced := false
		for i := range profiles {
			if strings.EqualFold(profiles[i].Name, name) {
				profiles[i] = profiles[i].Override(targets)
				replaced = true
				break
			}
		}
		if replaced {
			continue
		}

		profile := models.VibeProfile{Name: strings.ToLower(name)}
		features := make([]string, 0, len(targets))
		for feature := range targets {
			features = append(features, feature)
		}
		sort.Strings(features)
		for _, feature := range features {
			profile.Targets = append(profile.Targets, targets[feature])
		}
		profiles = append(profiles, profile)
	}
	return profiles
}
