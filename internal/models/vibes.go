package models

import (
	"sort"
	"strings"
)

// DefaultVibeThreshold is the inclusive acceptance score for vibe matches.
const DefaultVibeThreshold = 0.6

// FeatureTarget describes one dimension of a vibe's target region in
// audio-feature space. A track feature at Ideal contributes a full Weight;
// the contribution decays linearly to zero at Tolerance distance.
type FeatureTarget struct {
	Feature   string  `json:"feature" toml:"feature"`
	Weight    float64 `json:"weight" toml:"weight"`
	Ideal     float64 `json:"ideal" toml:"ideal"`
	Tolerance float64 `json:"tolerance" toml:"tolerance"`
}

// VibeProfile is a named mood defined by per-feature targets.
// Profiles are static policy, not derived from user data.
type VibeProfile struct {
	Name    string          `json:"name"`
	Targets []FeatureTarget `json:"targets"`
}

// Score computes the weighted match score of the features against the
// profile, normalized to [0, 1]. Targets with a non-positive weight or
// tolerance, or naming an unknown feature, contribute nothing.
func (p VibeProfile) Score(f AudioFeatures) float64 {
	var total, sum float64
	for _, t := range p.Targets {
		if t.Weight <= 0 || t.Tolerance <= 0 {
			continue
		}
		v, ok := f.Value(t.Feature)
		if !ok {
			continue
		}
		total += t.Weight
		dist := v - t.Ideal
		if dist < 0 {
			dist = -dist
		}
		part := 1 - dist/t.Tolerance
		if part < 0 {
			part = 0
		}
		sum += t.Weight * part
	}
	if total == 0 {
		return 0
	}
	return sum / total
}

// Override replaces the targets named in overrides, keyed by feature,
// keeping the profile's target order. Unknown feature keys are appended.
func (p VibeProfile) Override(overrides map[string]FeatureTarget) VibeProfile {
	if len(overrides) == 0 {
		return p
	}
	out := VibeProfile{Name: p.Name, Targets: make([]FeatureTarget, 0, len(p.Targets))}
	replaced := make(map[string]bool)
	for _, t := range p.Targets {
		if o, ok := overrides[t.Feature]; ok {
			o.Feature = t.Feature
			out.Targets = append(out.Targets, o)
			replaced[t.Feature] = true
			continue
		}
		out.Targets = append(out.Targets, t)
	}
	// Appended targets follow a stable order so scoring stays deterministic.
	var extra []string
	for feature := range overrides {
		if !replaced[feature] {
			extra = append(extra, feature)
		}
	}
	sort.Strings(extra)
	for _, feature := range extra {
		o := overrides[feature]
		o.Feature = feature
		out.Targets = append(out.Targets, o)
	}
	return out
}

// DefaultVibeProfiles returns the built-in mood profiles.
//
// The ideals sit at the center of each mood's characteristic feature window
// and the tolerances reach a little past its edges, so tracks just outside
// a window can still match when their other features fit well.
func DefaultVibeProfiles() []VibeProfile {
	return []VibeProfile{
		{
			Name: "depressy",
			Targets: []FeatureTarget{
				{Feature: "valence", Weight: 1.5, Ideal: 0.2, Tolerance: 0.4},
				{Feature: "energy", Weight: 1.0, Ideal: 0.25, Tolerance: 0.45},
				{Feature: "danceability", Weight: 0.5, Ideal: 0.3, Tolerance: 0.45},
			},
		},
		{
			Name: "chill",
			Targets: []FeatureTarget{
				{Feature: "energy", Weight: 1.0, Ideal: 0.3, Tolerance: 0.4},
				{Feature: "valence", Weight: 1.0, Ideal: 0.5, Tolerance: 0.35},
				{Feature: "danceability", Weight: 0.5, Ideal: 0.35, Tolerance: 0.45},
			},
		},
		{
			Name: "party",
			Targets: []FeatureTarget{
				{Feature: "energy", Weight: 1.5, Ideal: 0.85, Tolerance: 0.35},
				{Feature: "danceability", Weight: 1.5, Ideal: 0.8, Tolerance: 0.4},
				{Feature: "valence", Weight: 1.0, Ideal: 0.8, Tolerance: 0.4},
			},
		},
		{
			Name: "intense",
			Targets: []FeatureTarget{
				{Feature: "energy", Weight: 2.0, Ideal: 0.9, Tolerance: 0.3},
				{Feature: "valence", Weight: 1.0, Ideal: 0.25, Tolerance: 0.45},
			},
		},
	}
}

// FindVibeProfile returns the profile with the given name, matched
// case-insensitively.
func FindVibeProfile(profiles []VibeProfile, name string) (VibeProfile, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range profiles {
		if strings.ToLower(p.Name) == name {
			return p, true
		}
	}
	return VibeProfile{}, false
}
