// package models defines the data model for the playlist aggregation engine
package models

// LikedPlaylistID is the reserved identifier for the user's saved-tracks
// pseudo-playlist. It is listed alongside regular playlists but fetched
// through the saved-tracks endpoint.
const LikedPlaylistID = "liked"

// LikedPlaylistImageURL is the artwork the catalog serves for saved tracks.
const LikedPlaylistImageURL = "https://misc.scdn.co/liked-songs/liked-songs-300.png"

// AudioFeatures holds the pre-computed perceptual scalars for a track.
// All values except Tempo are bounded to [0, 1]; Tempo is in BPM.
type AudioFeatures struct {
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Danceability     float64 `json:"danceability"`
	Tempo            float64 `json:"tempo"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
}

// Value returns the named feature scalar. The second return is false for
// feature names the model does not carry.
func (f AudioFeatures) Value(name string) (float64, bool) {
	switch name {
	case "energy":
		return f.Energy, true
	case "valence":
		return f.Valence, true
	case "danceability":
		return f.Danceability, true
	case "tempo":
		return f.Tempo, true
	case "acousticness":
		return f.Acousticness, true
	case "instrumentalness":
		return f.Instrumentalness, true
	default:
		return 0, false
	}
}

// Track is an immutable catalog entity identified by ID.
// Genres start empty and are populated by the genre resolver; Features stays
// nil for tracks the catalog has no audio analysis for.
type Track struct {
	ID          string         `json:"id"`
	URI         string         `json:"uri"`
	Name        string         `json:"name"`
	ArtistIDs   []string       `json:"artist_ids"`
	ArtistNames []string       `json:"artists"`
	ImageURL    string         `json:"image,omitempty"`
	Features    *AudioFeatures `json:"audio_features,omitempty"`
	Genres      []string       `json:"genres"`
}

// Artist is a catalog entity carrying the genre labels used for transitive
// track classification. Genres may be empty; many artists are unclassified.
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// User is the catalog account that owns created playlists.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SourcePlaylist is a playlist as listed by the catalog. The saved-tracks
// pseudo-playlist uses [LikedPlaylistID] and is modeled identically.
type SourcePlaylist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ImageURL   string `json:"image,omitempty"`
	TrackCount int    `json:"track_count"`
}

// IsLiked reports whether the playlist is the saved-tracks pseudo-playlist.
func (p SourcePlaylist) IsLiked() bool {
	return p.ID == LikedPlaylistID
}

// TrackSet is the deduplicated union of tracks from one or more source
// playlists. Insertion order is first-seen order across the requested
// playlist sequence; no two elements share an ID.
type TrackSet struct {
	tracks []Track
	index  map[string]int
}

// NewTrackSet creates an empty TrackSet.
func NewTrackSet() *TrackSet {
	return &TrackSet{index: make(map[string]int)}
}

// Add appends a track unless one with the same ID is already present.
// Returns true when the track was added, false when it was a duplicate.
func (s *TrackSet) Add(t Track) bool {
	if t.ID == "" {
		return false
	}
	if _, ok := s.index[t.ID]; ok {
		return false
	}
	s.index[t.ID] = len(s.tracks)
	s.tracks = append(s.tracks, t)
	return true
}

// Len returns the number of distinct tracks in the set.
func (s *TrackSet) Len() int {
	return len(s.tracks)
}

// At returns a pointer to the track at position i for in-place enrichment.
func (s *TrackSet) At(i int) *Track {
	return &s.tracks[i]
}

// Get returns the track with the given ID.
func (s *TrackSet) Get(id string) (*Track, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return &s.tracks[i], true
}

// Tracks returns the tracks in insertion order. The returned slice is the
// set's backing storage and must not be reordered by callers.
func (s *TrackSet) Tracks() []Track {
	return s.tracks
}

// ArtistIDs returns the distinct artist ids referenced by the set, in
// first-seen order.
func (s *TrackSet) ArtistIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, t := range s.tracks {
		for _, id := range t.ArtistIDs {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// GenreIndex maps lower-cased genre names to the ordered track ids carrying
// them. Tracks without genres are excluded from the index but remain in the
// TrackSet they came from.
type GenreIndex struct {
	order   []string
	byGenre map[string][]string
}

// NewGenreIndex creates an empty GenreIndex.
func NewGenreIndex() *GenreIndex {
	return &GenreIndex{byGenre: make(map[string][]string)}
}

// Add records that the track carries the genre. Genre keys are stored in
// first-seen order; track ids accumulate in insertion order per genre.
func (g *GenreIndex) Add(genre, trackID string) {
	if genre == "" || trackID == "" {
		return
	}
	if _, ok := g.byGenre[genre]; !ok {
		g.order = append(g.order, genre)
	}
	g.byGenre[genre] = append(g.byGenre[genre], trackID)
}

// Len returns the number of distinct genre keys.
func (g *GenreIndex) Len() int {
	return len(g.order)
}

// Genres returns the genre keys in first-seen order.
func (g *GenreIndex) Genres() []string {
	return g.order
}

// TrackIDs returns the ordered track ids recorded for the genre.
func (g *GenreIndex) TrackIDs(genre string) []string {
	return g.byGenre[genre]
}

// GenreCount pairs a genre key with the number of tracks carrying it.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// AggregateMetrics summarizes a TrackSet. The per-feature means cover only
// tracks that have audio features; when no track has them the mean fields
// are omitted entirely and TracksWithFeatures is 0.
type AggregateMetrics struct {
	TotalTracks         int      `json:"total_tracks"`
	UniqueArtists       int      `json:"unique_artists"`
	TotalGenres         int      `json:"total_genres"`
	TracksWithFeatures  int      `json:"tracks_with_features"`
	AvgEnergy           *float64 `json:"avg_energy,omitempty"`
	AvgValence          *float64 `json:"avg_valence,omitempty"`
	AvgDanceability     *float64 `json:"avg_danceability,omitempty"`
	AvgTempo            *float64 `json:"avg_tempo,omitempty"`
	AvgAcousticness     *float64 `json:"avg_acousticness,omitempty"`
	AvgInstrumentalness *float64 `json:"avg_instrumentalness,omitempty"`
}

// Analysis is the full output of an aggregation run: the merged, enriched
// track list plus its summary. It is the unit passed to formatters and
// returned to API consumers.
type Analysis struct {
	RequestID   string           `json:"request_id"`
	PlaylistIDs []string         `json:"playlist_ids"`
	Metrics     AggregateMetrics `json:"metrics"`
	GenreCounts []GenreCount     `json:"genre_counts"`
	Tracks      []Track          `json:"tracks"`
}
