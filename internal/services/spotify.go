// Spotify API implementation of [Catalog]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vibes/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/desertthunder/vibes/internal/models"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	likedPlaylistName = "Liked Songs"
)

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type spotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type spotifyArtist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

type spotifyAlbum struct {
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

type spotifyTrack struct {
	ID      string          `json:"id"`
	URI     string          `json:"uri"`
	Name    string          `json:"name"`
	Artists []spotifyArtist `json:"artists"`
	Album   spotifyAlbum    `json:"album"`
}

type playlistTotals struct {
	Total int `json:"total"`
}

type simplePlaylist struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
	Tracks playlistTotals `json:"tracks"`
}

type playlistPage struct {
	Items []simplePlaylist `json:"items"`
	Total int              `json:"total"`
	Next  *string          `json:"next"`
}

// trackEntry wraps a track within a playlist or library context. The track is
// a pointer because the API returns null entries for removed or local items.
type trackEntry struct {
	Track *spotifyTrack `json:"track"`
}

type trackPage struct {
	Items []trackEntry `json:"items"`
	Total int          `json:"total"`
	Next  *string      `json:"next"`
}

type artistList struct {
	Artists []*spotifyArtist `json:"artists"`
}

type createPlaylistBody struct {
	Name        string `json:"name"`
	Public      bool   `json:"public"`
	Description string `json:"description"`
}

type addTracksBody struct {
	URIs []string `json:"uris"`
}

// SpotifyService implements [Catalog] for the Spotify Web API. Uses [oauth2]
// for token refresh, a [rate.Limiter] to pace requests, and a [RetryPolicy]
// for transient failures. Audio features are delegated to a [FeatureService]
// because the Spotify endpoint is deprecated.
type SpotifyService struct {
	config     *oauth2.Config
	creds      shared.SpotifyConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      RetryPolicy
	logger     *log.Logger
	features   *FeatureService

	baseURL         string
	pageSize        int
	artistBatchSize int
	addBatchSize    int
}

// NewSpotifyService creates a Spotify catalog client from application config.
func NewSpotifyService(cfg *shared.Config, logger *log.Logger) (*SpotifyService, error) {
	sp := cfg.Credentials.Spotify
	if sp.ClientID == "" {
		return nil, fmt.Errorf("%w: spotify client_id", shared.ErrMissingCredentials)
	}
	if sp.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_secret", shared.ErrMissingCredentials)
	}
	redirectURI := sp.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	oauthConfig := &oauth2.Config{
		ClientID:     sp.ClientID,
		ClientSecret: sp.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"user-library-read",
			"playlist-read-private",
			"playlist-read-collaborative",
			"playlist-modify-private",
			"playlist-modify-public",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	baseURL := cfg.Catalog.BaseURL
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}
	pageSize := cfg.Catalog.PageSize
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 50
	}
	artistBatchSize := cfg.Catalog.ArtistBatchSize
	if artistBatchSize <= 0 || artistBatchSize > 50 {
		artistBatchSize = 50
	}
	addBatchSize := cfg.Catalog.AddBatchSize
	if addBatchSize <= 0 || addBatchSize > 100 {
		addBatchSize = 100
	}
	limit := cfg.Catalog.RateLimit
	if limit <= 0 {
		limit = 5
	}
	burst := int(limit)
	if burst < 1 {
		burst = 1
	}

	return &SpotifyService{
		config:          oauthConfig,
		creds:           sp,
		limiter:         rate.NewLimiter(rate.Limit(limit), burst),
		retry:           retryPolicyFromConfig(cfg.Catalog),
		logger:          logger,
		features:        NewFeatureService(cfg.Catalog, logger),
		baseURL:         baseURL,
		pageSize:        pageSize,
		artistBatchSize: artistBatchSize,
		addBatchSize:    addBatchSize,
	}, nil
}

// Authenticate builds the authorized HTTP client from stored credentials.
// A refresh token keeps the client authorized indefinitely; a bare access
// token works until it expires.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	if s.creds.RefreshToken == "" && s.creds.AccessToken == "" {
		return fmt.Errorf("%w: spotify refresh_token or access_token", shared.ErrMissingCredentials)
	}

	token := &oauth2.Token{
		AccessToken:  s.creds.AccessToken,
		RefreshToken: s.creds.RefreshToken,
	}
	if s.creds.AccessToken == "" {
		// expired token forces a refresh on the first request
		token.Expiry = time.Now().Add(-time.Minute)
	}

	s.httpClient = s.config.Client(ctx, token)
	return nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for obtaining a fresh
// refresh token.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// do performs an authenticated request against the catalog and decodes the
// JSON response into result when one is given.
func (s *SpotifyService) do(ctx context.Context, method, endpoint string, body, result any) error {
	if s.httpClient == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrUnauthorized)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return fmt.Errorf("%w: token refresh failed", shared.ErrUnauthorized)
		}
		return fmt.Errorf("%w: %v", shared.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return err
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// statusError maps a non-2xx catalog response onto the shared error taxonomy.
func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", shared.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &shared.RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", shared.ErrNotFound, resp.StatusCode)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", shared.ErrCatalogUnavailable, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("catalog request failed: status %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

// Catalog interface implementation

// CurrentUser retrieves the authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*models.User, error) {
	var user spotifyUser
	err := runBatch(ctx, s.retry, s.logger, "profile", func(ctx context.Context) error {
		user = spotifyUser{}
		return s.do(ctx, http.MethodGet, "/me", nil, &user)
	})
	if err != nil {
		return nil, err
	}
	return &models.User{ID: user.ID, DisplayName: user.DisplayName}, nil
}

// ListPlaylists retrieves the user's playlists, preceded by the synthetic
// liked-songs playlist.
func (s *SpotifyService) ListPlaylists(ctx context.Context) ([]models.SourcePlaylist, error) {
	liked, err := s.likedPlaylist(ctx)
	if err != nil {
		return nil, err
	}
	playlists := []models.SourcePlaylist{*liked}

	offset := 0
	for {
		endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", s.pageSize, offset)
		var page playlistPage
		err := runBatch(ctx, s.retry, s.logger, "playlists", func(ctx context.Context) error {
			page = playlistPage{}
			return s.do(ctx, http.MethodGet, endpoint, nil, &page)
		})
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			playlists = append(playlists, toSourcePlaylist(item))
		}

		if page.Next == nil {
			break
		}
		offset += s.pageSize
	}

	return playlists, nil
}

// likedPlaylist synthesizes a playlist record for the user's saved tracks.
func (s *SpotifyService) likedPlaylist(ctx context.Context) (*models.SourcePlaylist, error) {
	var page trackPage
	err := runBatch(ctx, s.retry, s.logger, "liked total", func(ctx context.Context) error {
		page = trackPage{}
		return s.do(ctx, http.MethodGet, "/me/tracks?limit=1", nil, &page)
	})
	if err != nil {
		return nil, err
	}
	return &models.SourcePlaylist{
		ID:         models.LikedPlaylistID,
		Name:       likedPlaylistName,
		ImageURL:   models.LikedPlaylistImageURL,
		TrackCount: page.Total,
	}, nil
}

// ListPlaylistTracks retrieves every track in a playlist, following
// pagination to exhaustion. The liked pseudo-playlist reads from the user's
// library instead.
func (s *SpotifyService) ListPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrValidation)
	}

	path := "/playlists/" + url.PathEscape(playlistID) + "/tracks"
	if playlistID == models.LikedPlaylistID {
		path = "/me/tracks"
	}

	var tracks []models.Track
	offset := 0
	for {
		endpoint := fmt.Sprintf("%s?limit=%d&offset=%d", path, s.pageSize, offset)
		var page trackPage
		err := runBatch(ctx, s.retry, s.logger, "playlist tracks", func(ctx context.Context) error {
			page = trackPage{}
			return s.do(ctx, http.MethodGet, endpoint, nil, &page)
		})
		if err != nil {
			return nil, err
		}

		for _, entry := range page.Items {
			if entry.Track == nil || entry.Track.ID == "" {
				continue
			}
			tracks = append(tracks, toTrack(*entry.Track))
		}

		if page.Next == nil {
			break
		}
		offset += s.pageSize
	}

	return tracks, nil
}

// GetArtists retrieves artist records in batches. Ids the catalog does not
// recognize are skipped.
func (s *SpotifyService) GetArtists(ctx context.Context, ids []string) ([]models.Artist, error) {
	artists := make([]models.Artist, 0, len(ids))
	for _, batch := range chunk(ids, s.artistBatchSize) {
		endpoint := "/artists?ids=" + url.QueryEscape(strings.Join(batch, ","))
		var list artistList
		err := runBatch(ctx, s.retry, s.logger, "artists", func(ctx context.Context) error {
			list = artistList{}
			return s.do(ctx, http.MethodGet, endpoint, nil, &list)
		})
		if err != nil {
			return nil, err
		}

		for _, artist := range list.Artists {
			if artist == nil || artist.ID == "" {
				continue
			}
			artists = append(artists, models.Artist{ID: artist.ID, Name: artist.Name, Genres: artist.Genres})
		}
	}
	return artists, nil
}

// GetAudioFeatures retrieves audio features keyed by track id via the
// features provider.
func (s *SpotifyService) GetAudioFeatures(ctx context.Context, ids []string) (map[string]models.AudioFeatures, error) {
	return s.features.GetAudioFeatures(ctx, ids)
}

// CreatePlaylist creates a private playlist owned by the current user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, name, description string) (*models.SourcePlaylist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrValidation)
	}

	user, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	body := createPlaylistBody{Name: name, Public: false, Description: description}
	endpoint := "/users/" + url.PathEscape(user.ID) + "/playlists"
	var created simplePlaylist
	err = runBatch(ctx, s.retry, s.logger, "create playlist", func(ctx context.Context) error {
		created = simplePlaylist{}
		return s.do(ctx, http.MethodPost, endpoint, body, &created)
	})
	if err != nil {
		return nil, err
	}

	playlist := toSourcePlaylist(created)
	return &playlist, nil
}

// AddTracks appends track URIs to a playlist in batches.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if playlistID == "" || len(uris) == 0 {
		return fmt.Errorf("%w: playlist id and track uris are required", shared.ErrValidation)
	}

	endpoint := "/playlists/" + url.PathEscape(playlistID) + "/tracks"
	for i, batch := range chunk(uris, s.addBatchSize) {
		name := fmt.Sprintf("add tracks %d", i+1)
		body := addTracksBody{URIs: batch}
		err := runBatch(ctx, s.retry, s.logger, name, func(ctx context.Context) error {
			return s.do(ctx, http.MethodPost, endpoint, body, nil)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// GetPlaylistTrackURIs retrieves the URIs already present in a playlist.
func (s *SpotifyService) GetPlaylistTrackURIs(ctx context.Context, playlistID string) ([]string, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrValidation)
	}

	var uris []string
	offset := 0
	for {
		query := url.Values{}
		query.Set("fields", "items(track(uri)),next,total")
		query.Set("limit", strconv.Itoa(s.pageSize))
		query.Set("offset", strconv.Itoa(offset))
		endpoint := "/playlists/" + url.PathEscape(playlistID) + "/tracks?" + query.Encode()

		var page trackPage
		err := runBatch(ctx, s.retry, s.logger, "playlist uris", func(ctx context.Context) error {
			page = trackPage{}
			return s.do(ctx, http.MethodGet, endpoint, nil, &page)
		})
		if err != nil {
			return nil, err
		}

		for _, entry := range page.Items {
			if entry.Track == nil || entry.Track.URI == "" {
				continue
			}
			uris = append(uris, entry.Track.URI)
		}

		if page.Next == nil {
			break
		}
		offset += s.pageSize
	}

	return uris, nil
}

// UnfollowPlaylist removes the playlist from the user's library. A playlist
// that is already gone is treated as unfollowed.
func (s *SpotifyService) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	if playlistID == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrValidation)
	}

	endpoint := "/playlists/" + url.PathEscape(playlistID) + "/followers"
	err := runBatch(ctx, s.retry, s.logger, "unfollow", func(ctx context.Context) error {
		return s.do(ctx, http.MethodDelete, endpoint, nil, nil)
	})
	if errors.Is(err, shared.ErrNotFound) {
		s.logger.Debug("playlist already gone", "playlist", playlistID)
		return nil
	}
	return err
}

func toSourcePlaylist(p simplePlaylist) models.SourcePlaylist {
	playlist := models.SourcePlaylist{
		ID:         p.ID,
		Name:       p.Name,
		TrackCount: p.Tracks.Total,
	}
	if len(p.Images) > 0 {
		playlist.ImageURL = p.Images[0].URL
	}
	return playlist
}

func toTrack(t spotifyTrack) models.Track {
	track := models.Track{
		ID:   t.ID,
		URI:  t.URI,
		Name: t.Name,
	}
	for _, artist := range t.Artists {
		track.ArtistIDs = append(track.ArtistIDs, artist.ID)
		track.ArtistNames = append(track.ArtistNames, artist.Name)
	}
	if len(t.Album.Images) > 0 {
		track.ImageURL = t.Album.Images[0].URL
	}
	return track
}
