// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/vibes/internal/models"
	"github.com/desertthunder/vibes/internal/shared"
)

// MockCatalog is a test double for [services.Catalog]. Fixture fields seed
// the data its methods serve; recording fields capture what was called.
// Safe for concurrent use.
type MockCatalog struct {
	User           *models.User
	Playlists      []models.SourcePlaylist
	PlaylistTracks map[string][]models.Track
	Artists        map[string]models.Artist
	Features       map[string]models.AudioFeatures
	ExistingURIs   map[string][]string

	Calls      map[string]int
	Created    []models.SourcePlaylist
	Added      map[string][][]string
	Unfollowed []string

	errs map[string]error
	mu   sync.Mutex
}

func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		PlaylistTracks: make(map[string][]models.Track),
		Artists:        make(map[string]models.Artist),
		Features:       make(map[string]models.AudioFeatures),
		ExistingURIs:   make(map[string][]string),
		Calls:          make(map[string]int),
		Added:          make(map[string][][]string),
		errs:           make(map[string]error),
	}
}

// FailWith makes the named method return err on every call.
func (m *MockCatalog) FailWith(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[method] = err
}

// CallCount returns how many times the named method was invoked.
func (m *MockCatalog) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

// AddedURIs returns every URI added to the playlist, flattened across batches.
func (m *MockCatalog) AddedURIs(playlistID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var uris []string
	for _, batch := range m.Added[playlistID] {
		uris = append(uris, batch...)
	}
	return uris
}

func (m *MockCatalog) begin(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[method]++
	return m.errs[method]
}

func (m *MockCatalog) CurrentUser(ctx context.Context) (*models.User, error) {
	if err := m.begin("CurrentUser"); err != nil {
		return nil, err
	}
	if m.User != nil {
		return m.User, nil
	}
	return &models.User{ID: "user1", DisplayName: "Test User"}, nil
}

func (m *MockCatalog) ListPlaylists(ctx context.Context) ([]models.SourcePlaylist, error) {
	if err := m.begin("ListPlaylists"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.SourcePlaylist(nil), m.Playlists...), nil
}

func (m *MockCatalog) ListPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if err := m.begin("ListPlaylistTracks"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tracks, ok := m.PlaylistTracks[playlistID]
	if !ok {
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrNotFound, playlistID)
	}
	return append([]models.Track(nil), tracks...), nil
}

func (m *MockCatalog) GetArtists(ctx context.Context, ids []string) ([]models.Artist, error) {
	if err := m.begin("GetArtists"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var artists []models.Artist
	for _, id := range ids {
		if artist, ok := m.Artists[id]; ok {
			artists = append(artists, artist)
		}
	}
	return artists, nil
}

func (m *MockCatalog) GetAudioFeatures(ctx context.Context, ids []string) (map[string]models.AudioFeatures, error) {
	if err := m.begin("GetAudioFeatures"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	features := make(map[string]models.AudioFeatures)
	for _, id := range ids {
		if f, ok := m.Features[id]; ok {
			features[id] = f
		}
	}
	return features, nil
}

func (m *MockCatalog) CreatePlaylist(ctx context.Context, name, description string) (*models.SourcePlaylist, error) {
	if err := m.begin("CreatePlaylist"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pl := models.SourcePlaylist{ID: fmt.Sprintf("created-%d", len(m.Created)+1), Name: name}
	m.Created = append(m.Created, pl)
	m.Playlists = append(m.Playlists, pl)
	return &pl, nil
}

func (m *MockCatalog) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if err := m.begin("AddTracks"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Added[playlistID] = append(m.Added[playlistID], append([]string(nil), uris...))
	return nil
}

func (m *MockCatalog) GetPlaylistTrackURIs(ctx context.Context, playlistID string) ([]string, error) {
	if err := m.begin("GetPlaylistTrackURIs"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ExistingURIs[playlistID]...), nil
}

func (m *MockCatalog) UnfollowPlaylist(ctx context.Context, playlistID string) error {
	if err := m.begin("UnfollowPlaylist"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Unfollowed = append(m.Unfollowed, playlistID)
	return nil
}

func (m *MockCatalog) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
