// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/localnext/internal/models"
)

// MockService is a configurable test double for [services.Service].
//
// Artists maps search names to resolved artists; TopTracks maps artist IDs to
// tracks. Absent keys produce (nil, nil) misses, matching the real service.
type MockService struct {
	Artists   map[string]*models.Artist
	TopTracks map[string]*models.Track
	User      *models.User

	SearchCalls []string   // Names passed to SearchArtist, in order
	AddedURIs   [][]string // URI batches passed to AddTracks, in order
	Created     []models.Playlist

	SearchErr error
	AddErr    error
}

func (m *MockService) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *MockService) CurrentUser(ctx context.Context) (*models.User, error) {
	if m.User != nil {
		return m.User, nil
	}
	return &models.User{ID: "mock-user", DisplayName: "Mock User"}, nil
}

func (m *MockService) SearchArtist(ctx context.Context, name string) (*models.Artist, error) {
	m.SearchCalls = append(m.SearchCalls, name)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.Artists[name], nil
}

func (m *MockService) ArtistTopTrack(ctx context.Context, artistID string) (*models.Track, error) {
	return m.TopTracks[artistID], nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*models.Playlist, error) {
	playlist := models.Playlist{
		ID:          fmt.Sprintf("mock-playlist-%d", len(m.Created)+1),
		Name:        name,
		Description: description,
		Public:      public,
	}
	m.Created = append(m.Created, playlist)
	return &playlist, nil
}

func (m *MockService) AddTracks(ctx context.Context, playlistID string, trackURIs []string) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	batch := make([]string, len(trackURIs))
	copy(batch, trackURIs)
	m.AddedURIs = append(m.AddedURIs, batch)
	return nil
}

func (m *MockService) Name() string { return "mock" }

// MemoryCache is an in-memory songkick.PageCache with fetch bookkeeping.
type MemoryCache struct {
	Pages map[string]string
	Puts  []string // Keys written, in order
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{Pages: map[string]string{}}
}

func (c *MemoryCache) Get(key string) (string, bool, error) {
	body, ok := c.Pages[key]
	return body, ok, nil
}

func (c *MemoryCache) Put(key, body string) error {
	if _, exists := c.Pages[key]; exists {
		return nil
	}
	c.Pages[key] = body
	c.Puts = append(c.Puts, key)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
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

// JSONResponse builds a 200 response with the given JSON body.
func JSONResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
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

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
