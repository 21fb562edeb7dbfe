package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/localnext/internal/shared"
	internaltesting "github.com/desertthunder/localnext/internal/testing"
	"golang.org/x/oauth2"
)

func newTestService(t *testing.T, response *http.Response) *SpotifyService {
	t.Helper()

	svc, err := NewSpotifyService(map[string]string{
		"client_id":     "test-client",
		"client_secret": "test-secret",
	})
	if err != nil {
		t.Fatalf("NewSpotifyService() error = %v", err)
	}

	svc.token = &oauth2.Token{AccessToken: "test-token"}
	svc.httpClient = &http.Client{Transport: internaltesting.NewMockRoundTripper(response, nil)}
	return svc
}

func TestNewSpotifyService(t *testing.T) {
	tests := []struct {
		name        string
		credentials map[string]string
		wantErr     bool
	}{
		{
			name: "valid credentials",
			credentials: map[string]string{
				"client_id":     "id",
				"client_secret": "secret",
			},
			wantErr: false,
		},
		{
			name:        "missing client_id",
			credentials: map[string]string{"client_secret": "secret"},
			wantErr:     true,
		},
		{
			name:        "missing client_secret",
			credentials: map[string]string{"client_id": "id"},
			wantErr:     true,
		},
		{
			name:        "empty map",
			credentials: map[string]string{},
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSpotifyService(tt.credentials)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSpotifyService() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	}
}

func TestSpotifyService_GetAuthURL(t *testing.T) {
	svc, err := NewSpotifyService(map[string]string{
		"client_id":     "test-client",
		"client_secret": "test-secret",
		"redirect_uri":  "https://open.spotify.com/",
	})
	if err != nil {
		t.Fatalf("NewSpotifyService() error = %v", err)
	}

	authURL := svc.GetAuthURL("state-token")

	for _, want := range []string{
		"accounts.spotify.com/authorize",
		"client_id=test-client",
		"state=state-token",
		"playlist-modify-private",
	} {
		if !strings.Contains(authURL, want) {
			t.Errorf("auth URL missing %q: %s", want, authURL)
		}
	}
}

func TestSpotifyService_SearchArtist(t *testing.T) {
	searchBody := func(names ...string) string {
		items := make([]string, len(names))
		for i, name := range names {
			items[i] = fmt.Sprintf(`{"id":"artist-%d","name":"%s","uri":"spotify:artist:%d"}`, i, name, i)
		}
		return fmt.Sprintf(`{"artists":{"items":[%s]}}`, strings.Join(items, ","))
	}

	t.Run("exact match on first result", func(t *testing.T) {
		svc := newTestService(t, internaltesting.JSONResponse(searchBody("Mitski", "Mitski Tribute Band")))

		artist, err := svc.SearchArtist(context.Background(), "Mitski")
		if err != nil {
			t.Fatalf("SearchArtist() error = %v", err)
		}
		if artist == nil {
			t.Fatal("expected a match")
		}
		if artist.ID != "artist-0" {
			t.Errorf("ID = %q, want artist-0", artist.ID)
		}
	})

	t.Run("match is case insensitive", func(t *testing.T) {
		svc := newTestService(t, internaltesting.JSONResponse(searchBody("MITSKI")))

		artist, err := svc.SearchArtist(context.Background(), "mitski")
		if err != nil {
			t.Fatalf("SearchArtist() error = %v", err)
		}
		if artist == nil {
			t.Fatal("expected a case-insensitive match")
		}
	})

	t.Run("different first result is a miss", func(t *testing.T) {
		svc := newTestService(t, internaltesting.JSONResponse(searchBody("Mitski Tribute Band", "Mitski")))

		artist, err := svc.SearchArtist(context.Background(), "Mitski")
		if err != nil {
			t.Fatalf("SearchArtist() error = %v", err)
		}
		if artist != nil {
			t.Errorf("expected a miss, got %v", artist)
		}
	})

	t.Run("no results is a miss, not an error", func(t *testing.T) {
		svc := newTestService(t, internaltesting.JSONResponse(`{"artists":{"items":[]}}`))

		artist, err := svc.SearchArtist(context.Background(), "Nobody")
		if err != nil {
			t.Fatalf("SearchArtist() error = %v", err)
		}
		if artist != nil {
			t.Errorf("expected nil artist, got %v", artist)
		}
	})

	t.Run("unauthenticated service errors", func(t *testing.T) {
		svc, err := NewSpotifyService(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
		})
		if err != nil {
			t.Fatalf("NewSpotifyService() error = %v", err)
		}

		_, err = svc.SearchArtist(context.Background(), "Anyone")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestSpotifyService_ArtistTopTrack(t *testing.T) {
	t.Run("returns the first track", func(t *testing.T) {
		body := `{"tracks":[
			{"id":"t1","name":"Hit Song","uri":"spotify:track:t1","artists":[{"id":"a1","name":"The Act"}]},
			{"id":"t2","name":"Second","uri":"spotify:track:t2","artists":[]}
		]}`
		svc := newTestService(t, internaltesting.JSONResponse(body))

		track, err := svc.ArtistTopTrack(context.Background(), "a1")
		if err != nil {
			t.Fatalf("ArtistTopTrack() error = %v", err)
		}
		if track == nil {
			t.Fatal("expected a track")
		}
		if track.ID != "t1" || track.Artist != "The Act" {
			t.Errorf("track = %+v, want id t1 by The Act", track)
		}
	})

	t.Run("no tracks is a miss, not an error", func(t *testing.T) {
		svc := newTestService(t, internaltesting.JSONResponse(`{"tracks":[]}`))

		track, err := svc.ArtistTopTrack(context.Background(), "a1")
		if err != nil {
			t.Fatalf("ArtistTopTrack() error = %v", err)
		}
		if track != nil {
			t.Errorf("expected nil track, got %v", track)
		}
	})
}

func TestSpotifyService_AddTracks(t *testing.T) {
	t.Run("rejects empty batch", func(t *testing.T) {
		svc := newTestService(t, internaltesting.JSONResponse(`{}`))

		err := svc.AddTracks(context.Background(), "pl", nil)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("rejects batch above the cap", func(t *testing.T) {
		svc := newTestService(t, internaltesting.JSONResponse(`{}`))

		uris := make([]string, MaxTracksPerAppend+1)
		err := svc.AddTracks(context.Background(), "pl", uris)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("accepts a batch at the cap", func(t *testing.T) {
		svc := newTestService(t, internaltesting.JSONResponse(`{"snapshot_id":"abc"}`))

		uris := make([]string, MaxTracksPerAppend)
		if err := svc.AddTracks(context.Background(), "pl", uris); err != nil {
			t.Errorf("AddTracks() error = %v", err)
		}
	})

	t.Run("non-2xx status is an API error", func(t *testing.T) {
		resp := internaltesting.JSONResponse(`{"error":{"status":403}}`)
		resp.StatusCode = http.StatusForbidden
		svc := newTestService(t, resp)

		err := svc.AddTracks(context.Background(), "pl", []string{"spotify:track:1"})
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestSpotifyService_CreatePlaylist(t *testing.T) {
	body := `{"id":"pl1","name":"Local Next Month: June","description":"desc","public":false,"uri":"spotify:playlist:pl1"}`
	svc := newTestService(t, internaltesting.JSONResponse(body))

	playlist, err := svc.CreatePlaylist(context.Background(), "user1", "Local Next Month: June", "desc", false)
	if err != nil {
		t.Fatalf("CreatePlaylist() error = %v", err)
	}

	if playlist.ID != "pl1" {
		t.Errorf("ID = %q, want pl1", playlist.ID)
	}
	if playlist.Public {
		t.Error("expected private playlist")
	}
}
