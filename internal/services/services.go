package services

import (
	"context"

	"github.com/desertthunder/localnext/internal/models"
	"golang.org/x/oauth2"
)

// Service defines the music-streaming operations the build engine needs:
// identity resolution, top-track lookup, and playlist assembly.
type Service interface {
	// Authenticate performs OAuth or token authentication with the service.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// CurrentUser retrieves the authenticated user's profile.
	CurrentUser(ctx context.Context) (*models.User, error)

	// SearchArtist resolves a free-text name to an artist identity.
	// Only an exact case-insensitive display-name match is accepted;
	// a miss returns (nil, nil), not an error.
	SearchArtist(ctx context.Context, name string) (*models.Artist, error)

	// ArtistTopTrack returns the artist's most popular track, or (nil, nil)
	// when the artist has none.
	ArtistTopTrack(ctx context.Context, artistID string) (*models.Track, error)

	// CreatePlaylist creates a playlist for the given user.
	CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*models.Playlist, error)

	// AddTracks appends track URIs to a playlist. Callers must batch to at
	// most MaxTracksPerAppend URIs per call.
	AddTracks(ctx context.Context, playlistID string, trackURIs []string) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// OAuthService extends Service with the authorization-code flow pieces the
// auth command drives directly.
type OAuthService interface {
	Service

	// GetAuthURL returns the authorization URL the user visits to grant access.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the underlying OAuth2 config for the callback listener.
	GetOAuthConfig() *oauth2.Config

	// Exchange trades an authorization code for tokens.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}
