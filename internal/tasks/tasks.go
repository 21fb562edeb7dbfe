// package tasks implements the concert-to-playlist build pipeline.
//
// The core abstraction is BuildEngine, which scans listing pages, extracts
// concert names, resolves them to artists, and assembles a playlist of top
// tracks. Operations emit progress updates via channels for non-blocking
// status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/localnext/internal/models"
	"github.com/desertthunder/localnext/internal/services"
	"github.com/desertthunder/localnext/internal/shared"
	"github.com/desertthunder/localnext/internal/songkick"
)

// CollectResult contains everything gathered before publishing: the raw
// concert listings and the resolved artist and track sets.
type CollectResult struct {
	Concerts   []models.Concert // Every extracted concert, in page order
	Names      []string         // Deduplicated candidate names after the deny list
	Artists    []models.Artist  // Resolved artists, first-seen order
	Tracks     []models.Track   // One top track per resolved artist
	Unresolved []string         // Names with no exact artist match
	Skipped    []string         // Names dropped by the deny list
}

// PublishResult contains the created playlist and the append batch sizes.
type PublishResult struct {
	Playlist *models.Playlist
	Batches  []int // Track count of each append call, in order
}

// BuildResult bundles the collect and publish halves of a full run.
type BuildResult struct {
	Collect *CollectResult
	Publish *PublishResult
}

// Engine defines the build pipeline operations.
type Engine interface {
	// Concerts scans the given area queries and returns the extracted concerts.
	Concerts(ctx context.Context, queries []songkick.AreaQuery) ([]models.Concert, error)

	// Collect scans the given area queries and resolves concert names to tracks.
	Collect(ctx context.Context, progress chan<- ProgressUpdate, queries []songkick.AreaQuery) (*CollectResult, error)

	// Publish creates a playlist and appends the given tracks in batches.
	Publish(ctx context.Context, progress chan<- ProgressUpdate, name, description string, public bool, tracks []models.Track) (*PublishResult, error)

	// Run performs Collect then Publish in one pass.
	Run(ctx context.Context, progress chan<- ProgressUpdate, queries []songkick.AreaQuery, name, description string) (*BuildResult, error)
}

// BuildEngine implements Engine. Contains dependencies on the music service
// and the listing-site scanner.
type BuildEngine struct {
	music         services.Service
	scanner       *songkick.Client
	exclude       []string
	expandLineups bool
	shuffle       bool
	logger        *log.Logger
}

// EngineOpts contains configuration options for creating a BuildEngine.
type EngineOpts struct {
	Music         services.Service
	Scanner       *songkick.Client
	Exclude       []string // Names excluded from resolution, matched exactly
	ExpandLineups bool     // Resolve lineup artists for unmatched bill names
	Shuffle       bool     // Shuffle tracks before publishing
	Logger        *log.Logger
}

// NewBuildEngine creates a BuildEngine with the provided dependencies.
func NewBuildEngine(opts EngineOpts) *BuildEngine {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &BuildEngine{
		music:         opts.Music,
		scanner:       opts.Scanner,
		exclude:       opts.Exclude,
		expandLineups: opts.ExpandLineups,
		shuffle:       opts.Shuffle,
		logger:        opts.Logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *BuildEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// denied reports whether a concert name appears on the deny list. Matching
// is exact, so an entry disqualifies only the name it spells out in full.
func (e *BuildEngine) denied(name string) bool {
	for _, entry := range e.exclude {
		if name == entry {
			return true
		}
	}
	return false
}

// Collect scans every query's calendar pages, extracts concert names, and
// resolves them to artists and top tracks.
//
// A name that resolves to no artist, or an artist with no tracks, is recorded
// and skipped rather than failing the run. Duplicate names across pages and
// areas collapse to their first occurrence. With lineup expansion enabled, an
// unmatched name that carries a detail link is replaced by the lineup artists
// listed on its detail page.
func (e *BuildEngine) Collect(ctx context.Context, progress chan<- ProgressUpdate, queries []songkick.AreaQuery) (*CollectResult, error) {
	if e.music == nil {
		return nil, fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}
	if e.scanner == nil {
		return nil, fmt.Errorf("%w: listing scanner not initialized", shared.ErrServiceUnavailable)
	}

	result := &CollectResult{}

	var bodies []string
	for i, q := range queries {
		e.sendProgress(progress, scanAreaUpdate(i+1, len(queries), q.AreaID))

		pages, err := e.scanner.Pages(ctx, q)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, pages...)
	}

	for i, body := range bodies {
		concerts := songkick.Concerts(body)
		result.Concerts = append(result.Concerts, concerts...)
		e.sendProgress(progress, extractUpdate(i+1, len(bodies), len(result.Concerts)))
	}

	names := make([]string, 0, len(result.Concerts))
	detail := make(map[string]string, len(result.Concerts))
	for _, c := range result.Concerts {
		names = append(names, c.Name)
		if _, ok := detail[c.Name]; !ok && c.DetailPath != "" {
			detail[c.Name] = c.DetailPath
		}
	}

	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		if e.denied(name) {
			result.Skipped = append(result.Skipped, name)
			continue
		}
		result.Names = append(result.Names, name)
	}

	seenArtists := make(map[string]struct{})
	for i, name := range result.Names {
		e.sendProgress(progress, resolveUpdate(i+1, len(result.Names), name))

		artist, err := e.music.SearchArtist(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("artist search failed for %q: %w", name, err)
		}
		if artist == nil {
			if e.expandLineups && detail[name] != "" {
				resolved, err := e.resolveLineup(ctx, detail[name], seenArtists, result)
				if err != nil {
					return nil, err
				}
				if resolved > 0 {
					continue
				}
			}
			result.Unresolved = append(result.Unresolved, name)
			continue
		}
		if _, dup := seenArtists[artist.ID]; dup {
			continue
		}
		seenArtists[artist.ID] = struct{}{}
		result.Artists = append(result.Artists, *artist)
	}

	for i, artist := range result.Artists {
		e.sendProgress(progress, topTrackUpdate(i+1, len(result.Artists), &artist))

		track, err := e.music.ArtistTopTrack(ctx, artist.ID)
		if err != nil {
			return nil, fmt.Errorf("top track lookup failed for %s: %w", artist.Name, err)
		}
		if track == nil {
			e.logger.Debug("artist has no top tracks", "artist", artist.Name)
			continue
		}
		result.Tracks = append(result.Tracks, *track)
	}

	if e.shuffle {
		rand.Shuffle(len(result.Tracks), func(i, j int) {
			result.Tracks[i], result.Tracks[j] = result.Tracks[j], result.Tracks[i]
		})
	}

	e.logger.Info("collection complete",
		"concerts", len(result.Concerts),
		"artists", len(result.Artists),
		"tracks", len(result.Tracks),
		"unresolved", len(result.Unresolved),
		"skipped", len(result.Skipped),
	)

	return result, nil
}

// Concerts scans every query's calendar pages and returns the extracted
// concerts in page order, without resolving anything against the music
// service.
func (e *BuildEngine) Concerts(ctx context.Context, queries []songkick.AreaQuery) ([]models.Concert, error) {
	if e.scanner == nil {
		return nil, fmt.Errorf("%w: listing scanner not initialized", shared.ErrServiceUnavailable)
	}

	var concerts []models.Concert
	for _, q := range queries {
		pages, err := e.scanner.Pages(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, body := range pages {
			concerts = append(concerts, songkick.Concerts(body)...)
		}
	}
	return concerts, nil
}

// resolveLineup follows a bill's detail link and resolves the individual
// lineup artists in place of the bill name. Lineup names without an exact
// match are skipped, not recorded as unresolved. Returns how many lineup
// names matched an artist.
func (e *BuildEngine) resolveLineup(ctx context.Context, path string, seenArtists map[string]struct{}, result *CollectResult) (int, error) {
	body, err := e.scanner.FetchPath(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch lineup page %q: %w", path, err)
	}

	resolved := 0
	for _, name := range songkick.LineupArtists(body) {
		if e.denied(name) {
			continue
		}

		artist, err := e.music.SearchArtist(ctx, name)
		if err != nil {
			return resolved, fmt.Errorf("artist search failed for %q: %w", name, err)
		}
		if artist == nil {
			continue
		}
		resolved++

		if _, dup := seenArtists[artist.ID]; dup {
			continue
		}
		seenArtists[artist.ID] = struct{}{}
		result.Artists = append(result.Artists, *artist)
	}
	return resolved, nil
}

// Publish creates a playlist for the current user and appends the given
// tracks in batches no larger than the service's per-call cap.
func (e *BuildEngine) Publish(ctx context.Context, progress chan<- ProgressUpdate, name, description string, public bool, tracks []models.Track) (*PublishResult, error) {
	if e.music == nil {
		return nil, fmt.Errorf("%w: music service not initialized", shared.ErrServiceUnavailable)
	}

	user, err := e.music.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	e.sendProgress(progress, createPlaylistUpdate(name))

	playlist, err := e.music.CreatePlaylist(ctx, user.ID, name, description, public)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	result := &PublishResult{Playlist: playlist}

	uris := make([]string, 0, len(tracks))
	for _, t := range tracks {
		uris = append(uris, t.URI)
	}

	batches := chunkURIs(uris, services.MaxTracksPerAppend)
	for i, batch := range batches {
		e.sendProgress(progress, appendTracksUpdate(i+1, len(batches), len(batch)))

		if err := e.music.AddTracks(ctx, playlist.ID, batch); err != nil {
			return result, fmt.Errorf("failed to append batch %d: %w", i+1, err)
		}
		result.Batches = append(result.Batches, len(batch))
	}

	e.logger.Info("playlist published", "name", playlist.Name, "tracks", len(uris), "batches", len(result.Batches))
	return result, nil
}

// Run performs a full collect-and-publish pass.
//
// An empty track set still creates the playlist, matching the behavior of
// publishing an empty month.
func (e *BuildEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, queries []songkick.AreaQuery, name, description string) (*BuildResult, error) {
	collected, err := e.Collect(ctx, progress, queries)
	if err != nil {
		return nil, err
	}

	published, err := e.Publish(ctx, progress, name, description, false, collected.Tracks)
	if err != nil {
		return &BuildResult{Collect: collected}, err
	}

	return &BuildResult{Collect: collected, Publish: published}, nil
}

// chunkURIs splits uris into consecutive slices of at most size elements.
func chunkURIs(uris []string, size int) [][]string {
	if size <= 0 || len(uris) == 0 {
		return nil
	}

	var chunks [][]string
	for start := 0; start < len(uris); start += size {
		end := min(start+size, len(uris))
		chunks = append(chunks, uris[start:end])
	}
	return chunks
}
