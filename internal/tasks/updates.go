package tasks

import (
	"fmt"

	"github.com/desertthunder/localnext/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ScanPages Phase = iota
	ExtractConcerts
	ResolveArtists
	FetchTopTracks
	CreatePlaylist
	AppendTracks
)

func (p Phase) String() string {
	switch p {
	case ScanPages:
		return "scan_pages"
	case ExtractConcerts:
		return "extract_concerts"
	case ResolveArtists:
		return "resolve_artists"
	case FetchTopTracks:
		return "fetch_top_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case AppendTracks:
		return "append_tracks"
	default:
		return ""
	}
}

func scanAreaUpdate(step, total, areaID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanPages,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Scanning calendar pages for area %d...", areaID),
	}
}

func extractUpdate(step, total, found int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractConcerts,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Extracting concerts (%d found)...", found),
	}
}

func resolveUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveArtists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Resolving artist (%s)...", name),
	}
}

func topTrackUpdate(step, total int, artist *models.Artist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTopTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching top track for %s...", artist.Name),
		Data:    artist,
	}
}

func createPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q...", name),
	}
}

func appendTracksUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AppendTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Appending batch of %d tracks...", count),
	}
}
