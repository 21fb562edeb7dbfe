// Package tasks orchestrates the concert-to-playlist pipeline with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines three operations:
//
//  1. [Engine.Collect] : Scan and resolve
//     - Fetches every calendar page for the requested areas and month
//     - Extracts concert names and applies the deny list
//     - Resolves each name to an artist via exact search and fetches its top track
//     - Returns detailed results including unresolved and skipped names
//
//  2. [Engine.Publish] : Create and fill the playlist
//     - Creates a private playlist for the current user
//     - Appends tracks in batches no larger than the service cap
//
//  3. [Engine.Run] : Collect then Publish in one pass
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [BuildEngine] implements [Engine] with dependencies on:
//   - [services.Service] : Spotify API client
//   - [songkick.Client] : listing-site scanner with its page cache
package tasks
