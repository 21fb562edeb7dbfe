// Package songkick scrapes metro-area concert calendars from a
// Songkick-style listing site.
//
// The Client walks paginated calendar pages through a persistent page cache,
// stopping at the site's "no results" sentinel; extraction helpers pull
// concert names and festival lineups out of the raw markup.
package songkick
