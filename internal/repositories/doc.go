// Package repositories provides the persistence layer for the page cache.
//
// The cache is a best-effort local memo of listing-site fetches: entries are
// written once and never expired or invalidated.
package repositories
