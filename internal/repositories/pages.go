package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// PageRepository implements songkick.PageCache over a SQLite pages table.
//
// Keys are relative request URLs; values are raw page bodies. Once written,
// an entry is authoritative: reads return the stored body unchanged and no
// eviction ever runs.
type PageRepository struct {
	db *sql.DB
}

// CachedPage describes one cache entry for inspection commands.
type CachedPage struct {
	Key       string
	Size      int
	FetchedAt time.Time
}

// NewPageRepository creates a new PageRepository with the given database connection
func NewPageRepository(db *sql.DB) *PageRepository {
	return &PageRepository{db: db}
}

// Get returns the stored body for a key and whether the key was present.
func (r *PageRepository) Get(key string) (string, bool, error) {
	var body string
	err := r.db.QueryRow("SELECT body FROM pages WHERE key = ?", key).Scan(&body)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read page cache: %w", err)
	}
	return body, true, nil
}

// Put stores a raw page body under the given key. Re-putting an existing key
// is a no-op: the first stored body wins, matching the cache's
// write-once discipline.
func (r *PageRepository) Put(key, body string) error {
	_, err := r.db.Exec(
		"INSERT INTO pages (key, body, fetched_at) VALUES (?, ?, ?) ON CONFLICT(key) DO NOTHING",
		key, body, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write page cache: %w", err)
	}
	return nil
}

// List returns metadata for every cached page, newest first.
func (r *PageRepository) List() ([]CachedPage, error) {
	rows, err := r.db.Query("SELECT key, LENGTH(body), fetched_at FROM pages ORDER BY fetched_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query page cache: %w", err)
	}
	defer rows.Close()

	var pages []CachedPage
	for rows.Next() {
		var p CachedPage
		if err := rows.Scan(&p.Key, &p.Size, &p.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		pages = append(pages, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return pages, nil
}

// Count returns the number of cached pages.
func (r *PageRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM pages").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return n, nil
}

// Clear removes every cached page and returns the number removed.
func (r *PageRepository) Clear() (int, error) {
	result, err := r.db.Exec("DELETE FROM pages")
	if err != nil {
		return 0, fmt.Errorf("failed to clear page cache: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(n), nil
}
