package repositories

import (
	"database/sql"
	"testing"

	"github.com/desertthunder/localnext/internal/shared"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// A single connection keeps every query on the same in-memory database.
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestPageRepository_GetPut(t *testing.T) {
	repo := NewPageRepository(newTestDB(t))

	t.Run("miss on empty cache", func(t *testing.T) {
		_, ok, err := repo.Get("metro-areas/1?page=1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if ok {
			t.Error("expected miss on empty cache")
		}
	})

	t.Run("round trip returns stored body", func(t *testing.T) {
		key := "metro-areas/1?page=1"
		body := "<html><strong>Band</strong></html>"

		if err := repo.Put(key, body); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		got, ok, err := repo.Get(key)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !ok {
			t.Fatal("expected hit after Put")
		}
		if got != body {
			t.Errorf("Get() = %q, want %q", got, body)
		}
	})

	t.Run("re-put does not overwrite", func(t *testing.T) {
		key := "metro-areas/2?page=1"

		if err := repo.Put(key, "first"); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := repo.Put(key, "second"); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		got, _, err := repo.Get(key)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "first" {
			t.Errorf("Get() = %q, want the first stored body", got)
		}
	})
}

func TestPageRepository_ListCountClear(t *testing.T) {
	repo := NewPageRepository(newTestDB(t))

	for _, key := range []string{"a", "b", "c"} {
		if err := repo.Put(key, "body of "+key); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	t.Run("count reflects stored pages", func(t *testing.T) {
		n, err := repo.Count()
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if n != 3 {
			t.Errorf("Count() = %d, want 3", n)
		}
	})

	t.Run("list includes sizes", func(t *testing.T) {
		pages, err := repo.List()
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(pages) != 3 {
			t.Fatalf("List() returned %d entries, want 3", len(pages))
		}
		for _, p := range pages {
			if p.Size != len("body of ")+1 {
				t.Errorf("Size = %d for %q, want %d", p.Size, p.Key, len("body of ")+1)
			}
		}
	})

	t.Run("clear removes everything", func(t *testing.T) {
		n, err := repo.Clear()
		if err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if n != 3 {
			t.Errorf("Clear() = %d, want 3", n)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if count != 0 {
			t.Errorf("Count() after clear = %d, want 0", count)
		}
	})
}
