package songkick

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/localnext/internal/shared"
)

const (
	resultPage = `<html><body><p class="summary"><a href="/concerts/1"><strong>Artist A</strong></a></p></body></html>`
	finalPage  = `<html><body><p>Your search returned no results.</p></body></html>`
)

// countingCache wraps an in-memory map and records writes.
type countingCache struct {
	pages map[string]string
	puts  int
}

func newCountingCache() *countingCache {
	return &countingCache{pages: map[string]string{}}
}

func (c *countingCache) Get(key string) (string, bool, error) {
	body, ok := c.pages[key]
	return body, ok, nil
}

func (c *countingCache) Put(key, body string) error {
	if _, exists := c.pages[key]; !exists {
		c.pages[key] = body
		c.puts++
	}
	return nil
}

func TestBuildURL(t *testing.T) {
	start, end := shared.MonthRange(2024, time.June)

	t.Run("matches calendar URL template", func(t *testing.T) {
		got := BuildURL(31366, start, end, 3)
		want := "metro-areas/31366?utf8=%E2%9C%93&filters%5BminDate%5D=6%2F1%2F2024&filters%5BmaxDate%5D=6%2F30%2F2024&page=3#metro-area-calendar"
		if got != want {
			t.Errorf("BuildURL() = %q, want %q", got, want)
		}
	})

	t.Run("dates are not zero padded", func(t *testing.T) {
		got := BuildURL(100, start, end, 1)
		if strings.Contains(got, "06%2F") {
			t.Errorf("expected non-zero-padded month, got %q", got)
		}
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		first := BuildURL(100, start, end, 1)
		second := BuildURL(100, start, end, 1)
		if first != second {
			t.Errorf("BuildURL not deterministic: %q != %q", first, second)
		}
	})

	t.Run("page index changes the URL", func(t *testing.T) {
		if BuildURL(100, start, end, 1) == BuildURL(100, start, end, 2) {
			t.Error("expected distinct URLs for distinct pages")
		}
	})
}

func TestIsLastPage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"sentinel paragraph", finalPage, true},
		{"sentinel inside longer text", `<p>Sorry! Your search returned no results this month.</p>`, true},
		{"result page", resultPage, false},
		{"sentinel outside a paragraph", `<div>Your search returned no results</div>`, false},
		{"empty body", "", false},
		{"sentinel in later paragraph", `<p>intro</p><p>Your search returned no results</p>`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLastPage(tt.body); got != tt.want {
				t.Errorf("IsLastPage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_Pages(t *testing.T) {
	start, end := shared.MonthRange(2024, time.June)
	query := AreaQuery{AreaID: 42, Start: start, End: end}

	t.Run("stops at the first terminal page", func(t *testing.T) {
		var requested []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requested = append(requested, r.URL.String())
			if strings.Contains(r.URL.RawQuery, "page=4") {
				fmt.Fprint(w, finalPage)
				return
			}
			fmt.Fprint(w, resultPage)
		}))
		defer srv.Close()

		client := NewClient(ClientOpts{BaseURL: srv.URL})

		pages, err := client.Pages(context.Background(), query)
		if err != nil {
			t.Fatalf("Pages() error = %v", err)
		}
		if len(pages) != 3 {
			t.Errorf("Pages() returned %d pages, want 3", len(pages))
		}
		if len(requested) != 4 {
			t.Errorf("server saw %d requests, want 4", len(requested))
		}
	})

	t.Run("terminal first page yields empty result", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, finalPage)
		}))
		defer srv.Close()

		client := NewClient(ClientOpts{BaseURL: srv.URL})

		pages, err := client.Pages(context.Background(), query)
		if err != nil {
			t.Fatalf("Pages() error = %v", err)
		}
		if len(pages) != 0 {
			t.Errorf("Pages() returned %d pages, want 0", len(pages))
		}
	})

	t.Run("stops at the page cap without a terminal page", func(t *testing.T) {
		requests := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			fmt.Fprint(w, resultPage)
		}))
		defer srv.Close()

		client := NewClient(ClientOpts{BaseURL: srv.URL})

		pages, err := client.Pages(context.Background(), query)
		if err != nil {
			t.Fatalf("Pages() error = %v", err)
		}
		if len(pages) != maxPages {
			t.Errorf("Pages() returned %d pages, want %d", len(pages), maxPages)
		}
		if requests != maxPages {
			t.Errorf("server saw %d requests, want %d", requests, maxPages)
		}
	})

	t.Run("fetch error aborts the scan", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.URL.RawQuery, "page=2") {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, resultPage)
		}))
		defer srv.Close()

		client := NewClient(ClientOpts{BaseURL: srv.URL})

		_, err := client.Pages(context.Background(), query)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, shared.ErrPageFetch) {
			t.Errorf("expected ErrPageFetch, got %v", err)
		}
	})
}

func TestClient_FetchPath(t *testing.T) {
	t.Run("stores fetched bodies under the request path", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, resultPage)
		}))
		defer srv.Close()

		cache := newCountingCache()
		client := NewClient(ClientOpts{BaseURL: srv.URL, Cache: cache})

		body, err := client.FetchPath(context.Background(), "metro-areas/1?page=1")
		if err != nil {
			t.Fatalf("FetchPath() error = %v", err)
		}
		if body != resultPage {
			t.Errorf("FetchPath() body = %q, want %q", body, resultPage)
		}
		if cache.puts != 1 {
			t.Errorf("cache writes = %d, want 1", cache.puts)
		}
	})

	t.Run("cache hit skips the network", func(t *testing.T) {
		requests := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			fmt.Fprint(w, resultPage)
		}))
		defer srv.Close()

		cache := newCountingCache()
		client := NewClient(ClientOpts{BaseURL: srv.URL, Cache: cache})

		for range 3 {
			if _, err := client.FetchPath(context.Background(), "metro-areas/1?page=1"); err != nil {
				t.Fatalf("FetchPath() error = %v", err)
			}
		}

		if requests != 1 {
			t.Errorf("server saw %d requests, want 1", requests)
		}
	})

	t.Run("cached body is returned verbatim", func(t *testing.T) {
		cache := newCountingCache()
		cache.pages["some/path"] = "stored body"

		client := NewClient(ClientOpts{BaseURL: "http://unreachable.invalid", Cache: cache})

		body, err := client.FetchPath(context.Background(), "some/path")
		if err != nil {
			t.Fatalf("FetchPath() error = %v", err)
		}
		if body != "stored body" {
			t.Errorf("FetchPath() body = %q, want %q", body, "stored body")
		}
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewClient(ClientOpts{BaseURL: srv.URL})

		_, err := client.FetchPath(context.Background(), "missing")
		if !errors.Is(err, shared.ErrPageFetch) {
			t.Errorf("expected ErrPageFetch, got %v", err)
		}
	})
}

func TestNewAreaQuery(t *testing.T) {
	q := NewAreaQuery(31366, 2024, time.February)

	if q.Start.Day() != 1 || q.Start.Month() != time.February {
		t.Errorf("Start = %v, want February 1", q.Start)
	}
	if q.End.Day() != 29 || q.End.Month() != time.February {
		t.Errorf("End = %v, want February 29 (leap year)", q.End)
	}
}
