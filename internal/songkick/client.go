package songkick

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/localnext/internal/shared"
	"golang.org/x/time/rate"
)

// maxPages caps pagination for a single area query. The site never serves
// this many calendar pages for one month; hitting the cap without seeing the
// no-results sentinel is logged as a possibly truncated scan.
const maxPages = 30

// noResultsSentinel marks the first page past the end of a result set.
const noResultsSentinel = "Your search returned no results"

// AreaQuery identifies one metro area and one calendar month's date range.
type AreaQuery struct {
	AreaID int
	Start  time.Time
	End    time.Time
}

// NewAreaQuery builds an AreaQuery spanning the given calendar month.
func NewAreaQuery(areaID, year int, month time.Month) AreaQuery {
	start, end := shared.MonthRange(year, month)
	return AreaQuery{AreaID: areaID, Start: start, End: end}
}

// PageCache stores raw page bodies keyed by relative request URL.
//
// Implementations must return stored values verbatim; the Client treats a
// hit as authoritative and performs no network I/O for it.
type PageCache interface {
	Get(key string) (string, bool, error)
	Put(key, body string) error
}

// Client fetches and paginates listing pages with cache-first discipline.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      PageCache
	limiter    *rate.Limiter
	logger     *log.Logger
}

// ClientOpts contains configuration options for creating a Client.
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      PageCache
	Limiter    *rate.Limiter
	Logger     *log.Logger
}

// NewClient creates a listing-site client. Cache may be nil, in which case
// every call fetches live.
func NewClient(opts ClientOpts) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		cache:      opts.Cache,
		limiter:    opts.Limiter,
		logger:     opts.Logger,
	}
}

// BuildURL renders the relative calendar-page URL for one query and page
// index. Dates are non-zero-padded M/D/Y, percent-encoded the way the site
// expects. Output is byte-identical for identical inputs; cache keys derive
// from it, so the field order and formatting must never change.
func BuildURL(areaID int, start, end time.Time, page int) string {
	return fmt.Sprintf(
		"metro-areas/%d?utf8=%%E2%%9C%%93&filters%%5BminDate%%5D=%d%%2F%d%%2F%d&filters%%5BmaxDate%%5D=%d%%2F%d%%2F%d&page=%d#metro-area-calendar",
		areaID,
		int(start.Month()), start.Day(), start.Year(),
		int(end.Month()), end.Day(), end.Year(),
		page,
	)
}

// FetchPath returns the raw body for a relative URL, from cache when
// available, otherwise from a live GET stored under the same key.
//
// Only raw bodies enter the cache; extraction happens strictly after this
// boundary so filtering changes never invalidate stored pages.
func (c *Client) FetchPath(ctx context.Context, path string) (string, error) {
	if c.cache != nil {
		if body, ok, err := c.cache.Get(path); err != nil {
			return "", fmt.Errorf("cache lookup failed: %w", err)
		} else if ok {
			c.logger.Debug("cache hit", "key", path)
			return body, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	url := c.baseURL + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrPageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d for %s", shared.ErrPageFetch, resp.StatusCode, path)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	body := string(data)

	if c.cache != nil {
		if err := c.cache.Put(path, body); err != nil {
			return "", fmt.Errorf("cache store failed: %w", err)
		}
	}

	return body, nil
}

// IsLastPage reports whether a page body is the site's "no more results"
// terminator: any paragraph whose text contains the sentinel substring.
//
// Unparsable or partial bodies are treated as result pages, matching the
// site's behavior of serving the sentinel only on well-formed pages.
func IsLastPage(body string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return false
	}

	last := false
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), noResultsSentinel) {
			last = true
			return false
		}
		return true
	})

	return last
}

// Pages fetches the ordered sequence of calendar pages for one query,
// starting at index 1 and stopping before the first terminal page.
//
// A terminal first page yields an empty slice. Fetch errors abort the scan.
func (c *Client) Pages(ctx context.Context, q AreaQuery) ([]string, error) {
	var pages []string

	for i := 1; i <= maxPages; i++ {
		path := BuildURL(q.AreaID, q.Start, q.End, i)
		c.logger.Debug("fetching calendar page", "area", q.AreaID, "page", i)

		body, err := c.FetchPath(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d for area %d: %w", i, q.AreaID, err)
		}

		if IsLastPage(body) {
			return pages, nil
		}

		pages = append(pages, body)
	}

	c.logger.Warn("page cap reached without a terminal page; results may be truncated",
		"area", q.AreaID, "cap", maxPages)
	return pages, nil
}
