package songkick

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/localnext/internal/models"
)

// Concerts extracts event entries from a calendar page body: the text of
// every strong-emphasis element, in document order, paired with the event's
// detail link when one can be located.
//
// The detail link is taken from the nearest ancestor that carries an
// "a.thumb" anchor rather than a fixed parent chain, so markup nesting
// changes degrade to a missing link instead of a wrong one. Pure function of
// the body; no deduplication happens here.
func Concerts(body string) []models.Concert {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var concerts []models.Concert
	doc.Find("strong").Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Text())
		if name == "" {
			return
		}

		concerts = append(concerts, models.Concert{
			Name:       name,
			DetailPath: detailPath(s),
		})
	})

	return concerts
}

// detailPath walks up from a strong element to the nearest ancestor
// containing the event's thumbnail anchor and returns its href. The walk
// stops before any container holding other events, so an entry without its
// own thumbnail yields no link rather than a neighbor's.
func detailPath(s *goquery.Selection) string {
	for p := s.Parent(); p.Length() > 0; p = p.Parent() {
		if p.Find("strong").Length() > 1 {
			return ""
		}
		if a := p.Find("a.thumb").First(); a.Length() > 0 {
			href, _ := a.Attr("href")
			return strings.TrimPrefix(href, "/")
		}
	}
	return ""
}

// LineupArtists extracts the individual performer names from a festival
// detail page: the text of every anchor inside the element with id "lineup".
// Returns nil when the page has no lineup section.
func LineupArtists(body string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var artists []string
	doc.Find("#lineup a").Each(func(_ int, a *goquery.Selection) {
		name := strings.TrimSpace(a.Text())
		if name == "" {
			return
		}
		artists = append(artists, name)
	})

	return artists
}
