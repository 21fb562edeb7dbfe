// package formatter provides functions to export concert listings and build results to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/localnext/internal/models"
	"github.com/desertthunder/localnext/internal/shared"
	"github.com/desertthunder/localnext/internal/tasks"
)

// ConcertsToCSV converts a concert list to CSV format with columns: Name, DetailPath
func ConcertsToCSV(concerts []models.Concert) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Name", "DetailPath"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, c := range concerts {
		if err := writer.Write([]string{c.Name, c.DetailPath}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ConcertsToText converts a concert list to plain text, one name per line.
func ConcertsToText(concerts []models.Concert) []byte {
	var buf bytes.Buffer
	for _, c := range concerts {
		buf.WriteString(c.Name)
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// TracksToCSV converts a track list to CSV format with columns: ID, Name, Artist, URI
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artist", "URI"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, t := range tracks {
		if err := writer.Write([]string{t.ID, t.Name, t.Artist, t.URI}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ResultToMarkdown renders a collect result as a Markdown report.
func ResultToMarkdown(title string, result *tasks.CollectResult) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Concerts**: %d\n", len(result.Concerts)))
	buf.WriteString(fmt.Sprintf("**Artists**: %d\n", len(result.Artists)))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(result.Tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range result.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Name))
	}

	if len(result.Unresolved) > 0 {
		buf.WriteString("\n## Unresolved\n\n")
		for _, name := range result.Unresolved {
			buf.WriteString(fmt.Sprintf("- %s\n", name))
		}
	}

	if len(result.Skipped) > 0 {
		buf.WriteString("\n## Skipped\n\n")
		for _, name := range result.Skipped {
			buf.WriteString(fmt.Sprintf("- %s\n", name))
		}
	}

	return buf.Bytes()
}

// ResultToJSON generates a JSON representation of a collect result.
func ResultToJSON(result *tasks.CollectResult) ([]byte, error) {
	payload := map[string]any{
		"concerts":   result.Concerts,
		"names":      result.Names,
		"artists":    result.Artists,
		"tracks":     result.Tracks,
		"unresolved": result.Unresolved,
		"skipped":    result.Skipped,
	}
	return shared.MarshalJSON(payload, true)
}

// WriteExport writes data to path, creating parent directories as needed.
// The format is inferred from the path's extension by callers; WriteExport
// only handles the file I/O.
func WriteExport(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// FormatForPath renders a collect result in the format implied by the output
// path's extension: .csv (tracks), .md, .json, anything else plain text.
func FormatForPath(path, title string, result *tasks.CollectResult) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return TracksToCSV(result.Tracks)
	case ".md":
		return ResultToMarkdown(title, result), nil
	case ".json":
		return ResultToJSON(result)
	default:
		return ConcertsToText(result.Concerts), nil
	}
}
