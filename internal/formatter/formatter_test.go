package formatter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/localnext/internal/models"
	"github.com/desertthunder/localnext/internal/tasks"
	internaltesting "github.com/desertthunder/localnext/internal/testing"
)

func sampleResult() *tasks.CollectResult {
	return &tasks.CollectResult{
		Concerts: []models.Concert{
			{Name: "The National", DetailPath: "concerts/101"},
			{Name: "Mitski"},
		},
		Names:   []string{"The National", "Mitski"},
		Artists: []models.Artist{{ID: "a1", Name: "The National"}},
		Tracks: []models.Track{
			{ID: "t1", Name: "Bloodbuzz Ohio", Artist: "The National", URI: "spotify:track:t1"},
		},
		Unresolved: []string{"Mitski"},
		Skipped:    []string{"Big Festival 2024"},
	}
}

func TestConcertsToCSV(t *testing.T) {
	data, err := ConcertsToCSV(sampleResult().Concerts)
	if err != nil {
		t.Fatalf("ConcertsToCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("CSV has %d lines, want 3", len(lines))
	}
	if lines[0] != "Name,DetailPath" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "The National") {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestTracksToCSV(t *testing.T) {
	data, err := TracksToCSV(sampleResult().Tracks)
	if err != nil {
		t.Fatalf("TracksToCSV() error = %v", err)
	}

	out := string(data)
	if !strings.HasPrefix(out, "ID,Name,Artist,URI") {
		t.Errorf("unexpected header in %q", out)
	}
	if !strings.Contains(out, "spotify:track:t1") {
		t.Errorf("missing track URI in %q", out)
	}
}

func TestConcertsToText(t *testing.T) {
	out := string(ConcertsToText(sampleResult().Concerts))
	want := "The National\nMitski\n"
	if out != want {
		t.Errorf("ConcertsToText() = %q, want %q", out, want)
	}
}

func TestResultToMarkdown(t *testing.T) {
	out := string(ResultToMarkdown("Local Next Month: June", sampleResult()))

	for _, want := range []string{
		"# Local Next Month: June",
		"## Tracks",
		"1. The National - Bloodbuzz Ohio",
		"## Unresolved",
		"- Mitski",
		"## Skipped",
		"- Big Festival 2024",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestFormatForPath(t *testing.T) {
	result := sampleResult()

	tests := []struct {
		name string
		path string
		want string
	}{
		{"csv extension", "out.csv", "ID,Name,Artist,URI"},
		{"markdown extension", "out.md", "# Local Next Month: June"},
		{"json extension", "out.json", `"tracks"`},
		{"text fallback", "out.txt", "The National\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := FormatForPath(tt.path, "Local Next Month: June", result)
			if err != nil {
				t.Fatalf("FormatForPath() error = %v", err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, data)
			}
		})
	}
}

func TestWriteExport(t *testing.T) {
	dir := t.TempDir()

	t.Run("writes the file", func(t *testing.T) {
		path := filepath.Join(dir, "out.txt")
		if err := WriteExport(path, []byte("content")); err != nil {
			t.Fatalf("WriteExport() error = %v", err)
		}

		if got := internaltesting.MustReadFile(t, path); got != "content" {
			t.Errorf("file content = %q", got)
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "deep", "out.txt")
		if err := WriteExport(path, []byte("x")); err != nil {
			t.Fatalf("WriteExport() error = %v", err)
		}
		internaltesting.AssertFileExists(t, path)
	})
}
