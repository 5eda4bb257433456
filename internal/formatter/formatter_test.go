package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/shared"
	th "github.com/desertthunder/otoge/internal/testing"
)

type fixtureSong struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (s fixtureSong) Summary() models.SongSummary {
	return models.SongSummary{ID: s.ID, Title: s.Title, Artist: "Artist " + s.ID, Categories: []string{"POPS & ANIME"}, Levels: []string{"3", "7", "13+"}}
}

func fixtureCatalog() *models.Catalog {
	songs := []fixtureSong{{ID: "1", Title: "Song One"}, {ID: "2", Title: "Song, Two"}}
	snap := models.NewSnapshot("chunithm_jp", songs, []string{"POPS & ANIME"}, time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))
	return models.NewCatalog(snap)
}

func TestExporters(t *testing.T) {
	c := fixtureCatalog()

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(c)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded struct {
			Name       string        `json:"name"`
			Count      int           `json:"count"`
			Songs      []fixtureSong `json:"songs"`
			Categories []string      `json:"categories"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if decoded.Name != "chunithm_jp" || decoded.Count != 2 || len(decoded.Songs) != 2 {
			t.Errorf("unexpected snapshot %+v", decoded)
		}
		if strings.Contains(string(data), "\n") {
			t.Error("expected compact JSON")
		}
	})

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(c)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "ID,Title,Artist,Categories,Levels\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,Song One,Artist 1,POPS & ANIME,3|7|13+") {
			t.Errorf("CSV missing first row, got: %s", output)
		}
		if !strings.Contains(output, `"Song, Two"`) {
			t.Errorf("CSV should quote titles containing commas, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(c)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# chunithm_jp",
			"**Songs**: 2",
			"**Last updated**: 2025-05-01T12:00:00Z",
			"1. Artist 1 - Song One (POPS & ANIME) [3 / 7 / 13+]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(c)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Source: chunithm_jp") || !strings.Contains(output, "2. Artist 2 - Song, Two") {
			t.Errorf("unexpected text output: %s", output)
		}
	})

	t.Run("Render unknown format", func(t *testing.T) {
		if _, err := Render(c, "yaml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected invalid flag error, got %v", err)
		}
	})
}

func TestWriters(t *testing.T) {
	c := fixtureCatalog()

	t.Run("WriteExport", func(t *testing.T) {
		tc := []struct {
			format string
			file   string
		}{
			{FormatJSON, "chunithm_jp.json"},
			{FormatCSV, "chunithm_jp.csv"},
			{FormatMarkdown, "chunithm_jp.md"},
			{FormatText, "chunithm_jp.txt"},
		}

		for _, tt := range tc {
			t.Run(tt.format, func(t *testing.T) {
				dir := filepath.Join(t.TempDir(), "music")

				path, err := WriteExport(c, tt.format, dir)
				if err != nil {
					t.Fatalf("WriteExport failed: %v", err)
				}
				if path != filepath.Join(dir, tt.file) {
					t.Errorf("expected %s, got %s", tt.file, path)
				}
				th.AssertFileExists(t, path)
			})
		}
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export_manifest.json")
		m := &Manifest{
			Format:    FormatCSV,
			Succeeded: 9,
			Entries: []ManifestEntry{
				{Source: "chunithm_jp", Count: 2, File: "music/chunithm_jp.csv"},
				{Source: "ongeki", Error: "no snapshot"},
			},
		}

		if err := WriteManifest(m, path); err != nil {
			t.Fatalf("WriteManifest failed: %v", err)
		}

		content := th.MustReadFile(t, path)
		for _, want := range []string{`"format": "csv"`, `"succeeded": 1`, `"failed": 1`, `"error": "no snapshot"`} {
			if !strings.Contains(content, want) {
				t.Errorf("manifest missing %s, got: %s", want, content)
			}
		}
	})
}

func TestSongCount(t *testing.T) {
	if got := SongCount(1); got != "1 song" {
		t.Errorf("SongCount(1) = %q", got)
	}
	if got := SongCount(50); got != "50 songs" {
		t.Errorf("SongCount(50) = %q", got)
	}
}
