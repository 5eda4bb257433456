// package formatter renders persisted catalogs to the export formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/shared"
)

// Supported export formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// Formats lists every supported format.
func Formats() []string {
	return []string{FormatJSON, FormatCSV, FormatMarkdown, FormatText}
}

// Extension returns the file extension written for format.
func Extension(format string) (string, error) {
	switch format {
	case FormatJSON, "":
		return ".json", nil
	case FormatCSV:
		return ".csv", nil
	case FormatMarkdown:
		return ".md", nil
	case FormatText:
		return ".txt", nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q (expected one of %s)",
			shared.ErrInvalidFlag, format, strings.Join(Formats(), ", "))
	}
}

// ExportToJSON encodes the typed snapshot behind c unchanged, in compact form.
func ExportToJSON(c *models.Catalog) ([]byte, error) {
	if c.Snapshot == nil {
		return shared.MarshalJSON(c, false)
	}
	return shared.MarshalJSON(c.Snapshot, false)
}

// ExportToCSV renders one row per song with columns: ID, Title, Artist, Categories, Levels
func ExportToCSV(c *models.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Categories", "Levels"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range c.Songs {
		record := []string{
			song.ID,
			song.Title,
			song.Artist,
			strings.Join(song.Categories, "|"),
			strings.Join(song.Levels, "|"),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a heading, the sync metadata and a numbered song list
func ExportToMarkdown(c *models.Catalog) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", c.Name))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n", c.Count))
	buf.WriteString(fmt.Sprintf("**Last updated**: %s\n\n", c.LastUpdated.UTC().Format(time.RFC3339)))

	buf.WriteString("## Songs\n\n")
	for i, song := range c.Songs {
		categoryPart := ""
		if len(song.Categories) > 0 {
			categoryPart = fmt.Sprintf(" (%s)", strings.Join(song.Categories, ", "))
		}
		levelPart := ""
		if len(song.Levels) > 0 {
			levelPart = fmt.Sprintf(" [%s]", strings.Join(song.Levels, " / "))
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s%s\n", i+1, song.Artist, song.Title, categoryPart, levelPart))
	}

	return buf.Bytes(), nil
}

// ExportToText renders a plain numbered song list
func ExportToText(c *models.Catalog) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Source: %s\n", c.Name))
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", c.Count))

	for i, song := range c.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
	}

	return buf.Bytes(), nil
}

// Render encodes c in format.
func Render(c *models.Catalog, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(c)
	case FormatMarkdown:
		return ExportToMarkdown(c)
	case FormatText:
		return ExportToText(c)
	case FormatJSON, "":
		return ExportToJSON(c)
	default:
		_, err := Extension(format)
		return nil, err
	}
}

// WriteExport renders c and writes it to <dir>/<name><ext>, creating dir if needed.
//
// Returns the written path.
func WriteExport(c *models.Catalog, format, dir string) (string, error) {
	ext, err := Extension(format)
	if err != nil {
		return "", err
	}

	data, err := Render(c, format)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", c.Name, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, c.Name+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// ManifestEntry describes the export of one source.
type ManifestEntry struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	File   string `json:"file,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Manifest summarizes an export run.
type Manifest struct {
	Format      string          `json:"format"`
	GeneratedAt time.Time       `json:"generated_at"`
	Succeeded   int             `json:"succeeded"`
	Failed      int             `json:"failed"`
	Entries     []ManifestEntry `json:"entries"`
}

// WriteManifest writes m as indented JSON to path.
//
// Succeeded and Failed are recomputed from the entries.
func WriteManifest(m *Manifest, path string) error {
	m.Succeeded, m.Failed = 0, 0
	for _, e := range m.Entries {
		if e.Error == "" {
			m.Succeeded++
		} else {
			m.Failed++
		}
	}

	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// SongCount returns a "N songs" label.
func SongCount(n int) string {
	if n == 1 {
		return "1 song"
	}
	return strconv.Itoa(n) + " songs"
}
