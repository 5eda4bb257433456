package models

import "path/filepath"

// Strategy selects how a source's raw records are retrieved.
type Strategy int

const (
	// DirectJSON issues a GET whose body is a JSON array of records.
	DirectJSON Strategy = iota
	// FormJSON POSTs a form and reads records from a nested envelope.
	FormJSON
	// PagedHTML POSTs page numbers and scrapes records from each HTML page.
	PagedHTML
)

func (s Strategy) String() string {
	switch s {
	case DirectJSON:
		return "direct-json"
	case FormJSON:
		return "form-json"
	case PagedHTML:
		return "paged-html"
	default:
		return "unknown"
	}
}

// SnapshotFile is the file name of every persisted snapshot.
const SnapshotFile = "music.toml"

// Descriptor identifies one remote catalog.
type Descriptor struct {
	Name        string
	URL         string
	Strategy    Strategy
	CategoryURL string // authoritative category page, only for sources with an exact-sequence check
}

// SnapshotPath returns <dataDir>/<name>/music.toml.
func (d Descriptor) SnapshotPath(dataDir string) string {
	return filepath.Join(dataDir, d.Name, SnapshotFile)
}
