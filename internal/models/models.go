package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// SongSummary is the flat, source-independent view of a canonical song used by listings and exports.
type SongSummary struct {
	ID         string   `json:"id,omitempty"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	Categories []string `json:"categories"`
	Levels     []string `json:"levels,omitempty"`
}

// Summarizer is implemented by every canonical song type.
type Summarizer interface {
	Summary() SongSummary
}

// Catalog is a persisted snapshot reduced to summaries, alongside the typed snapshot it came from.
type Catalog struct {
	Name        string        `json:"name"`
	Count       int           `json:"count"`
	LastUpdated time.Time     `json:"last_updated"`
	Songs       []SongSummary `json:"songs"`
	Snapshot    any           `json:"-"`
}

// NewCatalog summarizes snap.
func NewCatalog[S Summarizer, C any](snap *Snapshot[S, C]) *Catalog {
	songs := make([]SongSummary, 0, len(snap.Songs))
	for _, s := range snap.Songs {
		songs = append(songs, s.Summary())
	}
	return &Catalog{
		Name:        snap.Name,
		Count:       snap.Count,
		LastUpdated: snap.LastUpdated,
		Songs:       songs,
		Snapshot:    snap,
	}
}
