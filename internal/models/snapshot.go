package models

import (
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Snapshot is the persisted catalog of one source.
//
// S is the canonical song type and C the category type of that source.
type Snapshot[S any, C any] struct {
	Name        string    `toml:"name" json:"name"`
	Count       int       `toml:"count" json:"count"`
	LastUpdated time.Time `toml:"last_updated" json:"last_updated"`
	Songs       []S       `toml:"songs" json:"songs"`
	Categories  []C       `toml:"categories" json:"categories"`
}

// NewSnapshot builds a snapshot stamped with now. Count is derived from songs.
func NewSnapshot[S any, C any](name string, songs []S, categories []C, now time.Time) *Snapshot[S, C] {
	return &Snapshot[S, C]{
		Name:        name,
		Count:       len(songs),
		LastUpdated: now,
		Songs:       songs,
		Categories:  categories,
	}
}

// Differs reports whether s and other hold different catalog content.
//
// Counts and song sequences are always compared; category sequences only when compareCategories is set.
// LastUpdated never participates. A nil other always differs.
func (s *Snapshot[S, C]) Differs(other *Snapshot[S, C], compareCategories bool) bool {
	if other == nil {
		return true
	}
	if s.Count != other.Count {
		return true
	}
	if !Equal(s.Songs, other.Songs) {
		return true
	}
	return compareCategories && !Equal(s.Categories, other.Categories)
}

// Equal compares two values structurally. Nil and empty slices are equal.
func Equal(x, y any) bool {
	return cmp.Equal(x, y, cmpopts.EquateEmpty())
}

// Diff returns a human-readable structural diff, empty when x and y are equal.
func Diff(x, y any) string {
	return cmp.Diff(x, y, cmpopts.EquateEmpty())
}
