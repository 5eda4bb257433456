// package store persists per-source snapshots as TOML under <dir>/<name>/music.toml.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/shared"
)

// Store is rooted at the data directory.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

// Path returns the snapshot file of the named source.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name, models.SnapshotFile)
}

// Read decodes the persisted snapshot of name.
//
// A missing file returns an error wrapping [shared.ErrNoSnapshot].
func Read[S any, C any](s *Store, name string) (*models.Snapshot[S, C], error) {
	path := s.Path(name)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoSnapshot, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var snap models.Snapshot[S, C]
	if _, err := toml.Decode(string(data), &snap); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrDecode, path, err)
	}
	return &snap, nil
}

// Load is [Read] without the error: absent or unreadable snapshots are nil.
//
// The reason is logged to logger when one is given. A missing file is informational; anything else is a warning.
func Load[S any, C any](s *Store, name string, logger *log.Logger) *models.Snapshot[S, C] {
	snap, err := Read[S, C](s, name)
	if err == nil {
		return snap
	}
	if logger != nil {
		if errors.Is(err, shared.ErrNoSnapshot) {
			logger.Info("local song list not found")
		} else {
			logger.Warn("local song list couldn't be loaded", "err", err)
		}
	}
	return nil
}

// Save writes snap unconditionally, replacing any existing snapshot of the same name.
func Save[S any, C any](s *Store, snap *models.Snapshot[S, C]) error {
	path := s.Path(snap.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPersist, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+models.SnapshotFile+"-*")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPersist, err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(snap); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to encode %s: %v", shared.ErrPersist, snap.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPersist, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPersist, err)
	}
	return nil
}

// Names lists the sources with a snapshot directory under the store root.
func (s *Store) Names() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(s.Path(e.Name())); err == nil {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
