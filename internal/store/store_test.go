package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/otoge/internal/games/ongeki"
	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/shared"
	"github.com/google/go-cmp/cmp"
)

func strPtr(s string) *string { return &s }

func sampleSnapshot(now time.Time) *models.Snapshot[ongeki.Song, ongeki.Category] {
	songs := []ongeki.Song{
		{
			ID:        "8001",
			Title:     "Song A",
			Artist:    "Artist A",
			Date:      models.Date{Year: 2024, Month: time.March, Day: 7},
			Copyright: strPtr("© someone"),
			Category:  ongeki.SongCategory{ID: "01", Name: "POPS & ANIME"},
			Levels:    &ongeki.LevelMap{Basic: strPtr("3"), Master: strPtr("13+")},
		},
		{
			ID:       "8002",
			Title:    "Song B",
			Artist:   "Artist B",
			Date:     models.Date{Year: 2023, Month: time.December, Day: 24},
			IsNew:    true,
			Category: ongeki.SongCategory{ID: "06", Name: "オンゲキ"},
		},
	}
	return models.NewSnapshot("ongeki", songs, ongeki.Categories(), now)
}

func TestSaveAndRead(t *testing.T) {
	s := New(t.TempDir())
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	snap := sampleSnapshot(now)

	if err := Save(s, snap); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(s.Dir(), "ongeki", "music.toml")); err != nil {
		t.Fatalf("expected snapshot file: %v", err)
	}

	got, err := Read[ongeki.Song, ongeki.Category](s, "ongeki")
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}

	if got.Name != "ongeki" || got.Count != 2 {
		t.Errorf("unexpected header name=%q count=%d", got.Name, got.Count)
	}
	if !got.LastUpdated.Equal(now) {
		t.Errorf("expected timestamp %v, got %v", now, got.LastUpdated)
	}
	if diff := models.Diff(snap.Songs, got.Songs); diff != "" {
		t.Errorf("songs mismatch (-want +got):\n%s", diff)
	}
	if snap.Differs(got, true) {
		t.Error("expected round-tripped snapshot to be equal")
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := New(t.TempDir())
	snap := sampleSnapshot(time.Now())

	if err := Save(s, snap); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	snap = models.NewSnapshot("ongeki", snap.Songs[:1], snap.Categories, time.Now())
	if err := Save(s, snap); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	got := Load[ongeki.Song, ongeki.Category](s, "ongeki", nil)
	if got == nil || got.Count != 1 || len(got.Songs) != 1 {
		t.Fatalf("expected overwritten snapshot with one song, got %+v", got)
	}

	entries, _ := os.ReadDir(filepath.Join(s.Dir(), "ongeki"))
	if len(entries) != 1 {
		t.Errorf("expected no leftover temp files, found %d entries", len(entries))
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		s := New(t.TempDir())

		if got := Load[ongeki.Song, ongeki.Category](s, "ongeki", nil); got != nil {
			t.Errorf("expected nil snapshot, got %+v", got)
		}
		if _, err := Read[ongeki.Song, ongeki.Category](s, "ongeki"); !errors.Is(err, shared.ErrNoSnapshot) {
			t.Errorf("expected no snapshot error, got %v", err)
		}
	})

	t.Run("corrupt", func(t *testing.T) {
		s := New(t.TempDir())
		path := s.Path("ongeki")
		os.MkdirAll(filepath.Dir(path), 0755)
		os.WriteFile(path, []byte("name = [unterminated"), 0644)

		if got := Load[ongeki.Song, ongeki.Category](s, "ongeki", nil); got != nil {
			t.Errorf("expected nil snapshot, got %+v", got)
		}
		if _, err := Read[ongeki.Song, ongeki.Category](s, "ongeki"); !errors.Is(err, shared.ErrDecode) {
			t.Errorf("expected decode error, got %v", err)
		}
	})

	t.Run("logs the reason", func(t *testing.T) {
		s := New(t.TempDir())
		var buf bytes.Buffer
		logger := log.New(&buf)

		Load[ongeki.Song, ongeki.Category](s, "ongeki", logger)
		if !strings.Contains(buf.String(), "local song list not found") {
			t.Errorf("expected missing snapshot to be logged, got %q", buf.String())
		}

		buf.Reset()
		path := s.Path("ongeki")
		os.MkdirAll(filepath.Dir(path), 0755)
		os.WriteFile(path, []byte("name = [unterminated"), 0644)

		Load[ongeki.Song, ongeki.Category](s, "ongeki", logger)
		if out := buf.String(); !strings.Contains(out, "WARN") || !strings.Contains(out, "couldn't be loaded") {
			t.Errorf("expected a warning for the corrupt snapshot, got %q", out)
		}
	})
}

func TestSaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocker, []byte("file"), 0644); err != nil {
		t.Fatal(err)
	}

	s := New(blocker)
	err := Save(s, sampleSnapshot(time.Now()))
	if !errors.Is(err, shared.ErrPersist) {
		t.Errorf("expected persist error, got %v", err)
	}
}

func TestNames(t *testing.T) {
	s := New(t.TempDir())
	Save(s, sampleSnapshot(time.Now()))
	os.MkdirAll(filepath.Join(s.Dir(), "empty"), 0755)

	names, err := s.Names()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"ongeki"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}
