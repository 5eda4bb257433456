package ongeki

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/shared"
)

const fixture = `{
	"id": "8002",
	"title": "Song",
	"title_sort": "SONG",
	"artist": "Artist",
	"date": "20190201",
	"new": "0",
	"lunatic": "1",
	"bonus": "0",
	"image_url": "song.png",
	"copyright1": "-",
	"chap_id": "",
	"chapter": "",
	"category_id": "06",
	"category": "オンゲキ",
	"lev_bas": "",
	"lev_adv": "",
	"lev_exp": "",
	"lev_mas": "",
	"lev_lnt": "14+",
	"chara_id": "1000",
	"character": "星咲 あかり"
}`

func TestNormalize(t *testing.T) {
	t.Run("lunatic chart", func(t *testing.T) {
		var raw APISong
		if err := json.Unmarshal([]byte(fixture), &raw); err != nil {
			t.Fatalf("failed to decode fixture: %v", err)
		}

		got, err := Normalize(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.Date != (models.Date{Year: 2019, Month: 2, Day: 1}) {
			t.Errorf("unexpected date %v", got.Date)
		}
		if !got.IsLunatic || got.IsNew || got.IsBonusTrack {
			t.Errorf("unexpected flags new=%v lunatic=%v bonus=%v", got.IsNew, got.IsLunatic, got.IsBonusTrack)
		}
		if got.Copyright != nil {
			t.Errorf("expected dash copyright to be nil, got %q", *got.Copyright)
		}
		if got.Chapter != nil {
			t.Errorf("expected empty chapter to collapse, got %+v", got.Chapter)
		}
		if got.Levels == nil || got.Levels.Lunatic == nil || *got.Levels.Lunatic != "14+" || got.Levels.Basic != nil {
			t.Errorf("unexpected levels %+v", got.Levels)
		}
		if got.Character == nil || *got.Character.ID != "1000" {
			t.Errorf("unexpected character %+v", got.Character)
		}
		if got.Category.ID != "06" {
			t.Errorf("expected category 06, got %s", got.Category.ID)
		}
	})

	t.Run("copyright kept when present", func(t *testing.T) {
		raw := APISong{ID: "1", Date: "20200101", New: "1", Lunatic: "0", Bonus: "0", Copyright1: "©SEGA"}
		got, err := Normalize(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Copyright == nil || *got.Copyright != "©SEGA" {
			t.Errorf("unexpected copyright %v", got.Copyright)
		}
	})

	t.Run("errors", func(t *testing.T) {
		tc := []struct {
			name string
			raw  APISong
		}{
			{name: "short year date", raw: APISong{ID: "1", Date: "190201", New: "0", Lunatic: "0", Bonus: "0"}},
			{name: "bad bonus flag", raw: APISong{ID: "1", Date: "20190201", New: "0", Lunatic: "0", Bonus: "true"}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := Normalize(tt.raw); !errors.Is(err, shared.ErrDecode) {
					t.Errorf("expected decode error, got %v", err)
				}
			})
		}
	})
}

func TestCategoryKeysUseIDs(t *testing.T) {
	used, declared := CategoryKeys([]Song{{Category: SongCategory{ID: "05", Name: "チュウマイ"}}}, Categories())
	if used[0] != "05" {
		t.Errorf("expected used id 05, got %s", used[0])
	}
	if declared[0] != "06" {
		t.Errorf("expected first declared id 06, got %s", declared[0])
	}
}
