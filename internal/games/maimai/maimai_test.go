package maimai

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/shared"
)

func decode(t *testing.T, payload string) APISong {
	t.Helper()

	dec := json.NewDecoder(bytes.NewBufferString(payload))
	dec.DisallowUnknownFields()

	var raw APISong
	if err := dec.Decode(&raw); err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	return raw
}

func TestNormalize(t *testing.T) {
	t.Run("new locked song with dx charts", func(t *testing.T) {
		raw := decode(t, `{
			"sort": "112233",
			"title": "Song",
			"title_kana": "SONG",
			"artist": "Artist",
			"image_url": "song.png",
			"catcode": "maimai",
			"release": "240315",
			"version": "PRiSM",
			"date": "NEW",
			"key": "○",
			"lev_bas": "",
			"lev_adv": "",
			"lev_exp": "",
			"lev_mas": "",
			"lev_remas": "",
			"dx_lev_bas": "4",
			"dx_lev_adv": "7",
			"dx_lev_exp": "10",
			"dx_lev_mas": "13",
			"dx_lev_remas": ""
		}`)

		got, err := Normalize(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !got.IsNew || !got.IsLocked {
			t.Errorf("expected new and locked, got new=%v locked=%v", got.IsNew, got.IsLocked)
		}
		if got.Release == nil || *got.Release != (models.Date{Year: 2024, Month: 3, Day: 15}) {
			t.Errorf("unexpected release %v", got.Release)
		}
		if got.Levels != nil {
			t.Errorf("expected standard levels to collapse, got %+v", got.Levels)
		}
		if got.DXLevels == nil || *got.DXLevels.Master != "13" || got.DXLevels.ReMaster != nil {
			t.Errorf("unexpected dx levels %+v", got.DXLevels)
		}
		if got.Utage != nil {
			t.Errorf("expected no utage block, got %+v", got.Utage)
		}
	})

	t.Run("missing flags default to false and zero release is nil", func(t *testing.T) {
		raw := decode(t, `{"sort": "1", "catcode": "maimai", "release": "000000", "lev_bas": "1"}`)

		got, err := Normalize(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.IsNew || got.IsLocked {
			t.Error("expected absent flags to be false")
		}
		if got.Release != nil {
			t.Errorf("expected nil release, got %v", got.Release)
		}
	})

	t.Run("utage requires all fields", func(t *testing.T) {
		full := decode(t, `{"sort": "8", "release": "000000", "lev_utage": "12?", "kanji": "宴", "comment": "two players"}`)
		got, err := Normalize(full)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Utage == nil || got.Utage.Kanji != "宴" {
			t.Errorf("expected utage block, got %+v", got.Utage)
		}

		partial := decode(t, `{"sort": "9", "release": "000000", "lev_utage": "12?", "kanji": "宴"}`)
		got, err = Normalize(partial)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Utage != nil {
			t.Errorf("expected no utage block, got %+v", got.Utage)
		}
	})

	t.Run("errors", func(t *testing.T) {
		tc := []struct {
			name string
			raw  APISong
		}{
			{name: "bad release", raw: APISong{Sort: "1", Release: "2024-03"}},
			{name: "bad new token", raw: APISong{Sort: "1", Release: "000000", Date: ptr("UPDATE")}},
			{name: "bad lock token", raw: APISong{Sort: "1", Release: "000000", Key: ptr("x")}},
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

func TestUnknownFieldIsRejected(t *testing.T) {
	dec := json.NewDecoder(bytes.NewBufferString(`{"sort": "1", "surprise": true}`))
	dec.DisallowUnknownFields()

	var raw APISong
	if err := dec.Decode(&raw); err == nil {
		t.Error("expected unknown field to be rejected")
	}
}

func TestTaxonomies(t *testing.T) {
	jp, intl := JPCategories(), IntlCategories()
	if len(jp) != len(intl) {
		t.Fatalf("expected equal taxonomy sizes, got %d and %d", len(jp), len(intl))
	}
	for i := range jp {
		if jp[i].Slug != intl[i].Slug {
			t.Errorf("slug mismatch at %d: %s vs %s", i, jp[i].Slug, intl[i].Slug)
		}
	}
}

func ptr(s string) *string { return &s }
