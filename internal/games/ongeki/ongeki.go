// package ongeki holds the canonical O.N.G.E.K.I. catalog records.
package ongeki

import (
	"fmt"

	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/normalize"
	"github.com/desertthunder/otoge/internal/shared"
)

const (
	dateLayout = "20060102"
	// noCopyright is published in place of an empty copyright line.
	noCopyright = "-"
)

type LevelMap struct {
	Basic    *string `toml:"basic,omitempty" json:"basic,omitempty"`
	Advanced *string `toml:"advanced,omitempty" json:"advanced,omitempty"`
	Expert   *string `toml:"expert,omitempty" json:"expert,omitempty"`
	Master   *string `toml:"master,omitempty" json:"master,omitempty"`
	Lunatic  *string `toml:"lunatic,omitempty" json:"lunatic,omitempty"`
}

// Chapter is the story chapter a song unlocks in.
type Chapter struct {
	ID   *string `toml:"id,omitempty" json:"id,omitempty"`
	Name *string `toml:"name,omitempty" json:"name,omitempty"`
}

// Character is the card character associated with a song.
type Character struct {
	ID   *string `toml:"id,omitempty" json:"id,omitempty"`
	Name *string `toml:"name,omitempty" json:"name,omitempty"`
}

// SongCategory is the category reference embedded in each song.
type SongCategory struct {
	ID   string `toml:"id" json:"id"`
	Name string `toml:"name" json:"name"`
}

type Song struct {
	ID           string       `toml:"id" json:"id"`
	Title        string       `toml:"title" json:"title"`
	TitleReading string       `toml:"title_reading" json:"title_reading"`
	Artist       string       `toml:"artist" json:"artist"`
	Date         models.Date  `toml:"date" json:"date"`
	Image        string       `toml:"image" json:"image"`
	IsNew        bool         `toml:"is_new" json:"is_new"`
	IsLunatic    bool         `toml:"is_lunatic" json:"is_lunatic"`
	IsBonusTrack bool         `toml:"is_bonus_track" json:"is_bonus_track"`
	Copyright    *string      `toml:"copyright,omitempty" json:"copyright,omitempty"`
	Chapter      *Chapter     `toml:"chapter,omitempty" json:"chapter,omitempty"`
	Category     SongCategory `toml:"category" json:"category"`
	Levels       *LevelMap    `toml:"levels,omitempty" json:"levels,omitempty"`
	Character    *Character   `toml:"character,omitempty" json:"character,omitempty"`
}

type Category struct {
	ID   string `toml:"id" json:"id"`
	Slug string `toml:"slug" json:"slug"`
	Name string `toml:"name" json:"name"`
}

// Categories returns the category taxonomy in display order.
func Categories() []Category {
	return []Category{
		{ID: "06", Slug: "ongeki", Name: "オンゲキ"},
		{ID: "01", Slug: "pops_and_anime", Name: "POPS & ANIME"},
		{ID: "02", Slug: "niconico", Name: "niconico"},
		{ID: "03", Slug: "touhou", Name: "東方Project"},
		{ID: "04", Slug: "variety", Name: "VARIETY"},
		{ID: "05", Slug: "chumai", Name: "チュウマイ"},
	}
}

// APISong mirrors one element of music.json.
type APISong struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	TitleSort  string `json:"title_sort"`
	Artist     string `json:"artist"`
	Date       string `json:"date"`
	New        string `json:"new"`
	Lunatic    string `json:"lunatic"`
	Bonus      string `json:"bonus"`
	ImageURL   string `json:"image_url"`
	Copyright1 string `json:"copyright1"`
	ChapID     string `json:"chap_id"`
	Chapter    string `json:"chapter"`
	CategoryID string `json:"category_id"`
	Category   string `json:"category"`
	LevBas     string `json:"lev_bas"`
	LevAdv     string `json:"lev_adv"`
	LevExp     string `json:"lev_exp"`
	LevMas     string `json:"lev_mas"`
	LevLnt     string `json:"lev_lnt"`
	CharaID    string `json:"chara_id"`
	Character  string `json:"character"`
}

// Normalize converts a raw record into its canonical form.
func Normalize(raw APISong) (Song, error) {
	date, err := models.ParseDate(dateLayout, raw.Date)
	if err != nil {
		return Song{}, fmt.Errorf("song %s: date: %w: invalid date %q: %v", raw.ID, shared.ErrDecode, raw.Date, err)
	}

	flags := [3]bool{}
	for i, f := range []struct{ name, value string }{
		{"new", raw.New}, {"lunatic", raw.Lunatic}, {"bonus", raw.Bonus},
	} {
		if flags[i], err = normalize.BinaryBool(f.value); err != nil {
			return Song{}, fmt.Errorf("song %s: %s: %w", raw.ID, f.name, err)
		}
	}

	return Song{
		ID:           raw.ID,
		Title:        raw.Title,
		TitleReading: raw.TitleSort,
		Artist:       raw.Artist,
		Date:         date,
		Image:        raw.ImageURL,
		IsNew:        flags[0],
		IsLunatic:    flags[1],
		IsBonusTrack: flags[2],
		Copyright:    normalize.SentinelAsNil(raw.Copyright1, noCopyright),
		Chapter: normalize.Collapse(Chapter{
			ID:   normalize.EmptyAsNil(raw.ChapID),
			Name: normalize.EmptyAsNil(raw.Chapter),
		}),
		Category: SongCategory{ID: raw.CategoryID, Name: raw.Category},
		Levels: normalize.Collapse(LevelMap{
			Basic:    normalize.EmptyAsNil(raw.LevBas),
			Advanced: normalize.EmptyAsNil(raw.LevAdv),
			Expert:   normalize.EmptyAsNil(raw.LevExp),
			Master:   normalize.EmptyAsNil(raw.LevMas),
			Lunatic:  normalize.EmptyAsNil(raw.LevLnt),
		}),
		Character: normalize.Collapse(Character{
			ID:   normalize.EmptyAsNil(raw.CharaID),
			Name: normalize.EmptyAsNil(raw.Character),
		}),
	}, nil
}

// CategoryKeys returns the category ids used by songs and declared by the taxonomy.
func CategoryKeys(songs []Song, categories []Category) (used, declared []string) {
	for _, s := range songs {
		used = append(used, s.Category.ID)
	}
	for _, c := range categories {
		declared = append(declared, c.ID)
	}
	return used, declared
}

func (s Song) Summary() models.SongSummary {
	var levels []string
	if l := s.Levels; l != nil {
		for _, v := range []*string{l.Basic, l.Advanced, l.Expert, l.Master, l.Lunatic} {
			if v != nil {
				levels = append(levels, *v)
			}
		}
	}
	return models.SongSummary{
		ID:         s.ID,
		Title:      s.Title,
		Artist:     s.Artist,
		Categories: []string{s.Category.Name},
		Levels:     levels,
	}
}
