// package maimai holds the canonical maimai DX catalog records for the JP and international sites.
//
// Both sites publish the same schema; only the category names differ.
package maimai

import (
	"fmt"

	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/normalize"
)

const (
	// releaseZero marks songs without a published release date.
	releaseZero   = "000000"
	releaseLayout = "060102"

	newToken    = "NEW"
	lockedToken = "○"
)

// LevelMap holds chart levels for one chart type (standard or DX).
type LevelMap struct {
	Basic    *string `toml:"basic,omitempty" json:"basic,omitempty"`
	Advanced *string `toml:"advanced,omitempty" json:"advanced,omitempty"`
	Expert   *string `toml:"expert,omitempty" json:"expert,omitempty"`
	Master   *string `toml:"master,omitempty" json:"master,omitempty"`
	ReMaster *string `toml:"remaster,omitempty" json:"remaster,omitempty"`
}

// Utage is the joke-chart block. It only exists when the source publishes all three fields.
type Utage struct {
	Level   string `toml:"level" json:"level"`
	Kanji   string `toml:"kanji" json:"kanji"`
	Comment string `toml:"comment" json:"comment"`
}

type Song struct {
	ID           string       `toml:"id" json:"id"`
	Title        string       `toml:"title" json:"title"`
	TitleReading string       `toml:"title_reading" json:"title_reading"`
	Artist       string       `toml:"artist" json:"artist"`
	Image        string       `toml:"image" json:"image"`
	Category     string       `toml:"category" json:"category"`
	Version      string       `toml:"version" json:"version"`
	Release      *models.Date `toml:"release,omitempty" json:"release,omitempty"`
	IsNew        bool         `toml:"is_new" json:"is_new"`
	IsLocked     bool         `toml:"is_locked" json:"is_locked"`
	Levels       *LevelMap    `toml:"levels,omitempty" json:"levels,omitempty"`
	DXLevels     *LevelMap    `toml:"dx_levels,omitempty" json:"dx_levels,omitempty"`
	Utage        *Utage       `toml:"utage,omitempty" json:"utage,omitempty"`
}

type Category struct {
	Slug string `toml:"slug" json:"slug"`
	Name string `toml:"name" json:"name"`
}

// JPCategories returns the taxonomy of maimai.sega.jp in display order.
func JPCategories() []Category {
	return []Category{
		{Slug: "pops_anime", Name: "POPS＆アニメ"},
		{Slug: "niconico", Name: "niconico＆ボーカロイド"},
		{Slug: "toho", Name: "東方Project"},
		{Slug: "variety", Name: "ゲーム＆バラエティ"},
		{Slug: "maimai", Name: "maimai"},
		{Slug: "gekichu", Name: "オンゲキ＆CHUNITHM"},
	}
}

// IntlCategories returns the taxonomy of maimai.sega.com in display order.
func IntlCategories() []Category {
	return []Category{
		{Slug: "pops_anime", Name: "POPS＆ANIME"},
		{Slug: "niconico", Name: "niconico＆VOCALOID™"},
		{Slug: "toho", Name: "東方Project"},
		{Slug: "variety", Name: "GAME＆VARIETY"},
		{Slug: "maimai", Name: "maimai"},
		{Slug: "gekichu", Name: "オンゲキ＆CHUNITHM"},
	}
}

// APISong mirrors one element of maimai_songs.json.
//
// Fields that may be absent from the payload are pointers so presence can be told apart from "".
type APISong struct {
	Sort       string  `json:"sort"`
	Title      string  `json:"title"`
	TitleKana  string  `json:"title_kana"`
	Artist     string  `json:"artist"`
	ImageURL   string  `json:"image_url"`
	CatCode    string  `json:"catcode"`
	Release    string  `json:"release"`
	Version    string  `json:"version"`
	Date       *string `json:"date"`
	Key        *string `json:"key"`
	Buddy      *string `json:"buddy"`
	LevBas     string  `json:"lev_bas"`
	LevAdv     string  `json:"lev_adv"`
	LevExp     string  `json:"lev_exp"`
	LevMas     string  `json:"lev_mas"`
	LevRemas   string  `json:"lev_remas"`
	DXLevBas   string  `json:"dx_lev_bas"`
	DXLevAdv   string  `json:"dx_lev_adv"`
	DXLevExp   string  `json:"dx_lev_exp"`
	DXLevMas   string  `json:"dx_lev_mas"`
	DXLevRemas string  `json:"dx_lev_remas"`
	LevUtage   *string `json:"lev_utage"`
	Kanji      *string `json:"kanji"`
	Comment    *string `json:"comment"`
}

// Normalize converts a raw record into its canonical form.
func Normalize(raw APISong) (Song, error) {
	release, err := normalize.Date(raw.Release, releaseZero, releaseLayout)
	if err != nil {
		return Song{}, fmt.Errorf("song %s: release: %w", raw.Sort, err)
	}

	isNew, err := normalize.TokenBool(deref(raw.Date), newToken)
	if err != nil {
		return Song{}, fmt.Errorf("song %s: date: %w", raw.Sort, err)
	}

	isLocked, err := normalize.TokenBool(deref(raw.Key), lockedToken)
	if err != nil {
		return Song{}, fmt.Errorf("song %s: key: %w", raw.Sort, err)
	}

	song := Song{
		ID:           raw.Sort,
		Title:        raw.Title,
		TitleReading: raw.TitleKana,
		Artist:       raw.Artist,
		Image:        raw.ImageURL,
		Category:     raw.CatCode,
		Version:      raw.Version,
		Release:      release,
		IsNew:        isNew,
		IsLocked:     isLocked,
		Levels: normalize.Collapse(LevelMap{
			Basic:    normalize.EmptyAsNil(raw.LevBas),
			Advanced: normalize.EmptyAsNil(raw.LevAdv),
			Expert:   normalize.EmptyAsNil(raw.LevExp),
			Master:   normalize.EmptyAsNil(raw.LevMas),
			ReMaster: normalize.EmptyAsNil(raw.LevRemas),
		}),
		DXLevels: normalize.Collapse(LevelMap{
			Basic:    normalize.EmptyAsNil(raw.DXLevBas),
			Advanced: normalize.EmptyAsNil(raw.DXLevAdv),
			Expert:   normalize.EmptyAsNil(raw.DXLevExp),
			Master:   normalize.EmptyAsNil(raw.DXLevMas),
			ReMaster: normalize.EmptyAsNil(raw.DXLevRemas),
		}),
	}

	if raw.LevUtage != nil && raw.Kanji != nil && raw.Comment != nil {
		song.Utage = &Utage{Level: *raw.LevUtage, Kanji: *raw.Kanji, Comment: *raw.Comment}
	}

	return song, nil
}

// CategoryKeys returns the category names used by songs and declared by the taxonomy.
func CategoryKeys(songs []Song, categories []Category) (used, declared []string) {
	for _, s := range songs {
		used = append(used, s.Category)
	}
	for _, c := range categories {
		declared = append(declared, c.Name)
	}
	return used, declared
}

func (s Song) Summary() models.SongSummary {
	var levels []string
	for _, l := range []*LevelMap{s.Levels, s.DXLevels} {
		if l == nil {
			continue
		}
		for _, v := range []*string{l.Basic, l.Advanced, l.Expert, l.Master, l.ReMaster} {
			if v != nil {
				levels = append(levels, *v)
			}
		}
	}
	if s.Utage != nil {
		levels = append(levels, s.Utage.Kanji+s.Utage.Level)
	}
	return models.SongSummary{
		ID:         s.ID,
		Title:      s.Title,
		Artist:     s.Artist,
		Categories: []string{s.Category},
		Levels:     levels,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
