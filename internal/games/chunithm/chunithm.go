// package chunithm holds the canonical CHUNITHM catalog records shared by the JP and international sites.
package chunithm

import (
	"fmt"

	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/normalize"
)

// LevelMap holds the chart level per difficulty. Missing charts are nil.
type LevelMap struct {
	Basic    *string `toml:"basic,omitempty" json:"basic,omitempty"`
	Advanced *string `toml:"advanced,omitempty" json:"advanced,omitempty"`
	Expert   *string `toml:"expert,omitempty" json:"expert,omitempty"`
	Master   *string `toml:"master,omitempty" json:"master,omitempty"`
	Ultima   *string `toml:"ultima,omitempty" json:"ultima,omitempty"`
}

// WorldsEnd describes a WORLD'S END chart: its kanji attribute and star rating.
type WorldsEnd struct {
	Kanji string `toml:"kanji" json:"kanji"`
	Star  string `toml:"star" json:"star"`
}

type Song struct {
	ID           string     `toml:"id" json:"id"`
	Title        string     `toml:"title" json:"title"`
	TitleReading string     `toml:"title_reading" json:"title_reading"`
	Artist       string     `toml:"artist" json:"artist"`
	Image        string     `toml:"image" json:"image"`
	Category     string     `toml:"category" json:"category"`
	IsNew        bool       `toml:"is_new" json:"is_new"`
	Levels       *LevelMap  `toml:"levels,omitempty" json:"levels,omitempty"`
	WorldsEnd    *WorldsEnd `toml:"worlds_end,omitempty" json:"worlds_end,omitempty"`
}

type Category struct {
	Slug string `toml:"slug" json:"slug"`
	Name string `toml:"name" json:"name"`
}

// Categories returns the category taxonomy in display order.
func Categories() []Category {
	return []Category{
		{Slug: "pops_anime", Name: "POPS & ANIME"},
		{Slug: "niconico", Name: "niconico"},
		{Slug: "toho", Name: "東方Project"},
		{Slug: "variety", Name: "VARIETY"},
		{Slug: "irodorimidori", Name: "イロドリミドリ"},
		{Slug: "gekimai", Name: "ゲキマイ"},
		{Slug: "original", Name: "ORIGINAL"},
	}
}

// APISong mirrors one element of music.json.
type APISong struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Reading string `json:"reading"`
	Artist  string `json:"artist"`
	Image   string `json:"image"`
	CatName string `json:"catname"`
	NewFlag string `json:"newflag"`
	LevBas  string `json:"lev_bas"`
	LevAdv  string `json:"lev_adv"`
	LevExp  string `json:"lev_exp"`
	LevMas  string `json:"lev_mas"`
	LevUlt  string `json:"lev_ult"`
	WeKanji string `json:"we_kanji"`
	WeStar  string `json:"we_star"`
}

// Normalize converts a raw record into its canonical form.
func Normalize(raw APISong) (Song, error) {
	isNew, err := normalize.BinaryBool(raw.NewFlag)
	if err != nil {
		return Song{}, fmt.Errorf("song %s: newflag: %w", raw.ID, err)
	}

	return Song{
		ID:           raw.ID,
		Title:        raw.Title,
		TitleReading: raw.Reading,
		Artist:       raw.Artist,
		Image:        raw.Image,
		Category:     raw.CatName,
		IsNew:        isNew,
		Levels: normalize.Collapse(LevelMap{
			Basic:    normalize.EmptyAsNil(raw.LevBas),
			Advanced: normalize.EmptyAsNil(raw.LevAdv),
			Expert:   normalize.EmptyAsNil(raw.LevExp),
			Master:   normalize.EmptyAsNil(raw.LevMas),
			Ultima:   normalize.EmptyAsNil(raw.LevUlt),
		}),
		WorldsEnd: normalize.Collapse(WorldsEnd{Kanji: raw.WeKanji, Star: raw.WeStar}),
	}, nil
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
	if l := s.Levels; l != nil {
		levels = compact(l.Basic, l.Advanced, l.Expert, l.Master, l.Ultima)
	}
	if s.WorldsEnd != nil {
		levels = append(levels, s.WorldsEnd.Kanji+s.WorldsEnd.Star)
	}
	return models.SongSummary{
		ID:         s.ID,
		Title:      s.Title,
		Artist:     s.Artist,
		Categories: []string{s.Category},
		Levels:     levels,
	}
}

func compact(values ...*string) []string {
	var out []string
	for _, v := range values {
		if v != nil {
			out = append(out, *v)
		}
	}
	return out
}
