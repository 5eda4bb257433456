// package soundvoltex holds the canonical SOUND VOLTEX catalog records and the scraper for its paginated music list.
package soundvoltex

import (
	"fmt"
	"strings"

	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/shared"
)

type LevelMap struct {
	Novice   *string `toml:"novice,omitempty" json:"novice,omitempty"`
	Advanced *string `toml:"advanced,omitempty" json:"advanced,omitempty"`
	Exhaust  *string `toml:"exhaust,omitempty" json:"exhaust,omitempty"`
	Maximum  *string `toml:"maximum,omitempty" json:"maximum,omitempty"`
	Infinite *string `toml:"infinite,omitempty" json:"infinite,omitempty"`
	Gravity  *string `toml:"gravity,omitempty" json:"gravity,omitempty"`
	Heavenly *string `toml:"heavenly,omitempty" json:"heavenly,omitempty"`
	Vivid    *string `toml:"vivid,omitempty" json:"vivid,omitempty"`
	Exceed   *string `toml:"exceed,omitempty" json:"exceed,omitempty"`
}

type Category struct {
	ID   string `toml:"id" json:"id"`
	Name string `toml:"name" json:"name"`
}

// Song is one music list entry. The site exposes no stable id, so songs are identified by content.
type Song struct {
	Image      string     `toml:"image" json:"image"`
	Title      string     `toml:"title" json:"title"`
	Artist     string     `toml:"artist" json:"artist"`
	Categories []Category `toml:"categories" json:"categories"`
	Levels     LevelMap   `toml:"levels" json:"levels"`
}

// Categories returns the genre taxonomy in display order.
func Categories() []Category {
	return []Category{
		{ID: "pops", Name: "POPS&アニメ"},
		{ID: "toho", Name: "東方アレンジ"},
		{ID: "vocaloid", Name: "ボーカロイド"},
		{ID: "bemani", Name: "BEMANI"},
		{ID: "hinabita", Name: "ひなビタ♪/バンめし♪"},
		{ID: "floor", Name: "FLOOR"},
		{ID: "sdvx", Name: "SDVXオリジナル"},
		{ID: "others", Name: "その他"},
	}
}

// LevelToken is a difficulty badge as scraped: its CSS class and displayed level.
type LevelToken struct {
	Class string
	Value string
}

// RawSong is a music list entry before its level badges are resolved.
type RawSong struct {
	Image      string
	Title      string
	Artist     string
	Categories []Category
	Levels     []LevelToken
}

// Normalize resolves level badge classes into a [LevelMap].
func Normalize(raw RawSong) (Song, error) {
	var levels LevelMap
	for _, tok := range raw.Levels {
		value := tok.Value
		switch tok.Class {
		case "nov":
			levels.Novice = &value
		case "adv":
			levels.Advanced = &value
		case "exh":
			levels.Exhaust = &value
		case "mxm":
			levels.Maximum = &value
		case "inf":
			levels.Infinite = &value
		case "grv":
			levels.Gravity = &value
		case "hvn":
			levels.Heavenly = &value
		case "vvd":
			levels.Vivid = &value
		case "xcd":
			levels.Exceed = &value
		default:
			return Song{}, fmt.Errorf("%s: %w: unknown level type %q", raw.Title, shared.ErrDecode, tok.Class)
		}
	}

	return Song{
		Image:      raw.Image,
		Title:      raw.Title,
		Artist:     raw.Artist,
		Categories: raw.Categories,
		Levels:     levels,
	}, nil
}

// CategoryKeys flattens every song's genres into (id, name) pairs alongside the declared pairs.
func CategoryKeys(songs []Song, categories []Category) (used, declared []Category) {
	for _, s := range songs {
		used = append(used, s.Categories...)
	}
	return used, categories
}

func (c Category) String() string {
	return c.ID + ":" + c.Name
}

func (s Song) Summary() models.SongSummary {
	names := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		names = append(names, c.Name)
	}

	var levels []string
	l := s.Levels
	for _, v := range []*string{l.Novice, l.Advanced, l.Exhaust, l.Maximum, l.Infinite, l.Gravity, l.Heavenly, l.Vivid, l.Exceed} {
		if v != nil {
			levels = append(levels, strings.TrimSpace(*v))
		}
	}

	return models.SongSummary{
		Title:      s.Title,
		Artist:     s.Artist,
		Categories: names,
		Levels:     levels,
	}
}
