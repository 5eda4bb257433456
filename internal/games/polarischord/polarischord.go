// package polarischord holds the canonical POLARIS CHORD catalog records.
//
// Song categories arrive as a genre bitmask; bit i selects the i-th entry of [Categories].
// The taxonomy is checked element-for-element against the site's own category selector.
package polarischord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/normalize"
	"github.com/desertthunder/otoge/internal/services"
	"github.com/desertthunder/otoge/internal/shared"
)

type LevelMap struct {
	Easy      *int `toml:"easy,omitempty" json:"easy,omitempty"`
	Normal    *int `toml:"normal,omitempty" json:"normal,omitempty"`
	Hard      *int `toml:"hard,omitempty" json:"hard,omitempty"`
	Influence *int `toml:"influence,omitempty" json:"influence,omitempty"`
	Polar     *int `toml:"polar,omitempty" json:"polar,omitempty"`
}

type Category struct {
	Bitflag uint32 `toml:"bitflag" json:"bitflag"`
	Slug    string `toml:"slug" json:"slug"`
	Name    string `toml:"name" json:"name"`
}

type Song struct {
	ID         string     `toml:"id" json:"id"`
	Title      string     `toml:"title" json:"title"`
	Artist     string     `toml:"artist" json:"artist"`
	License    *string    `toml:"license,omitempty" json:"license,omitempty"`
	Levels     LevelMap   `toml:"levels" json:"levels"`
	Categories []Category `toml:"categories" json:"categories"`
}

// Categories returns the genre taxonomy in bit order.
func Categories() []Category {
	return []Category{
		{Bitflag: 1, Slug: "virtual", Name: "Virtual"},
		{Bitflag: 2, Slug: "social", Name: "ソーシャルミュージック"},
		{Bitflag: 3, Slug: "pops&anime", Name: "POPS&アニメ"},
		{Bitflag: 4, Slug: "touhou", Name: "東方"},
		{Bitflag: 5, Slug: "variety", Name: "バラエティ"},
		{Bitflag: 6, Slug: "original", Name: "オリジナル"},
	}
}

// APISong mirrors one element of data.musiclist.music.
type APISong struct {
	MusicID   string `json:"music_id"`
	Genre     uint32 `json:"genre"`
	Name      string `json:"name"`
	Composer  string `json:"composer"`
	License   string `json:"license"`
	Easy      int    `json:"easy"`
	Normal    int    `json:"normal"`
	Hard      int    `json:"hard"`
	Influence int    `json:"influence"`
	Polar     int    `json:"polar"`
}

// Normalize converts a raw record into its canonical form.
func Normalize(raw APISong) (Song, error) {
	return Song{
		ID:      raw.MusicID,
		Title:   raw.Name,
		Artist:  raw.Composer,
		License: normalize.EmptyAsNil(raw.License),
		Levels: LevelMap{
			Easy:      normalize.ZeroAsNil(raw.Easy),
			Normal:    normalize.ZeroAsNil(raw.Normal),
			Hard:      normalize.ZeroAsNil(raw.Hard),
			Influence: normalize.ZeroAsNil(raw.Influence),
			Polar:     normalize.ZeroAsNil(raw.Polar),
		},
		Categories: normalize.Bitflags(raw.Genre, Categories()),
	}, nil
}

const selCategoryOptions = "div#search > .category_select > select > option"

// ParseCategories reads the authoritative taxonomy from the music index page.
//
// The "all" pseudo-category (bitflag 0) is skipped.
func ParseCategories(doc *goquery.Document) ([]Category, error) {
	var categories []Category

	options := doc.Find(selCategoryOptions)
	for i := range options.Length() {
		opt := options.Eq(i)

		index, err := services.RequireAttr(opt, "data-index")
		if err != nil {
			return nil, fmt.Errorf("category %d: %w", i, err)
		}
		bitflag, err := strconv.ParseUint(index, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("category %d: %w: invalid data-index %q", i, shared.ErrDecode, index)
		}

		slug, err := services.RequireAttr(opt, "value")
		if err != nil {
			return nil, fmt.Errorf("category %d: %w", i, err)
		}

		var name strings.Builder
		for _, text := range services.TextNodes(opt) {
			name.WriteString(strings.TrimSpace(text))
		}

		if bitflag == 0 && slug == "all" {
			continue
		}

		categories = append(categories, Category{Bitflag: uint32(bitflag), Slug: slug, Name: name.String()})
	}

	return categories, nil
}

func (s Song) Summary() models.SongSummary {
	names := make([]string, 0, len(s.Categories))
	for _, c := range s.Categories {
		names = append(names, c.Name)
	}

	var levels []string
	l := s.Levels
	for _, v := range []*int{l.Easy, l.Normal, l.Hard, l.Influence, l.Polar} {
		if v != nil {
			levels = append(levels, strconv.Itoa(*v))
		}
	}

	return models.SongSummary{
		ID:         s.ID,
		Title:      s.Title,
		Artist:     s.Artist,
		Categories: names,
		Levels:     levels,
	}
}
