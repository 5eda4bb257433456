package soundvoltex

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/otoge/internal/services"
	"github.com/desertthunder/otoge/internal/shared"
)

const (
	selMusicEntry  = "#music-result > .music"
	selPageOptions = "#music-result > select#search_page > option"
	selImage       = ".cat > .jk > a[href] > img"
	selGenre       = ".genre"
	selInfo        = ".cat > .inner > .info > p"
	selLevel       = ".cat > .inner > .level > p"
)

// Pager returns the page parser for the music list.
func Pager() *services.Pager[RawSong] {
	return &services.Pager[RawSong]{Count: ParsePageCount, Parse: ParsePage}
}

// ParsePageCount returns the highest page index offered by the page selector, 0 when there is none.
func ParsePageCount(doc *goquery.Document) (int, error) {
	maxPage := 0
	var err error
	doc.Find(selPageOptions).EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		value := opt.AttrOr("value", "0")
		n, convErr := strconv.Atoi(value)
		if convErr != nil {
			err = fmt.Errorf("%w: invalid page option %q", shared.ErrDecode, value)
			return false
		}
		maxPage = max(maxPage, n)
		return true
	})
	return maxPage, err
}

// ParsePage extracts every music entry of one list page.
func ParsePage(doc *goquery.Document) ([]RawSong, error) {
	entries := doc.Find(selMusicEntry)
	songs := make([]RawSong, 0, entries.Length())

	var err error
	entries.EachWithBreak(func(i int, entry *goquery.Selection) bool {
		var song RawSong
		if song, err = parseEntry(entry); err != nil {
			err = fmt.Errorf("entry %d: %w", i, err)
			return false
		}
		songs = append(songs, song)
		return true
	})
	if err != nil {
		return nil, err
	}
	return songs, nil
}

func parseEntry(entry *goquery.Selection) (RawSong, error) {
	var song RawSong

	genres := entry.Find(selGenre)
	for i := range genres.Length() {
		g := genres.Eq(i)
		id := ""
		for _, class := range strings.Fields(g.AttrOr("class", "")) {
			if class != "genre" {
				id = class
				break
			}
		}
		if id == "" {
			return song, fmt.Errorf("%w: genre without id class", shared.ErrDecode)
		}
		name, err := services.FirstText(g)
		if err != nil {
			return song, err
		}
		song.Categories = append(song.Categories, Category{ID: id, Name: name})
	}

	levels := entry.Find(selLevel)
	for i := range levels.Length() {
		lv := levels.Eq(i)
		class, err := services.RequireAttr(lv, "class")
		if err != nil {
			return song, err
		}
		value, err := services.FirstText(lv)
		if err != nil {
			return song, err
		}
		song.Levels = append(song.Levels, LevelToken{Class: class, Value: value})
	}

	info := entry.Find(selInfo)
	if info.Length() < 2 {
		return song, fmt.Errorf("%w: expected title and artist, found %d info nodes", shared.ErrDecode, info.Length())
	}
	song.Title = services.JoinText(info.Eq(0), " ")
	song.Artist = services.JoinText(info.Eq(1), " ")

	img, err := services.RequireOne(entry, selImage)
	if err != nil {
		return song, err
	}
	if song.Image, err = services.RequireAttr(img, "src"); err != nil {
		return song, err
	}

	return song, nil
}
