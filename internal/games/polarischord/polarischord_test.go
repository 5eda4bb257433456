package polarischord

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/otoge/internal/shared"
	"github.com/google/go-cmp/cmp"
)

// categoryPage renders the category selector the way the music index does.
func categoryPage(options string) string {
	return `<html><body><div id="search"><div class="category_select"><select>` +
		`<option data-index="0" value="all">ALL</option>` + options +
		`</select></div></div></body></html>`
}

func allOptions() string {
	var b strings.Builder
	for _, c := range Categories() {
		fmt.Fprintf(&b, "<option data-index=\"%d\" value=\"%s\">\n  %s\n</option>", c.Bitflag, html.EscapeString(c.Slug), html.EscapeString(c.Name))
	}
	return b.String()
}

func TestNormalize(t *testing.T) {
	got, err := Normalize(APISong{
		MusicID:  "m001",
		Genre:    0b000101,
		Name:     "Song",
		Composer: "Composer",
		Easy:     3,
		Normal:   7,
		Hard:     0,
		Polar:    13,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantCats := []Category{Categories()[0], Categories()[2]}
	if diff := cmp.Diff(wantCats, got.Categories); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}
	if got.License != nil {
		t.Errorf("expected empty license to be nil, got %q", *got.License)
	}
	if got.Levels.Hard != nil || got.Levels.Influence != nil {
		t.Errorf("expected zero levels to be nil, got %+v", got.Levels)
	}
	if got.Levels.Polar == nil || *got.Levels.Polar != 13 {
		t.Errorf("unexpected polar level %v", got.Levels.Polar)
	}
}

func TestParseCategories(t *testing.T) {
	t.Run("matches taxonomy", func(t *testing.T) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(categoryPage(allOptions())))
		if err != nil {
			t.Fatalf("failed to parse fixture: %v", err)
		}

		got, err := ParseCategories(doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(Categories(), got); diff != "" {
			t.Errorf("categories mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing data-index", func(t *testing.T) {
		doc, _ := goquery.NewDocumentFromReader(strings.NewReader(categoryPage(`<option value="x">X</option>`)))
		if _, err := ParseCategories(doc); !errors.Is(err, shared.ErrDecode) {
			t.Errorf("expected decode error, got %v", err)
		}
	})

	t.Run("non-numeric data-index", func(t *testing.T) {
		doc, _ := goquery.NewDocumentFromReader(strings.NewReader(categoryPage(`<option data-index="a" value="x">X</option>`)))
		if _, err := ParseCategories(doc); !errors.Is(err, shared.ErrDecode) {
			t.Errorf("expected decode error, got %v", err)
		}
	})
}
