package tasks

import (
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/otoge/internal/games/chunithm"
	"github.com/desertthunder/otoge/internal/games/maimai"
	"github.com/desertthunder/otoge/internal/games/ongeki"
	"github.com/desertthunder/otoge/internal/games/polarischord"
	"github.com/desertthunder/otoge/internal/games/soundvoltex"
	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/services"
	"github.com/desertthunder/otoge/internal/shared"
)

// Source names. They double as snapshot directory names.
const (
	SoundVoltex  = "soundvoltex"
	ChunithmJP   = "chunithm_jp"
	ChunithmIntl = "chunithm_intl"
	Ongeki       = "ongeki"
	MaimaiJP     = "maimai_jp"
	MaimaiIntl   = "maimai_intl"
	PolarisChord = "polarischord"
)

// Default endpoints, overridable per source through [shared.SourceConfig].
const (
	soundVoltexURL     = "https://p.eagate.573.jp/game/sdvx/vi/music/index.html"
	chunithmJPURL      = "https://chunithm.sega.jp/storage/json/music.json"
	chunithmIntlURL    = "https://chunithm.sega.com/assets/data/music.json"
	ongekiURL          = "https://ongeki.sega.jp/assets/json/music/music.json"
	maimaiJPURL        = "https://maimai.sega.jp/data/maimai_songs.json"
	maimaiIntlURL      = "https://maimai.sega.com/assets/data/maimai_songs.json"
	polarisChordURL    = "https://p.eagate.573.jp/game/polarischord/pc/json/common_getdata.html"
	polarisChordCatURL = "https://p.eagate.573.jp/game/polarischord/pc/music/index.html"
)

// Names returns every source name in dispatch order.
func Names() []string {
	return []string{SoundVoltex, ChunithmJP, ChunithmIntl, Ongeki, MaimaiJP, MaimaiIntl, PolarisChord}
}

// Sources builds the dispatch table from cfg, in [Names] order, leaving out disabled sources.
func Sources(cfg *shared.Config) []Source {
	all := []Source{
		&pipeline[soundvoltex.RawSong, soundvoltex.Song, soundvoltex.Category]{
			desc:              descriptor(cfg, SoundVoltex, soundVoltexURL, "", models.PagedHTML),
			extract:           services.ExtractOpts[soundvoltex.RawSong]{Pager: soundvoltex.Pager()},
			normalize:         soundvoltex.Normalize,
			categories:        soundvoltex.Categories,
			check:             setCheck(soundvoltex.CategoryKeys),
			compareCategories: true,
		},
		&pipeline[chunithm.APISong, chunithm.Song, chunithm.Category]{
			desc:              descriptor(cfg, ChunithmJP, chunithmJPURL, "", models.DirectJSON),
			extract:           services.ExtractOpts[chunithm.APISong]{Strict: true},
			normalize:         chunithm.Normalize,
			categories:        chunithm.Categories,
			check:             setCheck(chunithm.CategoryKeys),
			compareCategories: true,
		},
		&pipeline[chunithm.APISong, chunithm.Song, chunithm.Category]{
			desc:              descriptor(cfg, ChunithmIntl, chunithmIntlURL, "", models.DirectJSON),
			extract:           services.ExtractOpts[chunithm.APISong]{Strict: true},
			normalize:         chunithm.Normalize,
			categories:        chunithm.Categories,
			check:             setCheck(chunithm.CategoryKeys),
			compareCategories: true,
		},
		&pipeline[ongeki.APISong, ongeki.Song, ongeki.Category]{
			desc:       descriptor(cfg, Ongeki, ongekiURL, "", models.DirectJSON),
			extract:    services.ExtractOpts[ongeki.APISong]{Strict: true},
			normalize:  ongeki.Normalize,
			categories: ongeki.Categories,
			check:      setCheck(ongeki.CategoryKeys),
		},
		&pipeline[maimai.APISong, maimai.Song, maimai.Category]{
			desc:              descriptor(cfg, MaimaiJP, maimaiJPURL, "", models.DirectJSON),
			extract:           services.ExtractOpts[maimai.APISong]{Strict: true},
			normalize:         maimai.Normalize,
			categories:        maimai.JPCategories,
			check:             setCheck(maimai.CategoryKeys),
			compareCategories: true,
		},
		&pipeline[maimai.APISong, maimai.Song, maimai.Category]{
			desc:              descriptor(cfg, MaimaiIntl, maimaiIntlURL, "", models.DirectJSON),
			extract:           services.ExtractOpts[maimai.APISong]{Strict: true},
			normalize:         maimai.Normalize,
			categories:        maimai.IntlCategories,
			check:             setCheck(maimai.CategoryKeys),
			compareCategories: true,
		},
	}

	polaris := descriptor(cfg, PolarisChord, polarisChordURL, polarisChordCatURL, models.FormJSON)
	all = append(all, &pipeline[polarischord.APISong, polarischord.Song, polarischord.Category]{
		desc:              polaris,
		normalize:         polarischord.Normalize,
		categories:        polarischord.Categories,
		check:             sequenceCheck[polarischord.Song](polaris.CategoryURL, polarischord.ParseCategories),
		compareCategories: true,
	})

	enabled := make([]Source, 0, len(all))
	for _, s := range all {
		if !cfg.Source(s.Descriptor().Name).Disabled {
			enabled = append(enabled, s)
		}
	}
	return enabled
}

// Select keeps the sources named in only, preserving dispatch order. An empty only keeps all.
func Select(sources []Source, only []string) ([]Source, error) {
	if len(only) == 0 {
		return sources, nil
	}

	known := make([]string, 0, len(sources))
	for _, s := range sources {
		known = append(known, s.Descriptor().Name)
	}
	for _, name := range only {
		if !slices.Contains(known, name) {
			return nil, fmt.Errorf("%w: %q (available: %s)", shared.ErrUnknownSource, name, strings.Join(known, ", "))
		}
	}

	selected := make([]Source, 0, len(only))
	for _, s := range sources {
		if slices.Contains(only, s.Descriptor().Name) {
			selected = append(selected, s)
		}
	}
	return selected, nil
}

func descriptor(cfg *shared.Config, name, url, categoryURL string, strategy models.Strategy) models.Descriptor {
	override := cfg.Source(name)
	if override.URL != "" {
		url = override.URL
	}
	if override.CategoryURL != "" {
		categoryURL = override.CategoryURL
	}
	return models.Descriptor{Name: name, URL: url, Strategy: strategy, CategoryURL: categoryURL}
}
