package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/shared"
)

// MusicListForm is the form body requested by FormJSON sources.
func MusicListForm() url.Values {
	return url.Values{"service_kind": {"music_list"}}
}

// ExtractOpts carries the per-source inputs of [Extract].
type ExtractOpts[R any] struct {
	// Strict rejects records carrying fields R does not declare.
	Strict bool
	// Form is the body POSTed by FormJSON sources. Defaults to [MusicListForm].
	Form url.Values
	// Pager parses PagedHTML sources.
	Pager *Pager[R]
}

// Extract retrieves the raw records of the source described by d using its strategy.
func Extract[R any](ctx context.Context, c *Client, d models.Descriptor, opts ExtractOpts[R]) ([]R, error) {
	switch d.Strategy {
	case models.DirectJSON:
		return FetchJSON[R](ctx, c, d.URL, opts.Strict)
	case models.FormJSON:
		form := opts.Form
		if form == nil {
			form = MusicListForm()
		}
		return FetchFormJSON[R](ctx, c, d.URL, form, opts.Strict)
	case models.PagedHTML:
		if opts.Pager == nil {
			return nil, fmt.Errorf("%w: %s: paged source without a pager", shared.ErrInvalidConfig, d.Name)
		}
		return FetchPages(ctx, c, d.URL, *opts.Pager)
	default:
		return nil, fmt.Errorf("%w: %s: unknown strategy %d", shared.ErrInvalidConfig, d.Name, d.Strategy)
	}
}

// FetchJSON issues a GET and decodes the body as a JSON array of R.
func FetchJSON[R any](ctx context.Context, c *Client, rawURL string, strict bool) ([]R, error) {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var records []R
	if err := decodeJSON(body, &records, strict); err != nil {
		return nil, err
	}
	return records, nil
}

// musicListEnvelope is the response shape of FormJSON sources.
type musicListEnvelope[R any] struct {
	Data struct {
		MusicList struct {
			Music []R `json:"music"`
		} `json:"musiclist"`
	} `json:"data"`
}

// FetchFormJSON POSTs form and decodes records from data.musiclist.music.
func FetchFormJSON[R any](ctx context.Context, c *Client, rawURL string, form url.Values, strict bool) ([]R, error) {
	body, err := c.PostForm(ctx, rawURL, form)
	if err != nil {
		return nil, err
	}

	var envelope musicListEnvelope[R]
	if err := decodeJSON(body, &envelope, strict); err != nil {
		return nil, err
	}
	return envelope.Data.MusicList.Music, nil
}

func decodeJSON(body []byte, v any, strict bool) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrDecode, err)
	}
	return nil
}
