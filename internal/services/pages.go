package services

import (
	"cmp"
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/semaphore"
)

// Pager parses one paginated listing.
type Pager[R any] struct {
	// Count returns the highest page index advertised by a page. Values below 2 mean a single page.
	Count func(doc *goquery.Document) (int, error)
	// Parse extracts the records of a single page.
	Parse func(doc *goquery.Document) ([]R, error)
}

type page[R any] struct {
	index   int
	records []R
	err     error
}

// PageForm is the form body requesting page n.
func PageForm(n int) url.Values {
	return url.Values{"page": {strconv.Itoa(n)}}
}

// FetchPages fetches page 1, then pages 2..N with at most [Client.PageWorkers] requests in flight.
//
// The first failing page aborts the call. Fetches already in flight are not cancelled; they finish
// into a buffered channel and are discarded. Records are returned in page order.
func FetchPages[R any](ctx context.Context, c *Client, rawURL string, p Pager[R]) ([]R, error) {
	first, err := fetchPage(ctx, c, rawURL, 1, p)
	if err != nil {
		return nil, err
	}

	doc := first.doc
	total, err := p.Count(doc)
	if err != nil {
		return nil, fmt.Errorf("page 1: %w", err)
	}
	c.logger.Info("got page count", "url", rawURL, "pages", total)

	pages := []page[R]{{index: 1, records: first.records}}
	if total < 2 {
		return pages[0].records, nil
	}

	sem := semaphore.NewWeighted(int64(c.pageWorkers))
	results := make(chan page[R], total-1)

	for n := 2; n <= total; n++ {
		go func(n int) {
			if err := sem.Acquire(ctx, 1); err != nil {
				results <- page[R]{index: n, err: fmt.Errorf("page %d: %w", n, err)}
				return
			}
			defer sem.Release(1)

			fetched, err := fetchPage(ctx, c, rawURL, n, p)
			if err != nil {
				results <- page[R]{index: n, err: err}
				return
			}
			results <- page[R]{index: n, records: fetched.records}
		}(n)
	}

	for range total - 1 {
		res := <-results
		if res.err != nil {
			return nil, res.err
		}
		pages = append(pages, res)
	}

	slices.SortFunc(pages, func(a, b page[R]) int { return cmp.Compare(a.index, b.index) })

	var records []R
	for _, pg := range pages {
		records = append(records, pg.records...)
	}
	return records, nil
}

type fetchedPage[R any] struct {
	doc     *goquery.Document
	records []R
}

func fetchPage[R any](ctx context.Context, c *Client, rawURL string, n int, p Pager[R]) (*fetchedPage[R], error) {
	c.logger.Debug("fetching page", "url", rawURL, "page", n)

	doc, err := c.PostDocument(ctx, rawURL, PageForm(n))
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", n, err)
	}

	records, err := p.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", n, err)
	}
	return &fetchedPage[R]{doc: doc, records: records}, nil
}
