package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/otoge/internal/shared"
	"golang.org/x/time/rate"
)

// DefaultPageWorkers bounds concurrent page fetches when no worker count is configured.
const DefaultPageWorkers = 10

// Client performs the outbound requests of every source.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	limiter     *rate.Limiter
	pageWorkers int
	logger      *log.Logger
}

// ClientOpts configures a [Client]. Zero values select defaults.
type ClientOpts struct {
	HTTPClient  *http.Client
	UserAgent   string
	Timeout     time.Duration
	RateLimit   float64 // requests per second, 0 disables limiting
	PageWorkers int
	Logger      *log.Logger
}

// NewClient creates a Client from opts.
func NewClient(opts ClientOpts) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.PageWorkers < 1 {
		opts.PageWorkers = DefaultPageWorkers
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		httpClient:  opts.HTTPClient,
		userAgent:   opts.UserAgent,
		limiter:     limiter,
		pageWorkers: opts.PageWorkers,
		logger:      opts.Logger,
	}
}

// PageWorkers returns the concurrency bound for paginated sources.
func (c *Client) PageWorkers() int {
	return c.pageWorkers
}

// Get issues a GET request and returns the response body.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrTransport, err)
	}
	return c.do(req)
}

// PostForm issues a form-encoded POST request and returns the response body.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// Document issues a GET request and parses the body as HTML.
func (c *Client) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return parseDocument(body)
}

// PostDocument issues a form POST and parses the body as HTML.
func (c *Client) PostDocument(ctx context.Context, rawURL string, form url.Values) (*goquery.Document, error) {
	body, err := c.PostForm(ctx, rawURL, form)
	if err != nil {
		return nil, err
	}
	return parseDocument(body)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", shared.ErrTransport, err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("request", "method", req.Method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s: status %d", shared.ErrTransport, req.Method, req.URL.Redacted(), resp.StatusCode)
	}

	return body, nil
}

func parseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse HTML: %v", shared.ErrDecode, err)
	}
	return doc, nil
}
