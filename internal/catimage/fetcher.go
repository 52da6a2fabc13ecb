package catimage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://cataas.com/cat/says"
	DefaultTimeout = 30 * time.Second
)

// ErrUnexpectedStatus is wrapped by every non-200 response.
var ErrUnexpectedStatus = errors.New("image api: unexpected status")

// FetcherOption defines a functional option for configuring a Fetcher.
type FetcherOption func(*Fetcher)

// Fetcher requests captioned cat pictures.
type Fetcher struct {
	BaseURL    string
	Width      int
	Height     int
	Color      string
	Type       string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewFetcher creates a Fetcher with the stock 500x500 orange square layout.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		BaseURL:    DefaultBaseURL,
		Width:      500,
		Height:     500,
		Color:      "orange",
		Type:       "square",
		Timeout:    DefaultTimeout,
		HTTPClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(f)
	}
	f.BaseURL = strings.TrimRight(f.BaseURL, "/")
	return f
}

// WithBaseURL overrides the image endpoint.
func WithBaseURL(baseURL string) FetcherOption {
	return func(f *Fetcher) {
		if baseURL != "" {
			f.BaseURL = baseURL
		}
	}
}

// WithSize overrides the picture dimensions.
func WithSize(width, height int) FetcherOption {
	return func(f *Fetcher) {
		if width > 0 {
			f.Width = width
		}
		if height > 0 {
			f.Height = height
		}
	}
}

// WithStyle overrides the caption color and picture type.
func WithStyle(color, typ string) FetcherOption {
	return func(f *Fetcher) {
		if color != "" {
			f.Color = color
		}
		if typ != "" {
			f.Type = typ
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.Timeout = d
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if c != nil {
			f.HTTPClient = c
		}
	}
}

// URL builds the request URL for text. The text is path-escaped, so slashes
// and other reserved characters stay part of the caption.
func (f *Fetcher) URL(text string) string {
	q := url.Values{}
	q.Set("width", strconv.Itoa(f.Width))
	q.Set("height", strconv.Itoa(f.Height))
	q.Set("color", f.Color)
	q.Set("type", f.Type)
	return f.BaseURL + "/" + url.PathEscape(text) + "?" + q.Encode()
}

// Fetch downloads the picture captioned with text. Only HTTP 200 yields bytes.
func (f *Fetcher) Fetch(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL(text), nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	return data, nil
}
