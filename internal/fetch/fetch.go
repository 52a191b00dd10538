// Package fetch retrieves the bibliography document the publication list is
// built from.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/time/rate"
)

const (
	// DefaultLocation is the bibliography path relative to the site root.
	DefaultLocation = "publications.bib"

	// DefaultRateLimit is the request rate of an HTTPSource, per second.
	DefaultRateLimit = 1.0
)

// Source produces the raw bibliography text.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

// HTTPSource GETs the bibliography from a URL.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.httpClient = hc
	}
}

// WithRateLimit sets the number of requests allowed per second.
// A non-positive value disables limiting.
func WithRateLimit(perSecond float64) HTTPOption {
	return func(s *HTTPSource) {
		if perSecond <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewHTTPSource creates a source for url. No timeout is applied beyond the
// caller's context.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:        url,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the address the source fetches.
func (s *HTTPSource) URL() string {
	return s.url
}

// Fetch performs one GET request and returns the body as text.
func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/plain, application/x-bibtex;q=0.9, */*;q=0.5")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: s.url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", ErrTransport, err)
	}
	return string(body), nil
}

// FileSource reads the bibliography from the local filesystem.
type FileSource struct {
	Path string
}

// Fetch reads the whole file.
func (s FileSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("reading bibliography: %w", err)
	}
	return string(data), nil
}

// StringSource serves a fixed document.
type StringSource string

// Fetch returns the document.
func (s StringSource) Fetch(ctx context.Context) (string, error) {
	return string(s), ctx.Err()
}

// NewSource returns an HTTPSource for http(s) locations and a FileSource
// otherwise.
func NewSource(location string, opts ...HTTPOption) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, opts...)
	}
	return FileSource{Path: location}
}

// Describe returns a short label for logs.
func Describe(src Source) string {
	switch s := src.(type) {
	case *HTTPSource:
		return s.url
	case FileSource:
		return s.Path
	case StringSource:
		return "inline"
	default:
		return fmt.Sprintf("%T", src)
	}
}

// Counting wraps a Source and counts calls to Fetch.
type Counting struct {
	Source Source
	calls  atomic.Int64
}

// Fetch delegates to the wrapped source.
func (c *Counting) Fetch(ctx context.Context) (string, error) {
	c.calls.Add(1)
	if c.Source == nil {
		return "", errors.New("no source configured")
	}
	return c.Source.Fetch(ctx)
}

// Calls returns how many times Fetch ran.
func (c *Counting) Calls() int {
	return int(c.calls.Load())
}
