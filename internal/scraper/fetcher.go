// Package scraper fetches directory result pages and extracts records
// from them, following the site's own pagination.
package scraper

import (
	"context"
	"time"
)

// PageContent represents one fetched result page.
type PageContent struct {
	URL        string
	HTML       string
	StatusCode int
	FetchedAt  time.Time
}

// FetchOptions controls fetching behavior.
type FetchOptions struct {
	UserAgent       string
	Timeout         time.Duration
	WaitForSelector string // CSS selector to wait for (dynamic only)
}

// DefaultFetchOptions returns sensible defaults.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		UserAgent: DefaultFetcherConfig().UserAgent,
		Timeout:   DefaultFetcherConfig().Timeout,
	}
}

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts FetchOptions) (PageContent, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns "static" or "dynamic".
	Type() string
}

// FetcherConfig holds common fetcher configuration.
type FetcherConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// DefaultFetcherConfig returns sensible defaults. The user agent matches
// a desktop browser because the directory serves a cut-down page to
// unrecognized clients.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		Timeout:   30 * time.Second,
	}
}
