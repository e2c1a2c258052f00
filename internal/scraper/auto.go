package scraper

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// FetchMode determines how pages are fetched.
type FetchMode string

const (
	FetchModeAuto    FetchMode = "auto"
	FetchModeStatic  FetchMode = "static"
	FetchModeDynamic FetchMode = "dynamic"
)

// NewFetcher creates an appropriate fetcher based on mode.
func NewFetcher(mode FetchMode, cfg FetcherConfig) (Fetcher, error) {
	switch mode {
	case FetchModeStatic:
		return NewStaticFetcher(cfg), nil
	case FetchModeDynamic:
		return NewDynamicFetcher(cfg)
	case FetchModeAuto:
		return NewAutoFetcher(cfg)
	default:
		return nil, fmt.Errorf("unknown fetch mode %q (expected auto, static or dynamic)", mode)
	}
}

// AutoFetcher tries the plain HTTP fetcher first and falls back to the
// headless browser when the page comes back without a results table,
// which is what a client-side-rendered directory looks like to a
// non-JS client.
type AutoFetcher struct {
	static  Fetcher
	dynamic Fetcher
}

// NewAutoFetcher creates a fetcher that detects when a page needs a
// browser. The browser itself is not launched until the first fallback.
func NewAutoFetcher(cfg FetcherConfig) (*AutoFetcher, error) {
	dynamic, err := NewDynamicFetcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic fetcher: %w", err)
	}

	return &AutoFetcher{
		static:  NewStaticFetcher(cfg),
		dynamic: dynamic,
	}, nil
}

// Fetch tries static first, then falls back to dynamic if needed.
func (f *AutoFetcher) Fetch(ctx context.Context, url string, opts FetchOptions) (PageContent, error) {
	content, err := f.static.Fetch(ctx, url, opts)
	if err != nil {
		return f.dynamic.Fetch(ctx, url, opts)
	}

	if needsBrowser(content) {
		return f.dynamic.Fetch(ctx, url, opts)
	}

	return content, nil
}

// needsBrowser reports whether a statically fetched page is missing the
// headered results table, meaning the directory rendered it with
// JavaScript and only a real browser will see the rows.
func needsBrowser(content PageContent) bool {
	doc, err := ParseDocument(content.HTML)
	if err != nil {
		return true
	}

	found := false
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if len(tableHeaders(table)) > 0 {
			found = true
			return false
		}
		return true
	})
	return !found
}

// Close releases the browser; the static fetcher holds no resources.
func (f *AutoFetcher) Close() error {
	return f.dynamic.Close()
}

// Type returns the fetcher type.
func (f *AutoFetcher) Type() string {
	return "auto"
}
