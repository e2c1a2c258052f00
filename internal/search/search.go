// Package search orchestrates one directory query: it takes a resolved
// FilterSet (explicit or natural-language), builds the site query, and
// drives the paginated scrape.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/herddir/herddir/internal/directory"
	"github.com/herddir/herddir/internal/logger"
	"github.com/herddir/herddir/internal/resolver"
	"github.com/herddir/herddir/internal/scraper"
)

// ErrNoResolver is returned when a natural-language query is attempted
// without language model credentials configured. This is surfaced
// before any resolution, never silently downgraded to static filters.
var ErrNoResolver = errors.New("no language model credentials configured (set OPENROUTER_API_KEY, ANTHROPIC_API_KEY or OPENAI_API_KEY)")

// Config holds the explicit dependencies of a Searcher. Nothing here is
// read from ambient globals so the orchestrator stays testable.
type Config struct {
	// BaseURL is the directory's search endpoint.
	BaseURL string `validate:"required,url"`

	// Delay is the politeness pause between consecutive page fetches.
	Delay time.Duration `validate:"min=0"`

	// Timeout bounds each individual network call.
	Timeout time.Duration `validate:"min=0"`

	// MaxPages caps pagination (0 = follow the site's own count).
	MaxPages int `validate:"min=0"`

	UserAgent string
}

// DefaultConfig returns the production defaults for the AMGR directory.
func DefaultConfig() Config {
	return Config{
		BaseURL:  "https://www.amgr.org/frm_directorySearch.cfm",
		Delay:    time.Second,
		Timeout:  30 * time.Second,
		MaxPages: 0,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Result is the outcome of one directory query. Warning is non-nil when
// pagination stopped early; the records collected so far are still
// returned, since a truncated answer beats none.
type Result struct {
	Filters directory.FilterSet
	Columns []string
	Records []directory.Record
	Warning *scraper.PartialResult
}

// Searcher runs directory queries. One Searcher owns one fetcher and,
// optionally, one natural-language resolver for its lifetime.
type Searcher struct {
	cfg       Config
	fetcher   scraper.Fetcher
	nl        *resolver.Resolver
	paginator *scraper.Paginator
}

// New creates a Searcher. nl may be nil when no model credentials are
// available; natural-language queries then fail with ErrNoResolver.
func New(cfg Config, fetcher scraper.Fetcher, nl *resolver.Resolver) (*Searcher, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid search config: %w", err)
	}
	if fetcher == nil {
		return nil, errors.New("search: fetcher is required")
	}

	paginator := scraper.NewPaginator(fetcher,
		scraper.WithDelay(cfg.Delay),
		scraper.WithMaxPages(cfg.MaxPages),
		scraper.WithFetchOptions(scraper.FetchOptions{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
		}),
	)

	return &Searcher{
		cfg:       cfg,
		fetcher:   fetcher,
		nl:        nl,
		paginator: paginator,
	}, nil
}

// Search runs one query for the given filters. An entirely empty
// FilterSet is a valid "list everything" query.
func (s *Searcher) Search(ctx context.Context, filters directory.FilterSet) (Result, error) {
	logger.Info("searching directory", "filters", filters.String())

	res, err := s.paginator.Run(ctx, s.cfg.BaseURL, filters.Values())
	if err != nil {
		return Result{}, err
	}

	logger.Info("search complete",
		"rows", len(res.Records),
		"partial", res.Partial != nil)

	return Result{
		Filters: filters,
		Columns: res.Columns,
		Records: res.Records,
		Warning: res.Partial,
	}, nil
}

// SearchNatural resolves a free-form sentence into filters, then runs
// the query. Resolution fully completes before any scraping starts;
// resolver failures propagate typed and the site is never contacted.
func (s *Searcher) SearchNatural(ctx context.Context, sentence string) (Result, error) {
	if s.nl == nil {
		return Result{}, ErrNoResolver
	}

	filters, err := s.nl.Resolve(ctx, sentence)
	if err != nil {
		return Result{}, err
	}

	logger.Info("resolved natural-language query", "filters", filters.String())
	return s.Search(ctx, filters)
}

// Close releases the underlying fetcher.
func (s *Searcher) Close() error {
	return s.fetcher.Close()
}
