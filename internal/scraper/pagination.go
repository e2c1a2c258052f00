package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/herddir/herddir/internal/directory"
	"github.com/herddir/herddir/internal/logger"
)

// PageCounter discovers how many result pages the first page references.
// The site-structure assumption lives entirely behind this interface so
// it can be swapped when the directory redesigns its pagination markup.
type PageCounter interface {
	Count(doc *goquery.Document) int
}

// PaginationControlCounter reads the site's DataTables-style pagination
// control: the highest page number labeled on a ul.pagination anchor.
// A page without the control is a single-page result.
type PaginationControlCounter struct{}

// Count returns the total page count, at least 1.
func (PaginationControlCounter) Count(doc *goquery.Document) int {
	max := 1
	doc.Find("ul.pagination a[data-dt-idx]").Each(func(_ int, s *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(s.Text()))
		if err != nil {
			// Prev/Next arrows and ellipses carry non-numeric labels.
			return
		}
		if n > max {
			max = n
		}
	})
	return max
}

// PartialResult is the non-fatal warning attached when pagination
// stopped before exhausting all advertised pages.
type PartialResult struct {
	Page       int // page that failed, 1-based
	TotalPages int
	Cause      error
}

func (w *PartialResult) String() string {
	return fmt.Sprintf("pagination stopped at page %d of %d: %v", w.Page, w.TotalPages, w.Cause)
}

// Result is the merged outcome of one paginated run, in fetch order.
// Partial is non-nil when pagination stopped early after page 1.
type Result struct {
	Columns []string
	Records []directory.Record
	Partial *PartialResult
}

// Paginator drives the record extractor across all result pages of one
// query, one page at a time, with a fixed politeness delay between
// consecutive fetches.
type Paginator struct {
	fetcher  Fetcher
	counter  PageCounter
	opts     FetchOptions
	delay    time.Duration
	maxPages int
	sleep    func(time.Duration)
}

// PaginatorOption configures a Paginator.
type PaginatorOption func(*Paginator)

// WithDelay sets the inter-request politeness delay.
func WithDelay(d time.Duration) PaginatorOption {
	return func(p *Paginator) { p.delay = d }
}

// WithPageCounter replaces the page-count discovery strategy.
func WithPageCounter(c PageCounter) PaginatorOption {
	return func(p *Paginator) { p.counter = c }
}

// WithMaxPages caps how many pages are fetched (0 = no cap).
func WithMaxPages(n int) PaginatorOption {
	return func(p *Paginator) { p.maxPages = n }
}

// WithFetchOptions sets per-request fetch options.
func WithFetchOptions(o FetchOptions) PaginatorOption {
	return func(p *Paginator) { p.opts = o }
}

// NewPaginator creates a Paginator over the given fetcher.
func NewPaginator(f Fetcher, opts ...PaginatorOption) *Paginator {
	p := &Paginator{
		fetcher: f,
		counter: PaginationControlCounter{},
		opts:    DefaultFetchOptions(),
		delay:   time.Second,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run fetches every result page for the query and returns the merged
// records in fetch order.
//
// Page 1 failing to fetch or parse is fatal (*ScrapeError or
// *ExtractionError). A failure on any later page ends pagination: the
// rows collected so far are returned with a PartialResult warning,
// because the site's advertised page count is not reliable.
func (p *Paginator) Run(ctx context.Context, baseURL string, query url.Values) (Result, error) {
	first := pageURL(baseURL, query, 1)

	content, err := p.fetcher.Fetch(ctx, first, p.opts)
	if err != nil {
		return Result{}, &ScrapeError{URL: first, Err: err}
	}

	doc, err := ParseDocument(content.HTML)
	if err != nil {
		return Result{}, &ExtractionError{URL: first, Reason: err.Error()}
	}

	page, err := ExtractPage(doc, first)
	if err != nil {
		return Result{}, err
	}

	result := Result{Columns: page.Columns, Records: page.Records}

	total := p.counter.Count(doc)
	if p.maxPages > 0 && total > p.maxPages {
		total = p.maxPages
	}
	logger.Debug("pagination discovered", "total_pages", total, "page1_rows", len(page.Records))

	for i := 2; i <= total; i++ {
		// Politeness throttle toward the origin server; applies between
		// every two consecutive fetches, never before page 1.
		p.sleep(p.delay)

		u := pageURL(baseURL, query, i)
		content, err := p.fetcher.Fetch(ctx, u, p.opts)
		if err != nil {
			result.Partial = &PartialResult{Page: i, TotalPages: total, Cause: err}
			logger.Warn("pagination stopped early", "page", i, "total_pages", total, "error", err)
			return result, nil
		}

		pg, err := ExtractHTML(content.HTML, u)
		if err != nil {
			result.Partial = &PartialResult{Page: i, TotalPages: total, Cause: err}
			logger.Warn("pagination stopped early", "page", i, "total_pages", total, "error", err)
			return result, nil
		}

		result.Records = append(result.Records, pg.Records...)
		logger.Debug("page merged", "page", i, "rows", len(pg.Records))
	}

	return result, nil
}

// pageURL builds the request URL for one result page. Page 1 carries no
// page parameter; later pages add page=N to the same filter query.
func pageURL(baseURL string, query url.Values, page int) string {
	v := url.Values{}
	for k, vals := range query {
		v[k] = append([]string(nil), vals...)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return baseURL
	}
	return baseURL + "?" + v.Encode()
}
