package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"testing"
	"time"
)

const testBaseURL = "https://www.example.org/frm_directorySearch.cfm"

// stubFetcher serves canned pages and records every fetch in order.
type stubFetcher struct {
	pages  map[string]string
	errs   map[string]error
	events *[]string
}

func (s *stubFetcher) Fetch(_ context.Context, u string, _ FetchOptions) (PageContent, error) {
	if s.events != nil {
		*s.events = append(*s.events, "fetch "+u)
	}
	if err := s.errs[u]; err != nil {
		return PageContent{URL: u}, err
	}
	html, ok := s.pages[u]
	if !ok {
		return PageContent{URL: u}, fmt.Errorf("unexpected fetch of %s", u)
	}
	return PageContent{URL: u, HTML: html, StatusCode: 200, FetchedAt: time.Now()}, nil
}

func (s *stubFetcher) Close() error { return nil }
func (s *stubFetcher) Type() string { return "stub" }

// threePageFetcher serves the standard 10/10/4 row fixture set.
func threePageFetcher(t *testing.T, events *[]string) *stubFetcher {
	t.Helper()
	return &stubFetcher{
		pages: map[string]string{
			testBaseURL + "?state=Kansas":        readTestdata(t, "results_page1.html"),
			testBaseURL + "?page=2&state=Kansas": readTestdata(t, "results_page2.html"),
			testBaseURL + "?page=3&state=Kansas": readTestdata(t, "results_page3.html"),
		},
		errs:   map[string]error{},
		events: events,
	}
}

func kansasQuery() url.Values {
	v := url.Values{}
	v.Set("state", "Kansas")
	return v
}

func TestPaginator_MergesAllPagesInFetchOrder(t *testing.T) {
	f := threePageFetcher(t, nil)
	p := NewPaginator(f)
	p.sleep = func(time.Duration) {}

	result, err := p.Run(context.Background(), testBaseURL, kansasQuery())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Records) != 24 {
		t.Fatalf("expected 24 merged records, got %d", len(result.Records))
	}
	if result.Partial != nil {
		t.Errorf("expected no partial-result warning, got %v", result.Partial)
	}

	// Fetch order: page 1 rows first, page 3 rows last.
	if got := result.Records[0].Get("City"); got != "City 1" {
		t.Errorf("first record: got city %q", got)
	}
	if got := result.Records[23].Get("City"); got != "City 24" {
		t.Errorf("last record: got city %q", got)
	}
}

func TestPaginator_PausesBetweenConsecutiveFetches(t *testing.T) {
	var events []string
	f := threePageFetcher(t, &events)

	p := NewPaginator(f, WithDelay(time.Second))
	p.sleep = func(d time.Duration) {
		events = append(events, fmt.Sprintf("sleep %s", d))
	}

	if _, err := p.Run(context.Background(), testBaseURL, kansasQuery()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{
		"fetch " + testBaseURL + "?state=Kansas",
		"sleep 1s",
		"fetch " + testBaseURL + "?page=2&state=Kansas",
		"sleep 1s",
		"fetch " + testBaseURL + "?page=3&state=Kansas",
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("fetch/delay sequence mismatch:\n got %v\nwant %v", events, want)
	}
}

func TestPaginator_LaterPageFailureYieldsPartialResult(t *testing.T) {
	f := threePageFetcher(t, nil)
	f.errs[testBaseURL+"?page=2&state=Kansas"] = errors.New("status 503")

	p := NewPaginator(f)
	p.sleep = func(time.Duration) {}

	result, err := p.Run(context.Background(), testBaseURL, kansasQuery())
	if err != nil {
		t.Fatalf("later-page failure must not be fatal, got %v", err)
	}

	if len(result.Records) != 10 {
		t.Errorf("expected the 10 rows from page 1, got %d", len(result.Records))
	}
	if result.Partial == nil {
		t.Fatal("expected a partial-result warning")
	}
	if result.Partial.Page != 2 || result.Partial.TotalPages != 3 {
		t.Errorf("warning should name page 2 of 3, got %+v", result.Partial)
	}
}

func TestPaginator_FirstPageFailureIsScrapeError(t *testing.T) {
	f := &stubFetcher{
		pages: map[string]string{},
		errs: map[string]error{
			testBaseURL + "?state=Kansas": errors.New("connection refused"),
		},
	}

	p := NewPaginator(f)
	p.sleep = func(time.Duration) {}

	_, err := p.Run(context.Background(), testBaseURL, kansasQuery())
	var scrapeErr *ScrapeError
	if !errors.As(err, &scrapeErr) {
		t.Fatalf("expected *ScrapeError, got %T: %v", err, err)
	}
}

func TestPaginator_FirstPageNotResultsIsExtractionError(t *testing.T) {
	f := &stubFetcher{
		pages: map[string]string{
			testBaseURL + "?state=Kansas": readTestdata(t, "error_page.html"),
		},
		errs: map[string]error{},
	}

	p := NewPaginator(f)
	p.sleep = func(time.Duration) {}

	_, err := p.Run(context.Background(), testBaseURL, kansasQuery())
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected *ExtractionError, got %T: %v", err, err)
	}
}

func TestPaginator_NoPaginationControlMeansSinglePage(t *testing.T) {
	var events []string
	f := &stubFetcher{
		pages: map[string]string{
			testBaseURL + "?state=Kansas": readTestdata(t, "single_page.html"),
		},
		errs:   map[string]error{},
		events: &events,
	}

	p := NewPaginator(f)
	p.sleep = func(d time.Duration) { events = append(events, "sleep") }

	result, err := p.Run(context.Background(), testBaseURL, kansasQuery())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(result.Records))
	}
	if len(events) != 1 {
		t.Errorf("expected exactly one fetch and no delays, got %v", events)
	}
}

func TestPaginator_EmptyQueryHasNoParameters(t *testing.T) {
	var events []string
	f := &stubFetcher{
		pages: map[string]string{
			testBaseURL: readTestdata(t, "single_page.html"),
		},
		errs:   map[string]error{},
		events: &events,
	}

	p := NewPaginator(f)
	p.sleep = func(time.Duration) {}

	if _, err := p.Run(context.Background(), testBaseURL, url.Values{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if events[0] != "fetch "+testBaseURL {
		t.Errorf("empty filters must add no query parameters, fetched %v", events)
	}
}

func TestPaginator_MaxPagesCapsPagination(t *testing.T) {
	f := threePageFetcher(t, nil)

	p := NewPaginator(f, WithMaxPages(2))
	p.sleep = func(time.Duration) {}

	result, err := p.Run(context.Background(), testBaseURL, kansasQuery())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(result.Records) != 20 {
		t.Errorf("expected 20 records with max 2 pages, got %d", len(result.Records))
	}
}

func TestPaginator_RepeatedRunsAreIdentical(t *testing.T) {
	f := threePageFetcher(t, nil)
	p := NewPaginator(f)
	p.sleep = func(time.Duration) {}

	first, err := p.Run(context.Background(), testBaseURL, kansasQuery())
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	second, err := p.Run(context.Background(), testBaseURL, kansasQuery())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if !reflect.DeepEqual(first.Records, second.Records) {
		t.Error("identical queries against an unchanged site must yield identical records")
	}
}

func TestPaginationControlCounter(t *testing.T) {
	tests := []struct {
		name string
		file string
		want int
	}{
		{"three pages", "results_page1.html", 3},
		{"no control", "single_page.html", 1},
		{"no table at all", "error_page.html", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument(readTestdata(t, tt.file))
			if err != nil {
				t.Fatalf("ParseDocument() error = %v", err)
			}
			if got := (PaginationControlCounter{}).Count(doc); got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}
}
