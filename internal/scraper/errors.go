package scraper

import "fmt"

// ExtractionError reports that a page's gross structure did not look
// like a results page at all: the expected table container is missing.
// That usually means an auth wall, an error page, or a site redesign,
// and must be surfaced to the caller rather than treated as zero rows.
type ExtractionError struct {
	URL    string
	Reason string
}

func (e *ExtractionError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("page structure unrecognized: %s", e.Reason)
	}
	return fmt.Sprintf("page structure unrecognized at %s: %s", e.URL, e.Reason)
}

// ScrapeError reports that the first results page could not be fetched.
// It is fatal for the whole query; later-page failures are downgraded to
// a partial-result warning instead.
type ScrapeError struct {
	URL string
	Err error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("failed to fetch results page %s: %v", e.URL, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}
