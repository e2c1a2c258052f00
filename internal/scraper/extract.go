package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/herddir/herddir/internal/directory"
)

// Page is one parsed results page: the column headers in document order
// and the records extracted from the results table.
type Page struct {
	Columns []string
	Records []directory.Record
}

// ParseDocument parses raw page markup into a goquery document.
func ParseDocument(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// ExtractPage extracts directory records from one result page, in
// document order. Rows that do not match the table's header shape
// (placeholder rows, "no results" markers) are skipped. It fails with
// *ExtractionError only when no headered results table exists at all,
// which means the page did not render as a results page.
func ExtractPage(doc *goquery.Document, pageURL string) (Page, error) {
	base, _ := url.Parse(pageURL)

	var page Page
	foundTable := false

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		headers := tableHeaders(table)
		if len(headers) == 0 {
			return
		}
		foundTable = true

		if page.Columns == nil {
			page.Columns = headers
		}

		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td, th")
			// Placeholder and "no results" rows span fewer cells than
			// the header and are not records.
			if cells.Length() < len(headers) {
				return
			}

			rec := make(directory.Record, len(headers))
			cells.EachWithBreak(func(i int, cell *goquery.Selection) bool {
				if i >= len(headers) {
					return false
				}
				rec[headers[i]] = cellText(cell, base)
				return true
			})

			if !rec.IsBlank() {
				page.Records = append(page.Records, rec)
			}
		})
	})

	if !foundTable {
		return Page{}, &ExtractionError{
			URL:    pageURL,
			Reason: "no results table with headers found",
		}
	}

	return page, nil
}

// ExtractHTML is a convenience wrapper around ExtractPage for raw markup.
func ExtractHTML(html, pageURL string) (Page, error) {
	doc, err := ParseDocument(html)
	if err != nil {
		return Page{}, &ExtractionError{URL: pageURL, Reason: err.Error()}
	}
	return ExtractPage(doc, pageURL)
}

// tableHeaders returns the trimmed header labels of a table, or nil if
// the table carries no thead row.
func tableHeaders(table *goquery.Selection) []string {
	var headers []string
	table.Find("thead tr").First().Find("th, td").Each(func(_ int, s *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(s.Text()))
	})
	return headers
}

// cellText extracts a cell's text. When the cell links somewhere, the
// absolute link target is appended as "text [url]" so it survives into
// plain-string records.
func cellText(cell *goquery.Selection, base *url.URL) string {
	text := strings.TrimSpace(cell.Text())

	link := cell.Find("a[href]").First()
	if link.Length() == 0 {
		return text
	}

	href, _ := link.Attr("href")
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return text
	}

	linkURL, err := url.Parse(href)
	if err != nil {
		return text
	}
	if !linkURL.IsAbs() && base != nil {
		linkURL = base.ResolveReference(linkURL)
	}

	return text + " [" + linkURL.String() + "]"
}
