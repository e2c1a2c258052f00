package directory

// Record is one scraped directory row, keyed by column header exactly as
// the site displays it (member name, state, breed, and whatever else the
// results table exposes). Values are plain text; cell links are appended
// as "text [absolute-url]". Records are never mutated after extraction.
type Record map[string]string

// Get returns the value for a column, or "" if the column is absent.
func (r Record) Get(column string) string {
	return r[column]
}

// IsBlank reports whether every cell in the record is empty. Blank rows
// are placeholder markup, not results, and are skipped by the extractor.
func (r Record) IsBlank() bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}
