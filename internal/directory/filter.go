// Package directory defines the domain types for the member directory:
// the canonical search filters and the scraped records.
package directory

import (
	"net/url"
	"strings"
)

// FilterSet is the canonical search query. Each field is optional; the
// empty string means "not filtered". An entirely empty FilterSet is a
// valid "list everything" query. Fields are matched by the site
// case-insensitively and partially, never exact-only.
//
// FilterSet is a value type and is never mutated after construction.
type FilterSet struct {
	State  string
	Member string
	Breed  string
}

// NewFilterSet builds a FilterSet from explicit caller-supplied values.
// Values are trimmed of surrounding whitespace; whitespace-only values
// normalize to absent. This is the whole of the static resolver: no
// network access, no failure modes.
func NewFilterSet(state, member, breed string) FilterSet {
	return FilterSet{
		State:  strings.TrimSpace(state),
		Member: strings.TrimSpace(member),
		Breed:  strings.TrimSpace(breed),
	}
}

// IsEmpty reports whether no filter field is set.
func (f FilterSet) IsEmpty() bool {
	return f.State == "" && f.Member == "" && f.Breed == ""
}

// Values encodes the set fields as site query parameters. Absent fields
// are omitted entirely, not sent as empty strings.
func (f FilterSet) Values() url.Values {
	v := url.Values{}
	if f.State != "" {
		v.Set("state", f.State)
	}
	if f.Member != "" {
		v.Set("member", f.Member)
	}
	if f.Breed != "" {
		v.Set("breed", f.Breed)
	}
	return v
}

// FilterSetFromValues decodes site query parameters back into a
// FilterSet. Missing parameters stay absent, so Values round-trips.
func FilterSetFromValues(v url.Values) FilterSet {
	return NewFilterSet(v.Get("state"), v.Get("member"), v.Get("breed"))
}

// String renders the filters for display, using "-" for absent fields.
func (f FilterSet) String() string {
	return "state=" + orDash(f.State) +
		" member=" + orDash(f.Member) +
		" breed=" + orDash(f.Breed)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
