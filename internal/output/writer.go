// Package output renders search results for the terminal.
package output

import (
	"fmt"
	"io"

	"github.com/herddir/herddir/internal/search"
)

// Format represents output format types.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Writer renders one search result.
type Writer interface {
	Write(res search.Result) error
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format) (Writer, error) {
	switch format {
	case FormatTable, "":
		return NewTableWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use table, json or yaml)", format)
	}
}

// resultView is the serializable shape shared by the JSON and YAML
// writers.
type resultView struct {
	Filters filtersView         `json:"filters" yaml:"filters"`
	Count   int                 `json:"count" yaml:"count"`
	Warning string              `json:"warning,omitempty" yaml:"warning,omitempty"`
	Records []map[string]string `json:"records" yaml:"records"`
}

type filtersView struct {
	State  string `json:"state,omitempty" yaml:"state,omitempty"`
	Member string `json:"member,omitempty" yaml:"member,omitempty"`
	Breed  string `json:"breed,omitempty" yaml:"breed,omitempty"`
}

func newResultView(res search.Result) resultView {
	view := resultView{
		Filters: filtersView{
			State:  res.Filters.State,
			Member: res.Filters.Member,
			Breed:  res.Filters.Breed,
		},
		Count:   len(res.Records),
		Records: make([]map[string]string, 0, len(res.Records)),
	}
	if res.Warning != nil {
		view.Warning = res.Warning.String()
	}
	for _, rec := range res.Records {
		view.Records = append(view.Records, map[string]string(rec))
	}
	return view
}
