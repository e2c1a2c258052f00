package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/herddir/herddir/internal/directory"
	"github.com/herddir/herddir/internal/scraper"
	"github.com/herddir/herddir/internal/search"
)

func sampleResult() search.Result {
	return search.Result{
		Filters: directory.NewFilterSet("Kansas", "", "American Red"),
		Columns: []string{"Member", "State", "Breeds"},
		Records: []directory.Record{
			{"Member": "Dwight Elmore", "State": "Kansas", "Breeds": "(AR) - American Red"},
			{"Member": "Jane Cole", "State": "Kansas", "Breeds": "(AR) - American Red"},
		},
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	if _, err := NewWriter(&bytes.Buffer{}, Format("csv")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestNewWriter_DefaultsToTable(t *testing.T) {
	w, err := NewWriter(&bytes.Buffer{}, "")
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if _, ok := w.(*TableWriter); !ok {
		t.Errorf("expected *TableWriter, got %T", w)
	}
}

func TestTableWriter_RendersColumnsAndRows(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewTableWriter(buf).Write(sampleResult()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Member", "State", "Breeds", "Dwight Elmore", "Jane Cole", "2 result(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in table output:\n%s", want, out)
		}
	}
}

func TestTableWriter_EmptyResults(t *testing.T) {
	buf := &bytes.Buffer{}
	res := sampleResult()
	res.Records = nil

	if err := NewTableWriter(buf).Write(res); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No results found.") {
		t.Errorf("expected empty-result message, got %q", buf.String())
	}
}

func TestJSONWriter_RoundTrips(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewJSONWriter(buf).Write(sampleResult()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var view struct {
		Filters struct {
			State string `json:"state"`
			Breed string `json:"breed"`
		} `json:"filters"`
		Count   int                 `json:"count"`
		Records []map[string]string `json:"records"`
	}
	if err := json.Unmarshal(buf.Bytes(), &view); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if view.Filters.State != "Kansas" || view.Filters.Breed != "American Red" {
		t.Errorf("unexpected filters in output: %+v", view.Filters)
	}
	if view.Count != 2 || len(view.Records) != 2 {
		t.Errorf("expected 2 records, got count=%d len=%d", view.Count, len(view.Records))
	}
	if view.Records[0]["Member"] != "Dwight Elmore" {
		t.Errorf("record order must be preserved, got %v", view.Records[0])
	}
}

func TestJSONWriter_IncludesWarning(t *testing.T) {
	buf := &bytes.Buffer{}
	res := sampleResult()
	res.Warning = &scraper.PartialResult{Page: 2, TotalPages: 3}

	if err := NewJSONWriter(buf).Write(res); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "pagination stopped at page 2 of 3") {
		t.Errorf("expected warning in output, got %s", buf.String())
	}
}

func TestYAMLWriter_RendersResult(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := NewYAMLWriter(buf).Write(sampleResult()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"filters:", "state: Kansas", "count: 2", "Dwight Elmore"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in YAML output:\n%s", want, out)
		}
	}
}
