package output

import (
	"encoding/json"
	"io"

	"github.com/herddir/herddir/internal/search"
)

// JSONWriter writes results as indented JSON.
type JSONWriter struct {
	w io.Writer
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

// Write outputs one result as a JSON document.
func (j *JSONWriter) Write(res search.Result) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(newResultView(res))
}
