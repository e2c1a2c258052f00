package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/herddir/herddir/internal/search"
)

// YAMLWriter writes results as YAML.
type YAMLWriter struct {
	w io.Writer
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{w: w}
}

// Write outputs one result as a YAML document.
func (y *YAMLWriter) Write(res search.Result) error {
	enc := yaml.NewEncoder(y.w)
	defer enc.Close()
	enc.SetIndent(2)
	return enc.Encode(newResultView(res))
}
