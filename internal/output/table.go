package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/herddir/herddir/internal/search"
)

// TableWriter renders results as an aligned terminal table.
type TableWriter struct {
	w io.Writer
}

// NewTableWriter creates a table writer.
func NewTableWriter(w io.Writer) *TableWriter {
	return &TableWriter{w: w}
}

// Write renders one result. Columns follow the site's own column order.
func (t *TableWriter) Write(res search.Result) error {
	if len(res.Records) == 0 {
		_, err := fmt.Fprintln(t.w, "No results found.")
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(t.w)
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, 0, len(res.Columns))
	for _, col := range res.Columns {
		header = append(header, col)
	}
	tw.AppendHeader(header)

	for _, rec := range res.Records {
		row := make(table.Row, 0, len(res.Columns))
		for _, col := range res.Columns {
			row = append(row, rec.Get(col))
		}
		tw.AppendRow(row)
	}

	tw.Render()

	_, err := fmt.Fprintf(t.w, "%d result(s)\n", len(res.Records))
	return err
}
