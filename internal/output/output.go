// Package output renders query results in the formats the original surfaces
// expect: aligned table, json, csv, markdown, and plain.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/modelscout/modelscout/internal/query"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatPlain    Format = "plain"
)

// ParseFormat normalizes a --format value; empty means table.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, true
	case "json":
		return FormatJSON, true
	case "csv":
		return FormatCSV, true
	case "markdown", "md":
		return FormatMarkdown, true
	case "plain":
		return FormatPlain, true
	default:
		return FormatTable, false
	}
}

// Render writes the result to w in the requested format.
func Render(w io.Writer, res *query.Result, f Format) error {
	switch f {
	case FormatJSON:
		return renderJSON(w, res)
	case FormatCSV:
		return renderCSV(w, res)
	case FormatMarkdown:
		return renderMarkdown(w, res)
	case FormatPlain:
		return renderPlain(w, res)
	default:
		return renderTable(w, res)
	}
}

func renderTable(w io.Writer, res *query.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(res.Columns, "\t"))

	sep := make([]string, len(res.Columns))
	for i, c := range res.Columns {
		sep[i] = strings.Repeat("-", len(c))
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	for _, row := range res.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func renderJSON(w io.Writer, res *query.Result) error {
	records := make([]map[string]string, len(res.Rows))
	for i, row := range res.Rows {
		rec := make(map[string]string, len(res.Columns))
		for j, c := range res.Columns {
			if j < len(row) {
				rec[c] = row[j]
			}
		}
		records[i] = rec
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func renderCSV(w io.Writer, res *query.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(res.Columns); err != nil {
		return err
	}
	for _, row := range res.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderMarkdown(w io.Writer, res *query.Result) error {
	fmt.Fprintf(w, "| %s |\n", strings.Join(res.Columns, " | "))

	sep := make([]string, len(res.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(sep, " | "))

	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = strings.ReplaceAll(v, "|", "\\|")
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
	return nil
}

func renderPlain(w io.Writer, res *query.Result) error {
	for _, row := range res.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return nil
}
