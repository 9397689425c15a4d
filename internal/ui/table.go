// Package ui renders API records as terminal tables. Each domain area
// declares its columns once; the generic renderer handles widths, sorting
// and filtering.
package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
)

// Column maps one field of a record to a rendered cell.
type Column[T any] struct {
	Key    string // sort/filter key
	Header string
	Cell   func(T) string
}

// TableOptions controls sorting and filtering of a rendered table.
type TableOptions struct {
	SortKey  string // column key to sort by; empty keeps input order
	SortDesc bool
	Filter   string // case-insensitive substring match across all cells
}

// RenderTable writes rows as an aligned table. Rows are filtered first,
// then sorted by the requested column's rendered cell value.
func RenderTable[T any](w io.Writer, cols []Column[T], rows []T, opts TableOptions) {
	kept := rows
	if opts.Filter != "" {
		needle := strings.ToLower(opts.Filter)
		kept = kept[:0:0]
		for _, r := range rows {
			for _, c := range cols {
				if strings.Contains(strings.ToLower(c.Cell(r)), needle) {
					kept = append(kept, r)
					break
				}
			}
		}
	}

	if opts.SortKey != "" {
		var cell func(T) string
		for _, c := range cols {
			if c.Key == opts.SortKey {
				cell = c.Cell
				break
			}
		}
		if cell != nil {
			sorted := make([]T, len(kept))
			copy(sorted, kept)
			sort.SliceStable(sorted, func(i, j int) bool {
				if opts.SortDesc {
					return cell(sorted[i]) > cell(sorted[j])
				}
				return cell(sorted[i]) < cell(sorted[j])
			})
			kept = sorted
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, r := range kept {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.Cell(r)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

// Deref renders a nullable string cell.
func Deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
