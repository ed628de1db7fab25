// Package ui renders rows and page indicators for the terminal. Column
// descriptors are declared per command; rendering is shared.
package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// Column maps one table column to a value of the row type.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// RenderTable writes rows as an aligned table. An empty row set prints a
// placeholder instead of a bare header.
func RenderTable[T any](w io.Writer, cols []Column[T], rows []T) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(no results)")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = strings.ToUpper(c.Header)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range rows {
		values := make([]string, len(cols))
		for i, c := range cols {
			values[i] = c.Value(row)
		}
		fmt.Fprintln(tw, strings.Join(values, "\t"))
	}

	return tw.Flush()
}

// RenderPageInfo writes the "Page X of Y" footer under a table.
func RenderPageInfo(w io.Writer, current, totalPages, totalItems int) {
	fmt.Fprintf(w, "\nPage %d of %d (%d total)\n", current, totalPages, totalItems)
}

// FormatDate renders a timestamp as a short date, or "-" for the zero value.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}
