// Package export writes fetched collections as CSV or JSON and renders
// printable order invoices. Every function here is pure formatting over the
// items it is given.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Format names an export encoding.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use csv or json)", name)
	}
}

// Filename builds the default file name of an export, e.g.
// "orders-20251017-1504.csv".
func Filename(resource string, format Format, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", resource, now.Format("20060102-1504"), format)
}

// Column is one CSV column.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// formulaPrefixes start cells that spreadsheets would evaluate.
const formulaPrefixes = "=+-@\t\r"

func cell(v string) string {
	if v != "" && strings.ContainsAny(v[:1], formulaPrefixes) {
		return "'" + v
	}

	return v
}

// CSV writes a header row followed by one row per item.
func CSV[T any](w io.Writer, columns []Column[T], items []T) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.Header
	}

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(columns))

	for _, item := range items {
		for i, c := range columns {
			row[i] = cell(c.Value(item))
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}

// JSON writes items as an indented JSON array. A nil slice is written as [].
func JSON[T any](w io.Writer, items []T) error {
	if items == nil {
		items = []T{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

// Write encodes items in format, using columns for CSV.
func Write[T any](w io.Writer, format Format, columns []Column[T], items []T) error {
	switch format {
	case FormatCSV:
		return CSV(w, columns, items)
	case FormatJSON:
		return JSON(w, items)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
