package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"

	"github.com/devnullvoid/shoptui/internal/export"
	"github.com/devnullvoid/shoptui/pkg/listview"
)

// Output formats of the list command.
const (
	outputTable = "table"
	outputJSON  = "json"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e58fb1")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7a5a66"))
)

// writeTable renders items as a bordered table with one column per export
// column.
func writeTable[T any](w io.Writer, columns []export.Column[T], items []T) error {
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = strings.ToUpper(strings.ReplaceAll(c.Header, "_", " "))
	}

	rows := make([][]string, len(items))
	for r, item := range items {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = c.Value(item)
		}
		rows[r] = row
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, t.Render())

	return err
}

type jsonPage[T any] struct {
	Page          int    `json:"page"`
	TotalPages    int    `json:"totalPages"`
	PageSize      int    `json:"pageSize"`
	Total         int    `json:"total"`
	Fetched       int    `json:"fetched"`
	ReportedTotal int    `json:"reportedTotal"`
	Sort          string `json:"sort"`
	Stale         bool   `json:"stale,omitempty"`
	Items         []T    `json:"items"`
}

func writeJSONPage[T any](w io.Writer, l listing, items []T) error {
	if items == nil {
		items = []T{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(jsonPage[T]{
		Page:          l.Summary.Current,
		TotalPages:    l.Summary.TotalPages,
		PageSize:      l.Summary.PageSize,
		Total:         l.Summary.FilteredCount,
		Fetched:       l.Summary.RawCount,
		ReportedTotal: l.Summary.ReportedTotal,
		Sort:          string(l.Sort),
		Stale:         l.Stale,
		Items:         items,
	})
}

// summaryLine is printed under a table, e.g.
// "Showing 11–20 of 25 (page 2/3, sort newest)".
func summaryLine(s listview.Summary, sort listview.SortKey) string {
	if s.FilteredCount == 0 {
		if s.RawCount > 0 {
			return fmt.Sprintf("No matches among %d items", s.RawCount)
		}
		return "No items"
	}

	line := fmt.Sprintf("Showing %d–%d of %d (page %d/%d, sort %s)", s.From, s.To, s.FilteredCount, s.Current, s.TotalPages, sort)
	if s.FilteredCount < s.RawCount {
		line += fmt.Sprintf(", filtered from %d", s.RawCount)
	}
	if s.ReportedTotal > s.RawCount {
		line += fmt.Sprintf(", %d on server", s.ReportedTotal)
	}

	return line
}
