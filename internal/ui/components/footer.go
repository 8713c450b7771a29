package components

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/devnullvoid/shoptui/internal/config"
	"github.com/devnullvoid/shoptui/internal/ui/theme"
	"github.com/devnullvoid/shoptui/pkg/listview"
)

// PageStatus is what the footer reports about the active page.
type PageStatus struct {
	Summary  listview.Summary
	Selected int
	Sort     listview.SortKey
	Filtered bool
	Loading  bool
	Stale    bool
}

// Footer encapsulates the application footer
type Footer struct {
	*tview.TextView
	baseText string
	status   PageStatus
}

// NewFooter creates a new application footer with key bindings
func NewFooter(kb config.KeyBindings) *Footer {
	footer := tview.NewTextView()
	footer.SetTextAlign(tview.AlignCenter)
	footer.SetDynamicColors(true)
	footer.SetBackgroundColor(theme.Colors.Footer)
	footer.SetTextColor(theme.Colors.FooterText)

	f := &Footer{
		TextView: footer,
		baseText: KeyHints(kb),
	}
	f.updateDisplay()

	return f
}

// KeyHints renders the most used bindings for the footer.
func KeyHints(kb config.KeyBindings) string {
	hints := []struct{ key, label string }{
		{kb.Search, "Search"},
		{kb.Filter, "Filter"},
		{kb.Sort, "Sort"},
		{kb.Select, "Select"},
		{kb.Bulk, "Bulk"},
		{kb.PrevPage + kb.NextPage, "Page"},
		{kb.Export, "Export"},
		{kb.Help, "Help"},
		{kb.Quit, "Quit"},
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, fmt.Sprintf("[header]%s:[footer]%s", tview.Escape(h.key), h.label))
	}

	return theme.ReplaceSemanticTags(strings.Join(parts, "  "))
}

// UpdateKeybindings updates the footer text with custom key bindings
func (f *Footer) UpdateKeybindings(kb config.KeyBindings) {
	f.baseText = KeyHints(kb)
	f.updateDisplay()
}

// UpdateStatus shows the state of the active page.
func (f *Footer) UpdateStatus(status PageStatus) {
	f.status = status
	f.updateDisplay()
}

// updateDisplay refreshes the footer text with current information
func (f *Footer) updateDisplay() {
	f.SetText(FormatStatus(f.status) + "\n" + f.baseText)
}

// FormatStatus renders the one-line page summary, such as
// "Showing 11–20 of 25  Page 2/3  Selected 2".
func FormatStatus(s PageStatus) string {
	sum := s.Summary

	var b strings.Builder

	switch {
	case s.Loading && sum.RawCount == 0:
		b.WriteString("Loading…")
	case sum.FilteredCount == 0 && sum.RawCount > 0:
		b.WriteString("No matches")
	case sum.FilteredCount == 0:
		b.WriteString("No items")
	default:
		fmt.Fprintf(&b, "Showing %d–%d of %d", sum.From, sum.To, sum.FilteredCount)
	}

	if s.Filtered && sum.RawCount > 0 {
		fmt.Fprintf(&b, " (filtered from %d)", sum.RawCount)
	}

	if sum.ReportedTotal > sum.RawCount {
		fmt.Fprintf(&b, "  [warning]%d on server[-]", sum.ReportedTotal)
	}

	if sum.TotalPages > 1 {
		fmt.Fprintf(&b, "  Page %d/%d", sum.Current, sum.TotalPages)
	}

	if s.Sort != "" {
		fmt.Fprintf(&b, "  Sort: %s", s.Sort)
	}

	if s.Selected > 0 {
		fmt.Fprintf(&b, "  [selection]Selected %d[-]", s.Selected)
	}

	if s.Stale {
		b.WriteString("  [error]cached[-]")
	}

	return theme.ReplaceSemanticTags(b.String())
}
