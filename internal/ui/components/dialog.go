package components

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/devnullvoid/shoptui/internal/ui/theme"
)

// maxDialogLines caps the text of a dialog; longer text is cut with a
// "… n more" line.
const maxDialogLines = 14

const (
	dialogMinWidth = 40
	dialogMaxWidth = 96
)

// dialogWidth fits the longest text line and the button row between the
// minimum and maximum dialog widths.
func dialogWidth(text string, buttons []string) int {
	widest := 0
	for _, line := range strings.Split(text, "\n") {
		widest = max(widest, tview.TaggedStringWidth(line))
	}

	row := 0
	for _, label := range buttons {
		row += tview.TaggedStringWidth(label) + 6
	}

	return min(max(widest+4, row, dialogMinWidth), dialogMaxWidth)
}

// wrapLines word-wraps text to width, keeping at most maxDialogLines.
func wrapLines(text string, width int) []string {
	lines := tview.WordWrap(strings.TrimRight(text, "\n"), width)
	if len(lines) <= maxDialogLines {
		return lines
	}

	hidden := len(lines) - maxDialogLines + 1

	return append(lines[:maxDialogLines-1], "… "+strconv.Itoa(hidden)+" more lines in the log")
}

// newDialog builds a bordered box with text above a row of buttons. done
// gets the pressed label, or "" on Escape. The form is returned for focus.
func newDialog(title, text string, buttons []string, done func(label string)) (tview.Primitive, *tview.Form) {
	width := dialogWidth(text, buttons)
	lines := wrapLines(text, width-4)

	body := tview.NewTextView().SetText(strings.Join(lines, "\n")).SetTextColor(theme.Colors.Primary)
	body.SetBackgroundColor(theme.Colors.Contrast)

	form := tview.NewForm().
		SetButtonsAlign(tview.AlignCenter).
		SetButtonBackgroundColor(theme.Colors.Selection).
		SetButtonTextColor(theme.Colors.Primary)
	form.SetBackgroundColor(theme.Colors.Contrast).SetBorderPadding(0, 0, 0, 0)

	for _, label := range buttons {
		form.AddButton(label, func() { done(label) })
	}
	form.SetCancelFunc(func() { done("") })

	// Arrow keys move between buttons.
	form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyRight, tcell.KeyDown:
			return tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)
		case tcell.KeyLeft, tcell.KeyUp:
			return tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone)
		}
		return event
	})

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, len(lines), 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(form, 1, 0, true)
	layout.SetBorder(true).
		SetBorderColor(theme.Colors.Border).
		SetBorderPadding(0, 0, 1, 1).
		SetBackgroundColor(theme.Colors.Contrast)

	if title != "" {
		layout.SetTitle(" " + title + " ").SetTitleColor(theme.Colors.Title)
	}

	return centered(layout, width, len(lines)+4), form
}
