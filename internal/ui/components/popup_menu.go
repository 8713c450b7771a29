package components

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/devnullvoid/shoptui/internal/ui/theme"
)

// menuItem is one entry of a popup menu.
type menuItem struct {
	label string
	run   func()
}

// item builds a menuItem.
func item(label string, run func()) menuItem {
	return menuItem{label: label, run: run}
}

// showMenu opens a popup list centered over the dashboard. Entries get the
// shortcuts a, b, c, ... and Escape closes the menu without acting.
func (a *App) showMenu(title string, items []menuItem) {
	a.closeMenu()

	if a.lastFocus == nil {
		a.lastFocus = a.GetFocus()
	}

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true).
		SetSelectedBackgroundColor(theme.Colors.Selection)
	list.SetBorder(true).
		SetBorderColor(theme.Colors.Border).
		SetTitle(" " + title + " ").
		SetTitleColor(theme.Colors.Title)

	width := len(title) + 6
	for i, it := range items {
		var shortcut rune
		if i < 26 {
			shortcut = 'a' + rune(i)
		}

		run := it.run
		list.AddItem(it.label, "", shortcut, func() {
			a.closeMenu()
			if run != nil {
				run()
			}
		})

		width = max(width, tview.TaggedStringWidth(it.label)+8)
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			a.closeMenu()
			return nil
		}
		return event
	})

	a.isMenuOpen = true
	a.pages.AddPage(pageMenu, centered(list, width, len(items)+2), true, true)
	a.SetFocus(list)
}

// closeMenu removes the open menu, if any, and restores focus.
func (a *App) closeMenu() {
	if !a.isMenuOpen {
		return
	}

	a.isMenuOpen = false
	a.removePageIfPresent(pageMenu)
	a.restoreFocus()
}

// centered wraps p in a fixed-size box in the middle of the screen.
func centered(p tview.Primitive, width, height int) tview.Primitive {
	column := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(p, height, 0, true).
		AddItem(nil, 0, 1, false)

	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(column, width, 0, true).
		AddItem(nil, 0, 1, false)
}
