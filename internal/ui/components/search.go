package components

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/devnullvoid/shoptui/internal/ui/theme"
)

// activateSearch shows the search input above the active page. The list is
// filtered as the user types.
func (a *App) activateSearch() {
	v := a.currentView()

	if a.searchInput == nil {
		a.searchInput = tview.NewInputField().
			SetLabel("Search: ").
			SetFieldWidth(0).
			SetPlaceholder("Filter the list... press Enter/Esc to return to list")
		a.searchInput.SetLabelColor(theme.Colors.HeaderText)
		a.searchInput.SetFieldBackgroundColor(theme.Colors.Background)
	}

	// SetText fires the changed func, so install it afterwards.
	a.searchInput.SetChangedFunc(nil)
	a.searchInput.SetText(v.SearchText())
	a.searchInput.SetChangedFunc(func(text string) {
		a.currentView().SetSearch(text)
		a.updateFooter()
	})

	a.searchInput.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape && a.searchInput.GetText() == "" {
			a.closeSearch()
		}
		a.SetFocus(a.currentView())
	})

	if !a.searchActive() {
		a.body.Clear()
		a.body.AddItem(a.searchInput, 1, 0, true)
		a.body.AddItem(v, 0, 1, false)
	}

	a.SetFocus(a.searchInput)
}

// closeSearch removes the search input; the search text stays applied.
func (a *App) closeSearch() {
	if !a.searchActive() {
		return
	}

	a.body.Clear()
	a.body.AddItem(a.currentView(), 0, 1, true)
}

func (a *App) searchActive() bool {
	return a.searchInput != nil && a.body.GetItemCount() > 1
}
