package components

import (
	"github.com/gdamore/tcell/v2"

	"github.com/devnullvoid/shoptui/internal/keys"
)

// setupKeyboardHandlers configures global keyboard shortcuts
func (a *App) setupKeyboardHandlers() {
	a.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		pageName, _ := a.pages.GetFrontPage()

		// The login screen, dialogs, menus and the help page handle their
		// own keys.
		if pageName != pageMain {
			return event
		}

		// While the search input has focus, let it handle all keys.
		if a.searchActive() && a.GetFocus() == a.searchInput {
			return event
		}

		return a.handleKey(event)
	})
}

// handleKey dispatches a key pressed on the dashboard. It returns nil when
// the key was consumed.
func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	kb := a.config.KeyBindings
	v := a.currentView()

	switch {
	case event.Key() == tcell.KeyTab:
		a.switchTo((a.current + 1) % len(a.views))
	case event.Key() == tcell.KeyBacktab:
		a.switchTo((a.current + len(a.views) - 1) % len(a.views))
	case keys.Matches(event, kb.OrdersPage):
		a.switchTo(0)
	case keys.Matches(event, kb.CustomersPage):
		a.switchTo(1)
	case keys.Matches(event, kb.AdminsPage):
		a.switchTo(2)
	case keys.Matches(event, kb.ProductsPage):
		a.switchTo(3)
	case keys.Matches(event, kb.Quit):
		a.Stop()
	case keys.Matches(event, kb.Help):
		a.helpModal.Show()
	case keys.Matches(event, kb.Search):
		a.activateSearch()
	case keys.Matches(event, kb.Filter):
		a.showFilterMenu()
	case keys.Matches(event, kb.Sort):
		a.showSortMenu()
	case keys.Matches(event, kb.ClearFilters):
		v.ClearFilters()
		if a.searchInput != nil {
			a.searchInput.SetText("")
		}
		a.closeSearch()
		a.SetFocus(v)
	case keys.Matches(event, kb.NextPage):
		v.NextPage()
	case keys.Matches(event, kb.PrevPage):
		v.PrevPage()
	case keys.Matches(event, kb.Select):
		v.ToggleCurrent()
	case keys.Matches(event, kb.SelectPage):
		v.SelectVisible()
	case keys.Matches(event, kb.Bulk):
		a.showBulkMenu()
	case keys.Matches(event, kb.Export):
		a.showExportForm()
	case keys.Matches(event, kb.Invoice):
		a.printInvoice()
	case keys.Matches(event, kb.CopyID):
		a.copyCurrentID()
	case keys.Matches(event, kb.NewAdmin):
		a.showAdminForm()
	case keys.Matches(event, kb.Refresh):
		a.manualRefresh()
	case keys.Matches(event, kb.Logout):
		a.confirm("Sign out?", a.logout)
	default:
		return event
	}

	a.updateFooter()

	return nil
}
