package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/devnullvoid/shoptui/internal/config"
	"github.com/devnullvoid/shoptui/internal/keys"
	"github.com/devnullvoid/shoptui/internal/ui/theme"
	"github.com/devnullvoid/shoptui/internal/version"
)

// HelpModal represents a modal dialog showing keybindings and usage information
type HelpModal struct {
	*tview.Pages
	app      *App
	textView *tview.TextView
	helpKey  string
}

// NewHelpModal creates a new help modal
func NewHelpModal(kb config.KeyBindings) *HelpModal {
	textView := tview.NewTextView()
	textView.SetDynamicColors(true)
	textView.SetScrollable(true)
	textView.SetWrap(false)
	textView.SetBorder(true)
	textView.SetTitle(" Shop Admin - Help & Keybindings ")
	textView.SetTitleColor(theme.Colors.HeaderText)
	textView.SetBorderColor(theme.Colors.HeaderText)
	textView.SetText(HelpText(kb))

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(textView, 0, 10, true).
			AddItem(nil, 0, 1, false),
			0, 8, true).
		AddItem(nil, 0, 1, false)

	pages := tview.NewPages()
	pages.AddPage("help-content", flex, true, true)

	return &HelpModal{
		Pages:    pages,
		textView: textView,
		helpKey:  kb.Help,
	}
}

// HelpText renders the help page for the configured bindings.
func HelpText(kb config.KeyBindings) string {
	line := func(key, text string) string {
		return fmt.Sprintf("  [primary]%-26s[-] %s\n", tview.Escape(key), text)
	}

	var b strings.Builder

	b.WriteString("[header]Pages:[-]\n")
	b.WriteString(line("Tab / Shift+Tab", "Next / previous page"))
	b.WriteString(line(kb.OrdersPage+" "+kb.CustomersPage+" "+kb.AdminsPage+" "+kb.ProductsPage, "Orders, Customers, Admins, Products"))
	b.WriteString(line("Arrow Keys / jk", "Move the cursor"))
	b.WriteString(line(kb.PrevPage+" "+kb.NextPage, "Previous / next result page"))

	b.WriteString("\n[header]Finding items:[-]\n")
	b.WriteString(line(kb.Search, "Search by name, email or id"))
	b.WriteString(line(kb.Filter, "Filter by status, role, category, ... date range or rows per page"))
	b.WriteString(line(kb.Sort, "Change the sort order"))
	b.WriteString(line(kb.ClearFilters, "Clear search, filters, sort and page size"))

	b.WriteString("\n[header]Acting on items:[-]\n")
	b.WriteString(line(kb.Select, "Select the row for a bulk action"))
	b.WriteString(line(kb.SelectPage, "Select or clear the whole page"))
	b.WriteString(line(kb.Bulk, "Status, block or delete the selection (or the current row)"))
	b.WriteString(line(kb.NewAdmin, "Create an admin (Admins page)"))
	b.WriteString(line(kb.Invoice, "Write an HTML invoice (Orders page)"))
	b.WriteString(line(kb.Export, "Export as CSV or JSON"))
	b.WriteString(line(kb.CopyID, "Copy the row id"))

	b.WriteString("\n[header]Session:[-]\n")
	b.WriteString(line(kb.Refresh, "Reload the current page"))
	b.WriteString(line(kb.Logout, "Sign out"))
	b.WriteString(line(kb.Quit, "Quit"))

	b.WriteString("\n[header]Tips:[-]\n")
	b.WriteString("  • Filters combine: values within a filter match any, filters together match all\n")
	b.WriteString("  • A bulk action reports \"N succeeded, M failed\" and reloads the page once\n")
	b.WriteString("  • [error]cached[-] in the footer means the backend was unreachable\n")

	fmt.Fprintf(&b, "\n[secondary]%s[-]\n", tview.Escape(version.About(time.Now())))
	fmt.Fprintf(&b, "[secondary]Press [primary]%s[-][secondary] again or [primary]Escape[-][secondary] to exit this help[-]", tview.Escape(kb.Help))

	return theme.ReplaceSemanticTags(b.String())
}

// SetApp sets the parent app reference
func (hm *HelpModal) SetApp(app *App) {
	hm.app = app
}

// Show displays the help modal
func (hm *HelpModal) Show() {
	if hm.app == nil {
		return
	}

	hm.textView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyEscape || keys.Matches(event, hm.helpKey):
			hm.Hide()
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == 'j':
			// VI-like down scrolling
			return tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
		case event.Key() == tcell.KeyRune && event.Rune() == 'k':
			// VI-like up scrolling
			return tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)
		}
		return event
	})

	hm.app.pages.AddPage(pageHelp, hm.Pages, true, true)
	hm.app.SetFocus(hm.textView)
}

// Hide closes the help modal
func (hm *HelpModal) Hide() {
	if hm.app == nil {
		return
	}

	hm.app.removePageIfPresent(pageHelp)
	hm.app.SetFocus(hm.app.currentView())
}
