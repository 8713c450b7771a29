package components

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/devnullvoid/shoptui/internal/bulk"
	"github.com/devnullvoid/shoptui/internal/pages"
	"github.com/devnullvoid/shoptui/pkg/api"
)

const (
	menuDateRange  = "Date range…"
	menuClearDates = "Clear date range"
	menuClearAll   = "Clear all filters"
	menuPageSize   = "Rows per page…"
	menuSetStatus  = "Set status…"
	menuBlock      = "Block"
	menuUnblock    = "Unblock"
	menuDelete     = "Delete"
)

// checkLabel marks an active entry.
func checkLabel(label string, checked bool) string {
	if checked {
		return "✓ " + label
	}

	return "  " + label
}

// dimensionLabel shows how many values of a dimension are accepted.
func dimensionLabel(dimension string, active int) string {
	if active == 0 {
		return dimension
	}

	return fmt.Sprintf("%s (%d)", dimension, active)
}

// showFilterMenu lists the page's filter dimensions.
func (a *App) showFilterMenu() {
	v := a.currentView()
	dims := v.Dimensions()

	items := make([]menuItem, 0, len(dims)+3)
	for _, dim := range dims {
		items = append(items, item(dimensionLabel(dim, len(v.ActiveValues(dim))), func() {
			a.showFilterValues(dim)
		}))
	}

	items = append(items,
		item(menuDateRange, a.showDateRangeForm),
		item(menuClearDates, func() {
			v.ClearDateRange()
			a.updateFooter()
		}),
		item(menuClearAll, func() {
			v.ClearFilters()
			a.updateFooter()
		}),
		item(menuPageSize, a.showPageSizeMenu),
	)

	a.showMenu("Filter "+v.Title(), items)
}

// showFilterValues toggles accepted values of one dimension. The menu
// reopens after each toggle so several values can be picked in a row.
func (a *App) showFilterValues(dimension string) {
	v := a.currentView()

	choices := v.FilterChoices(dimension)
	if len(choices) == 0 {
		a.header.ShowWarning("No " + dimension + " values to filter by")
		return
	}

	active := v.ActiveValues(dimension)
	items := make([]menuItem, len(choices))
	for i, c := range choices {
		items[i] = item(checkLabel(c, slices.Contains(active, c)), func() {
			v.ToggleFilter(dimension, c)
			a.updateFooter()
			a.showFilterValues(dimension)
		})
	}

	a.showMenu(strings.ToUpper(dimension[:1])+dimension[1:], items)
}

// showSortMenu lists the page's sort keys, the active one checked.
func (a *App) showSortMenu() {
	v := a.currentView()
	active := v.Status().Sort

	var items []menuItem
	for _, k := range v.SortKeys() {
		items = append(items, item(checkLabel(string(k), k == active), func() {
			v.SetSort(k)
			a.updateFooter()
		}))
	}

	a.showMenu("Sort "+v.Title(), items)
}

// pageSizes are the sizes offered by the rows-per-page menu.
var pageSizes = []int{5, 10, 20, 25, 50, 100}

// pageSizeChoices returns pageSizes plus current when it is not one of them,
// in ascending order.
func pageSizeChoices(current int) []int {
	if current <= 0 || slices.Contains(pageSizes, current) {
		return pageSizes
	}

	choices := append(slices.Clone(pageSizes), current)
	slices.Sort(choices)

	return choices
}

// showPageSizeMenu changes how many rows the active page shows.
func (a *App) showPageSizeMenu() {
	v := a.currentView()
	current := v.Status().Summary.PageSize

	var items []menuItem
	for _, n := range pageSizeChoices(current) {
		items = append(items, item(checkLabel(strconv.Itoa(n), n == current), func() {
			v.SetPageSize(n)
			a.updateFooter()
		}))
	}

	a.showMenu("Rows per page", items)
}

// bulkActions lists what can be done to items of resource.
func bulkActions(resource api.Resource) []string {
	var actions []string

	if len(pages.StatusChoices(resource)) > 0 {
		actions = append(actions, menuSetStatus)
	}

	if resource == api.ResourceCustomers {
		actions = append(actions, menuBlock, menuUnblock)
	}

	return append(actions, menuDelete)
}

// showBulkMenu acts on the selection, or on the row under the cursor when
// nothing is selected.
func (a *App) showBulkMenu() {
	v := a.currentView()
	resource := v.Resource()

	target := fmt.Sprintf("%d selected", v.SelectionCount())
	single := ""
	if v.SelectionCount() == 0 {
		single = v.CurrentID()
		if single == "" {
			a.header.ShowWarning("No items selected")
			return
		}
		target = single
	}

	handlers := map[string]func(){
		menuSetStatus: func() { a.showStatusForm(single) },
		menuBlock:     func() { a.runAction(single, pages.BlockAction(a.client, true)) },
		menuUnblock:   func() { a.runAction(single, pages.BlockAction(a.client, false)) },
		menuDelete: func() {
			a.confirm(fmt.Sprintf("Delete %s? This cannot be undone.", target), func() {
				a.runAction(single, pages.DeleteAction(a.client, resource))
			})
		},
	}

	var items []menuItem
	for _, label := range bulkActions(resource) {
		items = append(items, item(label, handlers[label]))
	}

	a.showMenu(target, items)
}

// runAction applies action to id, or to the selection when id is empty.
// Results are reported through the controller's notices.
func (a *App) runAction(id string, action bulk.Action) {
	v := a.currentView()

	go func() {
		if id != "" {
			_ = v.Apply(a.ctx, id, action)
			return
		}

		res, err := v.Bulk(a.ctx, action)
		if err != nil {
			return
		}

		a.logger.Info("Bulk %s: %s", v.Resource(), res.Summary())

		if len(res.Failed) > 0 && len(res.Succeeded)+len(res.Failed) > 1 {
			a.QueueUpdateDraw(func() {
				a.showMessage(res.Summary(), failureReport(res))
			})
		}
	}()
}

// manualRefresh refetches the active page, bounded by the request timeout.
func (a *App) manualRefresh() {
	v := a.currentView()

	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, a.config.GetTimeout())
		defer cancel()

		_ = v.Refresh(ctx)
	}()
}

// failureReport lists each failed id with its error, one per line.
func failureReport(res bulk.Result) string {
	var b strings.Builder

	for _, f := range res.Failed {
		fmt.Fprintf(&b, "%s: %v\n", f.ID, f.Err)
	}

	b.WriteString("\nFailed items stay selected.")

	return b.String()
}
