package components

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devnullvoid/shoptui/internal/export"
	"github.com/devnullvoid/shoptui/internal/pages"
	"github.com/devnullvoid/shoptui/pkg/api"
)

func sampleOrders(n int) []api.Order {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	statuses := []string{api.OrderStatusPending, api.OrderStatusShipped, api.OrderStatusDelivered}

	orders := make([]api.Order, n)
	for i := range orders {
		orders[i] = api.Order{
			ID:            "ORD-" + string(rune('A'+i)),
			CustomerName:  "Customer " + string(rune('A'+i)),
			CustomerEmail: strings.ToLower(string(rune('a'+i))) + "@example.com",
			Status:        statuses[i%len(statuses)],
			Total:         float64(10 * (i + 1)),
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}
	}

	return orders
}

func newOrdersPage(t *testing.T, orders []api.Order) *listPage[api.Order] {
	t.Helper()

	fetch := func(context.Context, api.ListParams) (api.Page[api.Order], error) {
		return api.Page[api.Order]{Items: orders, Total: len(orders)}, nil
	}

	ctrl := pages.NewController(api.ResourceOrders, pages.OrdersSchema(), fetch, pages.Options{PageSize: 2})
	p := newListPage("Orders", ctrl, orderColumns(), export.OrderColumns())

	require.NoError(t, p.Refresh(context.Background()))
	p.Render()

	return p
}

func TestListPage_RenderEmpty(t *testing.T) {
	fetch := func(context.Context, api.ListParams) (api.Page[api.Order], error) {
		return api.Page[api.Order]{}, nil
	}
	p := newListPage("Orders", pages.NewController(api.ResourceOrders, pages.OrdersSchema(), fetch, pages.Options{}), orderColumns(), nil)

	assert.Equal(t, "Order", p.GetCell(0, 1).Text)
	assert.Equal(t, "No items", p.GetCell(1, 1).Text)
	assert.Empty(t, p.CurrentID())
}

func TestListPage_RendersNewestFirst(t *testing.T) {
	p := newOrdersPage(t, sampleOrders(5))

	assert.Equal(t, 3, p.GetRowCount(), "header plus one page")
	assert.Equal(t, "ORD-E", p.GetCell(1, 1).Text)
	assert.Equal(t, "ORD-D", p.GetCell(2, 1).Text)
	assert.Equal(t, "$50.00", p.GetCell(1, 6).Text)
	assert.Equal(t, "ORD-E", p.CurrentID())

	st := p.Status()
	assert.Equal(t, 1, st.Summary.From)
	assert.Equal(t, 2, st.Summary.To)
	assert.Equal(t, 3, st.Summary.TotalPages)
	assert.Equal(t, pages.SortNewest, st.Sort)
}

func TestListPage_Paging(t *testing.T) {
	p := newOrdersPage(t, sampleOrders(5))

	p.NextPage()
	p.NextPage()
	assert.Equal(t, "ORD-A", p.CurrentID())
	assert.Equal(t, 2, p.GetRowCount())

	p.NextPage()
	assert.Equal(t, 3, p.Status().Summary.Current, "clamped at the last page")

	p.PrevPage()
	assert.Equal(t, "ORD-C", p.CurrentID())
}

func TestListPage_SetPageSize(t *testing.T) {
	p := newOrdersPage(t, sampleOrders(5))
	p.NextPage()

	p.SetPageSize(4)

	st := p.Status().Summary
	assert.Equal(t, 4, st.PageSize)
	assert.Equal(t, 1, st.Current, "a new page size returns to the first page")
	assert.Equal(t, 2, st.TotalPages)
	assert.Equal(t, 5, p.GetRowCount(), "header plus four rows")

	p.ClearFilters()
	assert.Equal(t, 2, p.Status().Summary.PageSize, "clearing restores the configured size")
}

func TestListPage_SearchAndFilter(t *testing.T) {
	p := newOrdersPage(t, sampleOrders(5))

	p.SetSearch("customer b")
	assert.Equal(t, "ORD-B", p.CurrentID())
	assert.True(t, p.Status().Filtered)

	p.SetSearch("")
	p.ToggleFilter(pages.DimStatus, api.OrderStatusShipped)
	assert.Equal(t, []string{api.OrderStatusShipped}, p.ActiveValues(pages.DimStatus))
	assert.Equal(t, 2, p.Status().Summary.FilteredCount)

	p.SetSearch("nobody")
	assert.Equal(t, "No matches for the current filters", p.GetCell(1, 1).Text)

	p.ClearFilters()
	assert.Equal(t, 5, p.Status().Summary.FilteredCount)
	assert.False(t, p.Status().Filtered)
}

func TestListPage_Selection(t *testing.T) {
	p := newOrdersPage(t, sampleOrders(5))

	p.ToggleCurrent()
	assert.Equal(t, 1, p.SelectionCount())
	assert.Equal(t, "●", p.GetCell(1, 0).Text)

	p.SelectVisible()
	assert.Equal(t, 2, p.SelectionCount())

	p.SelectVisible()
	assert.Zero(t, p.SelectionCount(), "a fully selected page is cleared")
}

func TestListPage_DateRange(t *testing.T) {
	p := newOrdersPage(t, sampleOrders(5))

	start := time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC)
	p.SetDateRange(start, start.Add(time.Hour))
	assert.Equal(t, 2, p.Status().Summary.FilteredCount)

	p.ClearDateRange()
	assert.Equal(t, 5, p.Status().Summary.FilteredCount)
}

func TestListPage_Export(t *testing.T) {
	p := newOrdersPage(t, sampleOrders(5))
	p.ToggleFilter(pages.DimStatus, api.OrderStatusPending)

	var all, filtered bytes.Buffer

	n, err := p.Export(&all, export.FormatCSV, false)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = p.Export(&filtered, export.FormatCSV, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, strings.Count(filtered.String(), "\n"))
	assert.Contains(t, filtered.String(), "ORD-D")
}

func TestListPage_Cursor(t *testing.T) {
	p := newOrdersPage(t, sampleOrders(5))

	p.Select(2, 0)
	p.SaveCursor()

	p.Select(1, 0)
	p.RestoreCursor()
	assert.Equal(t, "ORD-D", p.CurrentID())
}

func TestListPage_VimJumps(t *testing.T) {
	p := newOrdersPage(t, sampleOrders(5))
	key := func(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

	assert.Nil(t, p.vimKeys(key('G')))
	assert.Equal(t, 3, p.Status().Summary.Current)
	assert.Equal(t, "ORD-A", p.CurrentID())

	assert.Nil(t, p.vimKeys(key('g')))
	assert.Equal(t, 3, p.Status().Summary.Current, "a single g waits for the second")

	assert.Nil(t, p.vimKeys(key('g')))
	assert.Equal(t, 1, p.Status().Summary.Current)
	assert.Equal(t, "ORD-E", p.CurrentID())

	assert.NotNil(t, p.vimKeys(key('x')))
	assert.NotNil(t, p.vimKeys(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)))
}
