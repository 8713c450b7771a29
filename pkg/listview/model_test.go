package listview

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOrder struct {
	ID       string
	Customer string
	Email    string
	Status   string
	Tags     []string
	Placed   time.Time
	Total    float64
}

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testSchema() Schema[testOrder] {
	return Schema[testOrder]{
		ID: func(o testOrder) string { return o.ID },
		SearchFields: []func(testOrder) string{
			func(o testOrder) string { return o.ID },
			func(o testOrder) string { return o.Customer },
			func(o testOrder) string { return o.Email },
		},
		Dimensions: map[string]Extractor[testOrder]{
			"status": One(func(o testOrder) string { return o.Status }),
			"tag":    func(o testOrder) []string { return o.Tags },
		},
		DateField: func(o testOrder) time.Time { return o.Placed },
		Sorts: map[SortKey]Less[testOrder]{
			"newest":     Desc(ByTime(func(o testOrder) time.Time { return o.Placed })),
			"total-high": Desc(By(func(o testOrder) float64 { return o.Total })),
			"total-low":  By(func(o testOrder) float64 { return o.Total }),
		},
		DefaultSort:     "newest",
		DefaultPageSize: 10,
	}
}

func makeOrders(n int) []testOrder {
	statuses := []string{"pending", "shipped", "delivered"}
	out := make([]testOrder, n)
	for i := range out {
		out[i] = testOrder{
			ID:       fmt.Sprintf("ORD-%03d", i+1),
			Customer: fmt.Sprintf("Customer %d", i+1),
			Email:    fmt.Sprintf("c%d@example.com", i+1),
			Status:   statuses[i%len(statuses)],
			Placed:   baseTime.Add(time.Duration(i) * time.Hour),
			Total:    float64(10 + i%5),
		}
	}

	return out
}

func ids(items []testOrder) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}

	return out
}

func TestModel_PaginationClamp(t *testing.T) {
	m := New(testSchema())
	m.SetItems(makeOrders(25), 0)

	s := m.Summary()
	assert.Equal(t, 3, s.TotalPages)
	assert.Equal(t, 1, s.Current)

	m.SetPage(5)
	assert.Equal(t, 3, m.Summary().Current)
	assert.Len(t, m.ComputeVisibleSlice(), 5)

	m.SetPage(-2)
	assert.Equal(t, 1, m.Summary().Current)
}

func TestModel_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	m := New(testSchema())
	m.SetItems([]testOrder{
		{ID: "ORD-001", Placed: baseTime},
		{ID: "ORD-002", Placed: baseTime.Add(time.Hour)},
		{ID: "ORD-100", Placed: baseTime.Add(2 * time.Hour)},
	}, 0)
	m.SetSortKey("total-low")

	m.SetSearchText("ord-00")

	assert.Equal(t, []string{"ORD-001", "ORD-002"}, ids(m.ComputeVisibleSlice()))
}

func TestModel_SearchMatchesAnyField(t *testing.T) {
	m := New(testSchema())
	m.SetItems([]testOrder{
		{ID: "A", Customer: "Zoë Lane", Email: "zoe@example.com"},
		{ID: "B", Customer: "Mark", Email: "MARK@SHOP.TEST"},
	}, 0)

	m.SetSearchText("shop.test")
	assert.Equal(t, []string{"B"}, ids(m.Filtered()))

	m.SetSearchText("ZOË")
	assert.Equal(t, []string{"A"}, ids(m.Filtered()))
}

func TestModel_SearchResetsPage(t *testing.T) {
	m := New(testSchema())
	m.SetItems(makeOrders(30), 0)
	m.SetPage(3)

	m.SetSearchText("Customer")

	assert.Equal(t, 1, m.Summary().Current)
}

func TestModel_ToggleFilterValueTwiceRestoresSet(t *testing.T) {
	m := New(testSchema())
	m.SetItems(makeOrders(9), 0)
	m.SetFilterValues("status", "pending")
	before := m.Filters().Values("status")

	assert.True(t, m.ToggleFilterValue("status", "shipped"))
	assert.False(t, m.ToggleFilterValue("status", "shipped"))

	assert.Equal(t, before, m.Filters().Values("status"))
}

func TestModel_StructuredFilters(t *testing.T) {
	m := New(testSchema())
	orders := makeOrders(9)
	orders[0].Tags = []string{"gift"}
	orders[3].Tags = []string{"gift", "express"}
	orders[4].Tags = []string{"express"}
	m.SetItems(orders, 0)
	m.SetSortKey("total-low")

	m.ToggleFilterValue("status", "pending")
	assert.Equal(t, []string{"ORD-001", "ORD-004", "ORD-007"}, ids(sortedByID(m.Filtered())))

	// dimensions are ANDed
	m.ToggleFilterValue("tag", "gift")
	assert.Equal(t, []string{"ORD-001", "ORD-004"}, ids(sortedByID(m.Filtered())))

	// values within a dimension are ORed
	m.ToggleFilterValue("status", "shipped")
	m.SetFilterValues("tag", "express")
	assert.Equal(t, []string{"ORD-004", "ORD-005"}, ids(sortedByID(m.Filtered())))
}

func TestModel_UnknownDimensionIsNoOp(t *testing.T) {
	m := New(testSchema())
	m.SetItems(makeOrders(12), 0)
	m.SetPage(2)

	assert.False(t, m.ToggleFilterValue("colour", "red"))
	m.SetFilterValues("colour", "red")

	assert.True(t, m.Filters().IsEmpty())
	assert.Equal(t, 2, m.Summary().Current)
}

func TestModel_UnknownSortKeyIsNoOp(t *testing.T) {
	m := New(testSchema())

	assert.False(t, m.SetSortKey("rating"))
	assert.Equal(t, SortKey("newest"), m.SortKey())

	assert.True(t, m.SetSortKey("total-high"))
	assert.Equal(t, SortKey("total-high"), m.SortKey())
}

func TestModel_SortIsStable(t *testing.T) {
	m := New(testSchema())
	orders := makeOrders(10)
	m.SetItems(orders, 0)
	m.SetPageSize(100)
	m.SetSortKey("total-low")

	got := m.ComputeVisibleSlice()
	require.Len(t, got, 10)

	// Totals cycle 10..14, so equal totals must keep fetch order.
	assert.Equal(t, []string{"ORD-001", "ORD-006"}, ids(got[0:2]))
	assert.Equal(t, []string{"ORD-005", "ORD-010"}, ids(got[8:10]))
}

func TestModel_DateRange(t *testing.T) {
	m := New(testSchema())
	m.SetItems(makeOrders(10), 0)

	m.SetDateRange(baseTime.Add(2*time.Hour), baseTime.Add(4*time.Hour))
	assert.Equal(t, []string{"ORD-005", "ORD-004", "ORD-003"}, ids(m.Filtered()))

	m.SetDateRange(baseTime.Add(4*time.Hour), baseTime)
	assert.Empty(t, m.Filtered())
	assert.Equal(t, 1, m.Summary().TotalPages)

	m.ClearDateRange()
	assert.Len(t, m.Filtered(), 10)
}

func TestModel_SetPageSizeResetsCurrent(t *testing.T) {
	m := New(testSchema())
	m.SetItems(makeOrders(50), 0)
	m.SetPage(4)

	m.SetPageSize(7)
	assert.Equal(t, 1, m.Summary().Current)
	assert.Equal(t, 8, m.Summary().TotalPages)

	m.SetPage(3)
	m.SetPageSize(0)
	assert.Equal(t, 3, m.Summary().Current, "non-positive sizes are ignored")
	assert.Equal(t, 7, m.Summary().PageSize)
}

func TestModel_SummaryDisplayBounds(t *testing.T) {
	m := New(testSchema())

	s := m.Summary()
	assert.Equal(t, 0, s.From)
	assert.Equal(t, 0, s.To)
	assert.Equal(t, 0, s.FilteredCount)

	m.SetItems(makeOrders(25), 40)
	m.SetPage(3)
	s = m.Summary()
	assert.Equal(t, 21, s.From)
	assert.Equal(t, 25, s.To)
	assert.Equal(t, 25, s.RawCount)
	assert.Equal(t, 40, s.ReportedTotal)
}

func TestModel_ClearAllMatchesFreshModel(t *testing.T) {
	orders := makeOrders(23)

	m := New(testSchema())
	m.SetItems(orders, 0)
	m.SetSearchText("customer 1")
	m.ToggleFilterValue("status", "shipped")
	m.SetDateRange(baseTime, baseTime.Add(time.Hour))
	m.SetSortKey("total-high")
	m.SetPageSize(5)
	m.SetPage(2)

	m.ClearAll()

	fresh := New(testSchema())
	fresh.SetItems(orders, 0)

	assert.Equal(t, fresh.ComputeVisibleSlice(), m.ComputeVisibleSlice())
	assert.Equal(t, fresh.Summary(), m.Summary())
	assert.True(t, m.Filters().IsEmpty())
}

func TestModel_RefetchClampsDanglingPage(t *testing.T) {
	m := New(testSchema())
	m.SetItems(makeOrders(21), 0)
	m.SetPage(3)

	m.SetItems(makeOrders(20), 0)

	assert.Equal(t, 2, m.Summary().Current)
}

func TestModel_SelectionReconciledOnRefetch(t *testing.T) {
	m := New(testSchema())
	m.SetItems(makeOrders(5), 0)

	assert.True(t, m.ToggleSelected("ORD-002"))
	m.Select("ORD-004", "ORD-999")
	assert.False(t, m.ToggleSelected("ORD-999"))
	assert.Equal(t, []string{"ORD-002", "ORD-004"}, m.SelectedIDs())

	m.SetItems(makeOrders(3), 0)

	assert.Equal(t, []string{"ORD-002"}, m.SelectedIDs())
	assert.False(t, m.IsSelected("ORD-004"))

	m.ClearSelection()
	assert.Zero(t, m.SelectionCount())
}

func TestModel_SelectVisible(t *testing.T) {
	m := New(testSchema())
	m.SetItems(makeOrders(15), 0)
	m.SetPage(2)

	m.SelectVisible()

	assert.Equal(t, 5, m.SelectionCount())
}

func TestModel_SelectVisibleDuringRefetch(t *testing.T) {
	all := makeOrders(40)
	first, second := all[:20], all[20:]

	m := New(testSchema())
	m.SetItems(first, 0)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := range 500 {
			if i%2 == 0 {
				m.SetItems(second, 0)
			} else {
				m.SetItems(first, 0)
			}
		}
	}()

	go func() {
		defer wg.Done()
		for range 500 {
			m.SelectVisible()
		}
	}()

	wg.Wait()

	assert.Equal(t, len(m.SelectedIDs()), m.SelectionCount(), "every selected id belongs to the current collection")
}

func TestPaginationHelpers(t *testing.T) {
	tests := []struct {
		count, size, pages int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.count, tt.size), func(t *testing.T) {
			assert.Equal(t, tt.pages, TotalPages(tt.count, tt.size))
		})
	}

	start, end := PageBounds(3, 10, 25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)
}

func sortedByID(items []testOrder) []testOrder {
	out := slices.Clone(items)
	slices.SortFunc(out, func(a, b testOrder) int { return strings.Compare(a.ID, b.ID) })

	return out
}
