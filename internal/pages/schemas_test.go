package pages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devnullvoid/shoptui/pkg/api"
	"github.com/devnullvoid/shoptui/pkg/listview"
)

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}

	return out
}

func TestPriceBucket(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{0, PriceUnder25},
		{24.99, PriceUnder25},
		{25, Price25To50},
		{49.5, Price25To50},
		{50, Price50To100},
		{99.99, Price50To100},
		{100, PriceOver100},
		{450, PriceOver100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PriceBucket(tt.price), "price %v", tt.price)
	}
}

func TestSchemasDeclareMenuEntries(t *testing.T) {
	check := func(resource api.Resource, hasSort func(listview.SortKey) bool, hasDim func(string) bool, def listview.SortKey) {
		t.Helper()

		keys := SortKeys(resource)
		require.NotEmpty(t, keys)
		assert.Equal(t, def, keys[0], "%s menu starts with its default sort", resource)

		for _, k := range keys {
			assert.True(t, hasSort(k), "%s sort %s", resource, k)
		}

		for _, d := range Dimensions(resource) {
			assert.True(t, hasDim(d), "%s dimension %s", resource, d)
		}
	}

	o, c, a, p := OrdersSchema(), CustomersSchema(), AdminsSchema(), ProductsSchema()
	check(api.ResourceOrders, o.HasSort, o.HasDimension, o.DefaultSort)
	check(api.ResourceCustomers, c.HasSort, c.HasDimension, c.DefaultSort)
	check(api.ResourceAdmins, a.HasSort, a.HasDimension, a.DefaultSort)
	check(api.ResourceProducts, p.HasSort, p.HasDimension, p.DefaultSort)
}

func catalog() []api.Product {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	return []api.Product{
		{ID: "p1", Name: "Rose Toner", Brand: "Petal", Category: "skincare", Price: 14, Rating: 4.1, Stock: 3, CreatedAt: day},
		{ID: "p2", Name: "Oud Parfum", Brand: "Nuit", Category: "fragrance", Price: 120, Rating: 4.9, Stock: 0, Featured: true, CreatedAt: day.AddDate(0, 0, 2)},
		{ID: "p3", Name: "Glow Serum", Brand: "Petal", Category: "skincare", Price: 34, Rating: 4.6, Stock: 8, Tags: []string{"sale", "bestseller"}, CreatedAt: day.AddDate(0, 0, 1)},
		{ID: "p4", Name: "Lash Mascara", Brand: "Rouge", Category: "makeup", Price: 16, Rating: 3.9, Stock: 12, Featured: true, CreatedAt: day.AddDate(0, 0, -1)},
	}
}

func TestProductsSchema_Sorts(t *testing.T) {
	productID := func(p api.Product) string { return p.ID }

	tests := []struct {
		key  listview.SortKey
		want []string
	}{
		{SortFeatured, []string{"p2", "p4", "p1", "p3"}},
		{SortPriceLow, []string{"p1", "p4", "p3", "p2"}},
		{SortPriceHigh, []string{"p2", "p3", "p4", "p1"}},
		{SortNewest, []string{"p2", "p3", "p1", "p4"}},
		{SortRating, []string{"p2", "p3", "p1", "p4"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			m := listview.New(ProductsSchema())
			m.SetItems(catalog(), 0)
			require.True(t, m.SetSortKey(tt.key))

			assert.Equal(t, tt.want, ids(m.Filtered(), productID))
		})
	}
}

func TestProductsSchema_Dimensions(t *testing.T) {
	productID := func(p api.Product) string { return p.ID }

	m := listview.New(ProductsSchema())
	m.SetItems(catalog(), 0)

	m.SetFilterValues(DimAvailability, InStock)
	assert.ElementsMatch(t, []string{"p1", "p3", "p4"}, ids(m.Filtered(), productID))

	m.SetFilterValues(DimPrice, PriceUnder25)
	assert.ElementsMatch(t, []string{"p1", "p4"}, ids(m.Filtered(), productID))

	m.ClearAll()
	m.SetFilterValues(DimTag, "bestseller")
	assert.Equal(t, []string{"p3"}, ids(m.Filtered(), productID))

	m.ClearAll()
	m.SetSearchText("sale")
	assert.Equal(t, []string{"p3"}, ids(m.Filtered(), productID), "search covers tags")
}

func TestAdminsSchema_LastLogin(t *testing.T) {
	earlier := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	later := earlier.Add(48 * time.Hour)

	m := listview.New(AdminsSchema())
	m.SetItems([]api.Admin{
		{ID: "a1", Name: "Never"},
		{ID: "a2", Name: "Early", LastLogin: &earlier},
		{ID: "a3", Name: "Late", LastLogin: &later},
	}, 0)

	assert.Equal(t, []string{"a2", "a3", "a1"}, ids(m.Filtered(), func(a api.Admin) string { return a.ID }), "name order by default")

	require.True(t, m.SetSortKey(SortLastLogin))
	assert.Equal(t, []string{"a3", "a2", "a1"}, ids(m.Filtered(), func(a api.Admin) string { return a.ID }))
}

func TestStatusChoices(t *testing.T) {
	assert.Equal(t, api.OrderStatuses, StatusChoices(api.ResourceOrders))
	assert.Contains(t, StatusChoices(api.ResourceAdmins), api.AccountStatusBlocked)
	assert.Nil(t, StatusChoices(api.ResourceProducts))
}
