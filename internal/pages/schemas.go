package pages

import (
	"strings"
	"time"

	"github.com/devnullvoid/shoptui/pkg/api"
	"github.com/devnullvoid/shoptui/pkg/listview"
)

// Sort keys offered by the pages.
const (
	SortNewest    listview.SortKey = "newest"
	SortOldest    listview.SortKey = "oldest"
	SortTotalHigh listview.SortKey = "total-high"
	SortTotalLow  listview.SortKey = "total-low"
	SortName      listview.SortKey = "name"
	SortSpentHigh listview.SortKey = "spent-high"
	SortLastLogin listview.SortKey = "last-login"
	SortFeatured  listview.SortKey = "featured"
	SortPriceLow  listview.SortKey = "price-low"
	SortPriceHigh listview.SortKey = "price-high"
	SortRating    listview.SortKey = "rating"
)

// Filter dimensions offered by the pages.
const (
	DimStatus       = "status"
	DimPayment      = "payment"
	DimRole         = "role"
	DimCategory     = "category"
	DimBrand        = "brand"
	DimAvailability = "availability"
	DimPrice        = "price"
	DimTag          = "tag"
)

// Availability values.
const (
	InStock    = "in-stock"
	OutOfStock = "out-of-stock"
)

// Price buckets, in ascending order.
const (
	PriceUnder25 = "under-25"
	Price25To50  = "25-50"
	Price50To100 = "50-100"
	PriceOver100 = "100-plus"
)

// PriceBuckets lists the price dimension values in ascending order.
var PriceBuckets = []string{PriceUnder25, Price25To50, Price50To100, PriceOver100}

// PriceBucket places a price into its filter bucket. Bounds belong to the
// upper bucket: 25 is "25-50".
func PriceBucket(price float64) string {
	switch {
	case price < 25:
		return PriceUnder25
	case price < 50:
		return Price25To50
	case price < 100:
		return Price50To100
	default:
		return PriceOver100
	}
}

// Availability reports whether a product is in stock as a filter value.
func Availability(p api.Product) string {
	if p.InStock() {
		return InStock
	}

	return OutOfStock
}

// SortKeys returns a schema's sort keys in menu order.
func SortKeys(resource api.Resource) []listview.SortKey {
	switch resource {
	case api.ResourceOrders:
		return []listview.SortKey{SortNewest, SortOldest, SortTotalHigh, SortTotalLow}
	case api.ResourceCustomers:
		return []listview.SortKey{SortNewest, SortOldest, SortName, SortSpentHigh}
	case api.ResourceAdmins:
		return []listview.SortKey{SortName, SortNewest, SortLastLogin}
	case api.ResourceProducts:
		return []listview.SortKey{SortFeatured, SortPriceLow, SortPriceHigh, SortNewest, SortRating}
	default:
		return nil
	}
}

// Dimensions returns a schema's filter dimensions in menu order.
func Dimensions(resource api.Resource) []string {
	switch resource {
	case api.ResourceOrders:
		return []string{DimStatus, DimPayment}
	case api.ResourceCustomers:
		return []string{DimStatus}
	case api.ResourceAdmins:
		return []string{DimStatus, DimRole}
	case api.ResourceProducts:
		return []string{DimCategory, DimBrand, DimAvailability, DimPrice, DimTag}
	default:
		return nil
	}
}

func orderCreated(o api.Order) time.Time { return o.CreatedAt }
func customerCreated(c api.Customer) time.Time { return c.CreatedAt }
func adminCreated(a api.Admin) time.Time { return a.CreatedAt }
func productCreated(p api.Product) time.Time { return p.CreatedAt }

// OrdersSchema describes the orders page, newest first.
func OrdersSchema() listview.Schema[api.Order] {
	byTotal := listview.By(func(o api.Order) float64 { return o.Total })

	return listview.Schema[api.Order]{
		ID: func(o api.Order) string { return o.ID },
		SearchFields: []func(api.Order) string{
			func(o api.Order) string { return o.ID },
			func(o api.Order) string { return o.CustomerName },
			func(o api.Order) string { return o.CustomerEmail },
		},
		Dimensions: map[string]listview.Extractor[api.Order]{
			DimStatus:  listview.One(func(o api.Order) string { return o.Status }),
			DimPayment: listview.One(func(o api.Order) string { return o.PaymentStatus }),
		},
		DateField: orderCreated,
		Sorts: map[listview.SortKey]listview.Less[api.Order]{
			SortNewest:    listview.Desc(listview.ByTime(orderCreated)),
			SortOldest:    listview.ByTime(orderCreated),
			SortTotalHigh: listview.Desc(byTotal),
			SortTotalLow:  byTotal,
		},
		DefaultSort: SortNewest,
	}
}

// CustomersSchema describes the customers page, newest first.
func CustomersSchema() listview.Schema[api.Customer] {
	return listview.Schema[api.Customer]{
		ID: func(c api.Customer) string { return c.ID },
		SearchFields: []func(api.Customer) string{
			func(c api.Customer) string { return c.Name },
			func(c api.Customer) string { return c.Email },
			func(c api.Customer) string { return c.Phone },
		},
		Dimensions: map[string]listview.Extractor[api.Customer]{
			DimStatus: listview.One(func(c api.Customer) string { return c.Status }),
		},
		DateField: customerCreated,
		Sorts: map[listview.SortKey]listview.Less[api.Customer]{
			SortNewest:    listview.Desc(listview.ByTime(customerCreated)),
			SortOldest:    listview.ByTime(customerCreated),
			SortName:      listview.By(func(c api.Customer) string { return strings.ToLower(c.Name) }),
			SortSpentHigh: listview.Desc(listview.By(func(c api.Customer) float64 { return c.TotalSpent })),
		},
		DefaultSort: SortNewest,
	}
}

// AdminsSchema describes the admins page, sorted by name.
func AdminsSchema() listview.Schema[api.Admin] {
	return listview.Schema[api.Admin]{
		ID: func(a api.Admin) string { return a.ID },
		SearchFields: []func(api.Admin) string{
			func(a api.Admin) string { return a.Name },
			func(a api.Admin) string { return a.Email },
		},
		Dimensions: map[string]listview.Extractor[api.Admin]{
			DimStatus: listview.One(func(a api.Admin) string { return a.Status }),
			DimRole:   listview.One(func(a api.Admin) string { return a.Role }),
		},
		DateField: adminCreated,
		Sorts: map[listview.SortKey]listview.Less[api.Admin]{
			SortName:   listview.By(func(a api.Admin) string { return strings.ToLower(a.Name) }),
			SortNewest: listview.Desc(listview.ByTime(adminCreated)),
			// Admins who never signed in sort last.
			SortLastLogin: func(a, b api.Admin) bool {
				switch {
				case a.LastLogin == nil:
					return false
				case b.LastLogin == nil:
					return true
				default:
					return a.LastLogin.After(*b.LastLogin)
				}
			},
		},
		DefaultSort: SortName,
	}
}

// ProductsSchema describes the catalog page, featured products first.
func ProductsSchema() listview.Schema[api.Product] {
	byPrice := listview.By(func(p api.Product) float64 { return p.Price })

	return listview.Schema[api.Product]{
		ID: func(p api.Product) string { return p.ID },
		SearchFields: []func(api.Product) string{
			func(p api.Product) string { return p.Name },
			func(p api.Product) string { return p.Brand },
			func(p api.Product) string { return p.Category },
			func(p api.Product) string { return strings.Join(p.Tags, " ") },
		},
		Dimensions: map[string]listview.Extractor[api.Product]{
			DimCategory:     listview.One(func(p api.Product) string { return p.Category }),
			DimBrand:        listview.One(func(p api.Product) string { return p.Brand }),
			DimAvailability: listview.One(Availability),
			DimPrice:        listview.One(func(p api.Product) string { return PriceBucket(p.Price) }),
			DimTag:          func(p api.Product) []string { return p.Tags },
		},
		DateField: productCreated,
		Sorts: map[listview.SortKey]listview.Less[api.Product]{
			SortFeatured:  func(a, b api.Product) bool { return a.Featured && !b.Featured },
			SortPriceLow:  byPrice,
			SortPriceHigh: listview.Desc(byPrice),
			SortNewest:    listview.Desc(listview.ByTime(productCreated)),
			SortRating:    listview.Desc(listview.By(func(p api.Product) float64 { return p.Rating })),
		},
		DefaultSort: SortFeatured,
	}
}

// NewOrders creates the orders page controller.
func NewOrders(client *api.Client, opts Options) *Controller[api.Order] {
	return NewController(api.ResourceOrders, OrdersSchema(), client.ListOrders, opts)
}

// NewCustomers creates the customers page controller.
func NewCustomers(client *api.Client, opts Options) *Controller[api.Customer] {
	return NewController(api.ResourceCustomers, CustomersSchema(), client.ListCustomers, opts)
}

// NewAdmins creates the admins page controller.
func NewAdmins(client *api.Client, opts Options) *Controller[api.Admin] {
	return NewController(api.ResourceAdmins, AdminsSchema(), client.ListAdmins, opts)
}

// NewProducts creates the catalog page controller.
func NewProducts(client *api.Client, opts Options) *Controller[api.Product] {
	return NewController(api.ResourceProducts, ProductsSchema(), client.ListProducts, opts)
}
