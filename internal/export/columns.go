package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/devnullvoid/shoptui/pkg/api"
)

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}

// OrderColumns are the CSV columns of an orders export.
func OrderColumns() []Column[api.Order] {
	return []Column[api.Order]{
		{"id", func(o api.Order) string { return o.ID }},
		{"customer", func(o api.Order) string { return o.CustomerName }},
		{"email", func(o api.Order) string { return o.CustomerEmail }},
		{"status", func(o api.Order) string { return o.Status }},
		{"payment", func(o api.Order) string { return o.PaymentStatus }},
		{"items", func(o api.Order) string { return strconv.Itoa(len(o.Items)) }},
		{"subtotal", func(o api.Order) string { return money(o.Subtotal) }},
		{"shipping", func(o api.Order) string { return money(o.Shipping) }},
		{"tax", func(o api.Order) string { return money(o.Tax) }},
		{"total", func(o api.Order) string { return money(o.Total) }},
		{"city", func(o api.Order) string { return o.ShippingAddress.City }},
		{"country", func(o api.Order) string { return o.ShippingAddress.Country }},
		{"created_at", func(o api.Order) string { return timestamp(o.CreatedAt) }},
	}
}

// CustomerColumns are the CSV columns of a customers export.
func CustomerColumns() []Column[api.Customer] {
	return []Column[api.Customer]{
		{"id", func(c api.Customer) string { return c.ID }},
		{"name", func(c api.Customer) string { return c.Name }},
		{"email", func(c api.Customer) string { return c.Email }},
		{"phone", func(c api.Customer) string { return c.Phone }},
		{"status", func(c api.Customer) string { return c.Status }},
		{"orders", func(c api.Customer) string { return strconv.Itoa(c.OrdersCount) }},
		{"total_spent", func(c api.Customer) string { return money(c.TotalSpent) }},
		{"created_at", func(c api.Customer) string { return timestamp(c.CreatedAt) }},
	}
}

// AdminColumns are the CSV columns of an admins export.
func AdminColumns() []Column[api.Admin] {
	return []Column[api.Admin]{
		{"id", func(a api.Admin) string { return a.ID }},
		{"name", func(a api.Admin) string { return a.Name }},
		{"email", func(a api.Admin) string { return a.Email }},
		{"role", func(a api.Admin) string { return a.Role }},
		{"status", func(a api.Admin) string { return a.Status }},
		{"last_login", func(a api.Admin) string {
			if a.LastLogin == nil {
				return ""
			}

			return timestamp(*a.LastLogin)
		}},
		{"created_at", func(a api.Admin) string { return timestamp(a.CreatedAt) }},
	}
}

// ProductColumns are the CSV columns of a catalog export.
func ProductColumns() []Column[api.Product] {
	return []Column[api.Product]{
		{"id", func(p api.Product) string { return p.ID }},
		{"name", func(p api.Product) string { return p.Name }},
		{"brand", func(p api.Product) string { return p.Brand }},
		{"category", func(p api.Product) string { return p.Category }},
		{"price", func(p api.Product) string { return money(p.Price) }},
		{"original_price", func(p api.Product) string {
			if p.OriginalPrice == 0 {
				return ""
			}

			return money(p.OriginalPrice)
		}},
		{"rating", func(p api.Product) string { return strconv.FormatFloat(p.Rating, 'f', 1, 64) }},
		{"reviews", func(p api.Product) string { return strconv.Itoa(p.Reviews) }},
		{"stock", func(p api.Product) string { return strconv.Itoa(p.Stock) }},
		{"featured", func(p api.Product) string { return strconv.FormatBool(p.Featured) }},
		{"tags", func(p api.Product) string { return strings.Join(p.Tags, ";") }},
	}
}
