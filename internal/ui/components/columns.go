package components

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/devnullvoid/shoptui/internal/ui/theme"
	"github.com/devnullvoid/shoptui/internal/ui/utils"
	"github.com/devnullvoid/shoptui/pkg/api"
)

// column renders one table column of an item type.
type column[T any] struct {
	title string
	align int
	text  func(T) string
	color func(T) tcell.Color
	// marker is color-tagged text shown before the escaped text.
	marker func(T) string
}

func (c column[T]) cell(item T) *tview.TableCell {
	text := tview.Escape(c.text(item))
	if c.marker != nil {
		text = c.marker(item) + text
	}

	cell := tview.NewTableCell(text).
		SetAlign(c.align).
		SetExpansion(1)

	if c.color != nil {
		cell.SetTextColor(c.color(item))
	} else {
		cell.SetTextColor(theme.Colors.Primary)
	}

	return cell
}

func statusColor[T any](status func(T) string) func(T) tcell.Color {
	return func(item T) tcell.Color {
		return theme.GetStatusColor(status(item))
	}
}

func statusMarker[T any](status func(T) string) func(T) string {
	return func(item T) string {
		return utils.FormatStatusIndicator(status(item))
	}
}

func orderColumns() []column[api.Order] {
	return []column[api.Order]{
		{title: "Order", text: func(o api.Order) string { return o.ID }},
		{title: "Customer", text: func(o api.Order) string { return o.CustomerName }},
		{title: "Email", text: func(o api.Order) string { return o.CustomerEmail }, color: func(api.Order) tcell.Color { return theme.Colors.Secondary }},
		{title: "Status", text: func(o api.Order) string { return o.Status }, color: statusColor(func(o api.Order) string { return o.Status }), marker: statusMarker(func(o api.Order) string { return o.Status })},
		{title: "Payment", text: func(o api.Order) string { return o.PaymentStatus }, color: statusColor(func(o api.Order) string { return o.PaymentStatus })},
		{title: "Total", align: tview.AlignRight, text: func(o api.Order) string { return utils.FormatMoney(o.Total) }},
		{title: "Placed", text: func(o api.Order) string { return utils.FormatDate(o.CreatedAt) }},
	}
}

func customerColumns() []column[api.Customer] {
	return []column[api.Customer]{
		{title: "Customer", text: func(c api.Customer) string { return c.ID }},
		{title: "Name", text: func(c api.Customer) string { return c.Name }},
		{title: "Email", text: func(c api.Customer) string { return c.Email }, color: func(api.Customer) tcell.Color { return theme.Colors.Secondary }},
		{title: "Status", text: func(c api.Customer) string { return c.Status }, color: statusColor(func(c api.Customer) string { return c.Status }), marker: statusMarker(func(c api.Customer) string { return c.Status })},
		{title: "Orders", align: tview.AlignRight, text: func(c api.Customer) string { return fmt.Sprint(c.OrdersCount) }},
		{title: "Spent", align: tview.AlignRight, text: func(c api.Customer) string { return utils.FormatMoney(c.TotalSpent) }},
		{title: "Joined", text: func(c api.Customer) string { return utils.FormatDate(c.CreatedAt) }},
	}
}

func adminColumns() []column[api.Admin] {
	return []column[api.Admin]{
		{title: "Admin", text: func(a api.Admin) string { return a.ID }},
		{title: "Name", text: func(a api.Admin) string { return a.Name }},
		{title: "Email", text: func(a api.Admin) string { return a.Email }, color: func(api.Admin) tcell.Color { return theme.Colors.Secondary }},
		{title: "Role", text: func(a api.Admin) string { return a.Role }, color: func(api.Admin) tcell.Color { return theme.Colors.Tertiary }},
		{title: "Status", text: func(a api.Admin) string { return a.Status }, color: statusColor(func(a api.Admin) string { return a.Status })},
		{title: "Last login", text: func(a api.Admin) string { return utils.FormatLastLogin(a.LastLogin) }},
	}
}

func productColumns() []column[api.Product] {
	return []column[api.Product]{
		{title: "Product", text: func(p api.Product) string { return p.ID }},
		{title: "Name", text: func(p api.Product) string {
			if p.Featured {
				return "★ " + p.Name
			}
			return p.Name
		}},
		{title: "Brand", text: func(p api.Product) string { return p.Brand }},
		{title: "Category", text: func(p api.Product) string { return p.Category }, color: func(api.Product) tcell.Color { return theme.Colors.Tertiary }},
		{title: "Price", align: tview.AlignRight, text: func(p api.Product) string { return utils.FormatMoney(p.Price) }},
		{title: "Rating", align: tview.AlignRight, text: func(p api.Product) string { return fmt.Sprintf("%.1f", p.Rating) }},
		{title: "Stock", align: tview.AlignRight, text: func(p api.Product) string { return utils.FormatStock(p.Stock) }, color: func(p api.Product) tcell.Color { return theme.GetStockColor(p.Stock) }},
		{title: "Tags", text: func(p api.Product) string { return strings.Join(p.Tags, ", ") }, color: func(api.Product) tcell.Color { return theme.Colors.Secondary }},
	}
}
