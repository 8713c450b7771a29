package export

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/devnullvoid/shoptui/pkg/api"
)

//go:embed invoice.html.tmpl
var invoiceSource string

var invoiceTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(v float64) string { return "$" + money(v) },
	"date":  func(t time.Time) string { return t.Format("January 2, 2006") },
}).Parse(invoiceSource))

// Shop identifies the seller printed on invoices.
type Shop struct {
	Name    string
	Address string
	Email   string
}

// DefaultShop is used when no seller details are configured.
var DefaultShop = Shop{Name: "Glow Beauty", Email: "orders@glowshop.test"}

type invoiceData struct {
	Shop     Shop
	Order    api.Order
	Number   string
	IssuedAt time.Time
}

// InvoiceNumber derives the printed invoice number of an order.
func InvoiceNumber(order api.Order) string {
	return "INV-" + order.ID
}

// Invoice renders a printable HTML invoice for one order.
func Invoice(w io.Writer, shop Shop, order api.Order, issuedAt time.Time) error {
	if order.ID == "" {
		return fmt.Errorf("invoice: order has no id")
	}

	data := invoiceData{
		Shop:     shop,
		Order:    order,
		Number:   InvoiceNumber(order),
		IssuedAt: issuedAt,
	}

	if err := invoiceTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render invoice for %s: %w", order.ID, err)
	}

	return nil
}
