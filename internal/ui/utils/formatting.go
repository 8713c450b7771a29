// Package utils holds the text formatting shared by the dashboard tables.
package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/devnullvoid/shoptui/pkg/api"
)

// FormatMoney formats an amount in dollars with thousands separators, e.g.
// "$1,234.50".
func FormatMoney(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}

	return "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatDate formats t as a local calendar day, or "-" when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Local().Format("2006-01-02")
}

// FormatLastLogin formats a sign-in time relative to now, e.g. "3 days ago".
func FormatLastLogin(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}

	return humanize.Time(*t)
}

// FormatStock formats a stock level; zero reads "sold out".
func FormatStock(stock int) string {
	if stock <= 0 {
		return "sold out"
	}

	return strconv.Itoa(stock)
}

// FormatStatusIndicator returns a colored marker for a status.
// Green ▲ for finished or active, red ▼ for cancelled or blocked, yellow ●
// for anything in between.
func FormatStatusIndicator(status string) string {
	switch strings.ToLower(status) {
	case api.OrderStatusDelivered, api.AccountStatusActive, api.PaymentStatusPaid:
		return "[green]▲[-] "
	case api.OrderStatusCancelled, api.AccountStatusBlocked, api.PaymentStatusRefunded:
		return "[red]▼[-] "
	default:
		return "[yellow]●[-] "
	}
}
