// Package theme holds the dashboard's color palette.
//
// Components refer to roles (Primary, Success, StatusPending, ...) rather
// than fixed tcell colors. The config file picks a built-in theme and may
// override single roles:
//
//	theme:
//	  name: rose
//	  colors:
//	    headertext: "#f8bbd0"
//
// Values accept tcell color names, W3C names and hex codes.
package theme

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/devnullvoid/shoptui/internal/config"
	"github.com/devnullvoid/shoptui/pkg/api"
)

// Palette assigns a color to every role used by the dashboard.
type Palette struct {
	Primary   tcell.Color
	Secondary tcell.Color
	Tertiary  tcell.Color // column headers

	Success tcell.Color
	Warning tcell.Color
	Error   tcell.Color
	Info    tcell.Color

	Background tcell.Color
	Border     tcell.Color
	Selection  tcell.Color // cursor row
	Marked     tcell.Color // rows chosen for a bulk action
	Header     tcell.Color
	HeaderText tcell.Color
	Footer     tcell.Color
	FooterText tcell.Color

	Title        tcell.Color
	Contrast     tcell.Color
	MoreContrast tcell.Color
	Inverse      tcell.Color

	StatusDone    tcell.Color // delivered, active, paid
	StatusMoving  tcell.Color // shipped
	StatusPending tcell.Color // pending, processing, unpaid
	StatusStopped tcell.Color // cancelled, blocked, refunded
}

// role is one configurable palette entry. tag marks roles usable as
// [name] markup in dashboard text.
type role struct {
	name  string
	color func(p *Palette) *tcell.Color
	tag   bool
	def   string
	rose  string
}

var roles = []role{
	{"primary", func(p *Palette) *tcell.Color { return &p.Primary }, true, "white", "#f5e6ec"},
	{"secondary", func(p *Palette) *tcell.Color { return &p.Secondary }, true, "gray", "#a88a96"},
	{"tertiary", func(p *Palette) *tcell.Color { return &p.Tertiary }, true, "aqua", "#e58fb1"},
	{"success", func(p *Palette) *tcell.Color { return &p.Success }, true, "green", "#9ccfa4"},
	{"warning", func(p *Palette) *tcell.Color { return &p.Warning }, true, "yellow", "#f2c48d"},
	{"error", func(p *Palette) *tcell.Color { return &p.Error }, true, "red", "#e5737f"},
	{"info", func(p *Palette) *tcell.Color { return &p.Info }, true, "blue", "#9bb7e0"},
	{"background", func(p *Palette) *tcell.Color { return &p.Background }, false, "default", "#2a1d23"},
	{"border", func(p *Palette) *tcell.Color { return &p.Border }, false, "gray", "#6b4a58"},
	{"selection", func(p *Palette) *tcell.Color { return &p.Selection }, true, "blue", "#6b3a52"},
	{"marked", func(p *Palette) *tcell.Color { return &p.Marked }, false, "fuchsia", "#c2185b"},
	{"header", func(p *Palette) *tcell.Color { return &p.Header }, false, "default", "#4b2e39"},
	{"headertext", func(p *Palette) *tcell.Color { return &p.HeaderText }, false, "yellow", "#f8bbd0"},
	{"footer", func(p *Palette) *tcell.Color { return &p.Footer }, false, "default", "#2a1d23"},
	{"footertext", func(p *Palette) *tcell.Color { return &p.FooterText }, false, "white", "#f5e6ec"},
	{"title", func(p *Palette) *tcell.Color { return &p.Title }, true, "white", "#f8bbd0"},
	{"contrast", func(p *Palette) *tcell.Color { return &p.Contrast }, false, "blue", "#4b2e39"},
	{"morecontrast", func(p *Palette) *tcell.Color { return &p.MoreContrast }, false, "fuchsia", "#6b3a52"},
	{"inverse", func(p *Palette) *tcell.Color { return &p.Inverse }, false, "black", "#2a1d23"},
	{"statusdone", func(p *Palette) *tcell.Color { return &p.StatusDone }, false, "green", "#9ccfa4"},
	{"statusmoving", func(p *Palette) *tcell.Color { return &p.StatusMoving }, false, "aqua", "#9bb7e0"},
	{"statuspending", func(p *Palette) *tcell.Color { return &p.StatusPending }, false, "yellow", "#f2c48d"},
	{"statusstopped", func(p *Palette) *tcell.Color { return &p.StatusStopped }, false, "maroon", "#e5737f"},
}

// builtIn returns the role values of the named theme, falling back to
// "default" for unknown names.
func builtIn(name string) map[string]string {
	values := make(map[string]string, len(roles))
	for _, r := range roles {
		if strings.EqualFold(name, "rose") {
			values[r.name] = r.rose
		} else {
			values[r.name] = r.def
		}
	}

	return values
}

// Colors is the active palette.
var Colors = Build(nil)

// Resolve merges the chosen built-in theme with the user's overrides.
// Unknown role names in the overrides are ignored.
func Resolve(cfg *config.ThemeConfig) map[string]string {
	if cfg == nil {
		return builtIn("default")
	}

	values := builtIn(cfg.Name)
	for name, v := range cfg.Colors {
		if _, ok := values[strings.ToLower(name)]; ok {
			values[strings.ToLower(name)] = v
		}
	}

	return values
}

// Build returns the palette described by cfg.
func Build(cfg *config.ThemeConfig) Palette {
	var p Palette

	values := Resolve(cfg)
	for _, r := range roles {
		*r.color(&p) = parseColor(values[r.name])
	}

	return p
}

// ApplyCustomTheme makes the palette described by cfg the active one.
func ApplyCustomTheme(cfg *config.ThemeConfig) {
	Colors = Build(cfg)
}

func parseColor(s string) tcell.Color {
	if s == "" || strings.EqualFold(s, "default") {
		return tcell.ColorDefault
	}

	return tcell.GetColor(s)
}

// ColorToTag returns the tview markup name of c.
func ColorToTag(c tcell.Color) string {
	if c == tcell.ColorDefault {
		return "default"
	}

	if name := c.Name(); name != "" {
		return name
	}

	return fmt.Sprintf("#%06x", c.Hex())
}

// ReplaceSemanticTags rewrites role markup such as [primary] or [header]
// into color tags of the active palette.
func ReplaceSemanticTags(s string) string {
	pairs := make([]string, 0, 2*len(roles))

	for _, r := range roles {
		if !r.tag {
			continue
		}
		pairs = append(pairs, "["+r.name+"]", "["+ColorToTag(*r.color(&Colors))+"]")
	}

	// [header] and [footer] mean the text colors of those bars.
	pairs = append(pairs,
		"[header]", "["+ColorToTag(Colors.HeaderText)+"]",
		"[footer]", "["+ColorToTag(Colors.FooterText)+"]",
	)

	return strings.NewReplacer(pairs...).Replace(s)
}

// GetStatusColor returns the color of an order, payment or account status.
func GetStatusColor(status string) tcell.Color {
	switch status {
	case api.OrderStatusDelivered, api.AccountStatusActive, api.PaymentStatusPaid:
		return Colors.StatusDone
	case api.OrderStatusShipped:
		return Colors.StatusMoving
	case api.OrderStatusPending, api.OrderStatusProcessing, api.PaymentStatusUnpaid:
		return Colors.StatusPending
	case api.OrderStatusCancelled, api.AccountStatusBlocked, api.PaymentStatusRefunded:
		return Colors.StatusStopped
	default:
		return Colors.Secondary
	}
}

// GetStockColor returns the color of a stock level.
func GetStockColor(stock int) tcell.Color {
	switch {
	case stock <= 0:
		return Colors.Error
	case stock < 10:
		return Colors.Warning
	default:
		return Colors.Success
	}
}

// ApplyToTview points tview's default styles at the active palette.
func ApplyToTview() {
	tview.Styles = tview.Theme{
		PrimitiveBackgroundColor:    Colors.Background,
		ContrastBackgroundColor:     Colors.Contrast,
		MoreContrastBackgroundColor: Colors.Selection,
		BorderColor:                 Colors.Border,
		TitleColor:                  Colors.Title,
		GraphicsColor:               Colors.Info,
		PrimaryTextColor:            Colors.Primary,
		SecondaryTextColor:          Colors.Secondary,
		TertiaryTextColor:           Colors.Tertiary,
		InverseTextColor:            Colors.Inverse,
		ContrastSecondaryTextColor:  Colors.Selection,
	}
}
