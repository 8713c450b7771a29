package theme

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/devnullvoid/shoptui/internal/config"
	"github.com/devnullvoid/shoptui/pkg/api"
)

func TestBuild_Default(t *testing.T) {
	p := Build(nil)

	assert.Equal(t, tcell.ColorWhite, p.Primary)
	assert.Equal(t, tcell.ColorDefault, p.Background)
	assert.Equal(t, tcell.ColorMaroon, p.StatusStopped)
}

func TestBuild_RoseWithOverrides(t *testing.T) {
	p := Build(&config.ThemeConfig{
		Name:   "Rose",
		Colors: map[string]string{"HeaderText": "#ffffff", "sparkle": "red"},
	})

	assert.Equal(t, tcell.GetColor("#f5e6ec"), p.Primary)
	assert.Equal(t, tcell.GetColor("#ffffff"), p.HeaderText)
	assert.NotContains(t, Resolve(&config.ThemeConfig{Colors: map[string]string{"sparkle": "red"}}), "sparkle")
}

func TestBuild_UnknownThemeFallsBack(t *testing.T) {
	assert.Equal(t, Build(nil), Build(&config.ThemeConfig{Name: "neon"}))
}

func TestColorToTag(t *testing.T) {
	assert.Equal(t, "default", ColorToTag(tcell.ColorDefault))
	assert.Equal(t, "red", ColorToTag(tcell.ColorRed))
	assert.Equal(t, "#123456", ColorToTag(tcell.NewHexColor(0x123456)))
}

func TestReplaceSemanticTags(t *testing.T) {
	prev := Colors
	t.Cleanup(func() { Colors = prev })

	ApplyCustomTheme(&config.ThemeConfig{Colors: map[string]string{"primary": "red", "headertext": "#123456"}})

	out := ReplaceSemanticTags("[primary]id[-] [header]Orders[-] [unknown]")
	assert.Equal(t, "[red]id[-] [#123456]Orders[-] [unknown]", out)
}

func TestStatusAndStockColors(t *testing.T) {
	assert.Equal(t, Colors.StatusDone, GetStatusColor(api.OrderStatusDelivered))
	assert.Equal(t, Colors.StatusPending, GetStatusColor(api.OrderStatusPending))
	assert.Equal(t, Colors.StatusStopped, GetStatusColor(api.AccountStatusBlocked))
	assert.Equal(t, Colors.Secondary, GetStatusColor("lost"))

	assert.Equal(t, Colors.Error, GetStockColor(0))
	assert.Equal(t, Colors.Warning, GetStockColor(3))
	assert.Equal(t, Colors.Success, GetStockColor(40))
}
