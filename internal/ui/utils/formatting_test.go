package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/devnullvoid/shoptui/pkg/api"
)

func TestFormatMoney(t *testing.T) {
	tests := map[float64]string{
		0:       "$0.00",
		9.5:     "$9.50",
		1234.5:  "$1,234.50",
		-12.25:  "-$12.25",
		1000000: "$1,000,000.00",
	}

	for in, want := range tests {
		assert.Equal(t, want, FormatMoney(in), "%v", in)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "-", FormatDate(time.Time{}))

	day := time.Date(2025, 3, 14, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "2025-03-14", FormatDate(day))
}

func TestFormatLastLogin(t *testing.T) {
	assert.Equal(t, "never", FormatLastLogin(nil))

	then := time.Now().Add(-3 * 24 * time.Hour)
	assert.Equal(t, "3 days ago", FormatLastLogin(&then))
}

func TestFormatStock(t *testing.T) {
	assert.Equal(t, "sold out", FormatStock(0))
	assert.Equal(t, "12", FormatStock(12))
}

func TestFormatStatusIndicator(t *testing.T) {
	assert.Contains(t, FormatStatusIndicator(api.OrderStatusDelivered), "green")
	assert.Contains(t, FormatStatusIndicator("Blocked"), "red")
	assert.Contains(t, FormatStatusIndicator(api.OrderStatusPending), "yellow")
}
