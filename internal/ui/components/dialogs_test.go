package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devnullvoid/shoptui/internal/bulk"
)

func TestWrapLines(t *testing.T) {
	assert.Equal(t, []string{"short"}, wrapLines("short", 40))

	long := strings.Repeat("ORD-001: conflict\n", 30)
	lines := wrapLines(long, 40)

	assert.Len(t, lines, maxDialogLines)
	assert.Contains(t, lines[len(lines)-1], "more lines in the log")
}

func TestFailureReport(t *testing.T) {
	res := bulk.Result{
		Succeeded: []string{"ORD-001"},
		Failed: []bulk.Failure{
			{ID: "ORD-002", Err: errors.New("conflict")},
			{ID: "ORD-003", Err: errors.New("not found")},
		},
	}

	report := failureReport(res)

	assert.Contains(t, report, "ORD-002: conflict\n")
	assert.Contains(t, report, "ORD-003: not found\n")
	assert.NotContains(t, report, "ORD-001")
	assert.Contains(t, report, "stay selected")
}
