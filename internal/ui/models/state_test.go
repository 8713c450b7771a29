package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
)

func TestState_Cursor(t *testing.T) {
	s := NewState()

	_, ok := s.Cursor("orders")
	assert.False(t, ok)

	s.SaveCursor("orders", CursorState{Row: 3, ItemID: "ORD-003"})
	c, ok := s.Cursor("orders")
	assert.True(t, ok)
	assert.Equal(t, "ORD-003", c.ItemID)

	s.Reset()
	_, ok = s.Cursor("orders")
	assert.False(t, ok)
}

func TestGetUILogger_Fallback(t *testing.T) {
	SetUILogger(nil)
	assert.NotNil(t, GetUILogger())

	l := &interfaces.NoOpLogger{}
	SetUILogger(l)
	t.Cleanup(func() { SetUILogger(nil) })

	assert.Same(t, l, GetUILogger())
}
