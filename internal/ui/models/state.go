// Package models holds UI state shared across dashboard components.
package models

import (
	"sync"

	"github.com/devnullvoid/shoptui/internal/logger"
	"github.com/devnullvoid/shoptui/pkg/api/interfaces"
)

// CursorState remembers where the user was on a page so switching tabs
// returns to the same row.
type CursorState struct {
	Row    int
	ItemID string
}

// State holds UI state that outlives a single page view.
type State struct {
	mu      sync.RWMutex
	cursors map[string]CursorState
}

// GlobalState is the singleton instance for UI state.
var GlobalState = NewState()

// NewState returns an empty state.
func NewState() *State {
	return &State{cursors: make(map[string]CursorState)}
}

// SaveCursor records the cursor of page.
func (s *State) SaveCursor(page string, c CursorState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursors[page] = c
}

// Cursor returns the saved cursor of page, if any.
func (s *State) Cursor(page string) (CursorState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cursors[page]

	return c, ok
}

// Reset forgets every saved cursor, as after signing out.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.cursors)
}

// UI logger instance - will be set by the main application.
var uiLogger interfaces.Logger

// SetUILogger sets the shared logger instance for UI components.
func SetUILogger(logger interfaces.Logger) {
	uiLogger = logger
}

// GetUILogger returns the UI logger, with fallback if not set.
func GetUILogger() interfaces.Logger {
	if uiLogger != nil {
		return uiLogger
	}
	// Fallback to global logger if not set
	return logger.Default()
}
