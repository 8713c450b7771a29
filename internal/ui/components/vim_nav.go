package components

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// handleVimTopBottomRune implements "gg" and "G". It returns true when the
// key was consumed.
func handleVimTopBottomRune(event *tcell.EventKey, pendingG *bool, jumpTop func(), jumpBottom func()) bool {
	if event.Key() != tcell.KeyRune {
		*pendingG = false
		return false
	}

	switch event.Rune() {
	case 'g':
		if *pendingG {
			*pendingG = false
			jumpTop()
		} else {
			*pendingG = true
		}
		return true
	case 'G':
		*pendingG = false
		jumpBottom()
		return true
	default:
		*pendingG = false
		return false
	}
}

// vimKeys is the table input capture of a list page. Unlike tview's own
// g/G, the jumps cross page boundaries.
func (p *listPage[T]) vimKeys(event *tcell.EventKey) *tcell.EventKey {
	if handleVimTopBottomRune(event, &p.pendingG, p.jumpFirst, p.jumpLast) {
		return nil
	}

	return event
}

// jumpFirst moves to the first row of the first page.
func (p *listPage[T]) jumpFirst() {
	p.model().SetPage(1)
	p.Render()
	p.Select(1, 0)
}

// jumpLast moves to the last row of the last page.
func (p *listPage[T]) jumpLast() {
	p.model().SetPage(math.MaxInt)
	p.Render()

	if n := len(p.visible); n > 0 {
		p.Select(n, 0)
	}
}
