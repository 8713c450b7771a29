package components

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/devnullvoid/shoptui/internal/ui/theme"
)

const (
	appTitle      = "Shop Admin"
	noticeTimeout = 3 * time.Second
)

// Header encapsulates the application header
type Header struct {
	*tview.TextView

	mu          sync.Mutex
	title       string
	isLoading   bool
	loadingText string
	stopLoading chan struct{}
	generation  int
	app         *tview.Application
}

// NewHeader creates a new application header
func NewHeader() *Header {
	header := tview.NewTextView()
	header.SetTextAlign(tview.AlignCenter)
	header.SetText(appTitle)
	header.SetDynamicColors(true)
	header.SetBackgroundColor(theme.Colors.Header)
	header.SetTextColor(theme.Colors.HeaderText)

	return &Header{
		TextView: header,
		title:    appTitle,
	}
}

// SetApp sets the application reference for UI updates
func (h *Header) SetApp(app *tview.Application) {
	h.app = app
}

// SetTitle sets the resting header text shown between notices.
func (h *Header) SetTitle(title string) {
	h.mu.Lock()
	h.title = title
	h.mu.Unlock()

	h.SetText(title)
}

// SetSignedIn shows who is signed in.
func (h *Header) SetSignedIn(email string) {
	if email == "" {
		h.SetTitle(appTitle)
		return
	}

	h.SetTitle(fmt.Sprintf("%s  [%s]%s[-]", appTitle, theme.ColorToTag(theme.Colors.Secondary), tview.Escape(email)))
}

// ShowLoading displays an animated loading indicator
func (h *Header) ShowLoading(message string) {
	h.StopLoading()

	h.mu.Lock()
	h.isLoading = true
	h.loadingText = message
	h.stopLoading = make(chan struct{})
	stop := h.stopLoading
	h.mu.Unlock()

	if h.app != nil {
		go h.animateLoading(stop)
	}
}

// StopLoading stops the loading animation
func (h *Header) StopLoading() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.isLoading {
		h.isLoading = false
		close(h.stopLoading)
	}
}

// Reset stops any animation and shows the title again.
func (h *Header) Reset() {
	h.StopLoading()

	h.mu.Lock()
	title := h.title
	h.mu.Unlock()

	h.SetText(title)
}

// IsLoading reports whether the header is currently showing a loading state.
func (h *Header) IsLoading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.isLoading
}

// ShowSuccess displays a success message temporarily
func (h *Header) ShowSuccess(message string) {
	h.showNotice("✓", theme.Colors.Success, message)
}

// ShowWarning displays a warning message temporarily
func (h *Header) ShowWarning(message string) {
	h.showNotice("!", theme.Colors.Warning, message)
}

// ShowError displays an error message temporarily
func (h *Header) ShowError(message string) {
	h.showNotice("✗", theme.Colors.Error, message)
}

func (h *Header) showNotice(symbol string, color tcell.Color, message string) {
	h.StopLoading()

	h.mu.Lock()
	h.generation++
	gen := h.generation
	h.mu.Unlock()

	h.SetText(fmt.Sprintf("[%s]%s %s[-]", theme.ColorToTag(color), symbol, tview.Escape(message)))

	// Clear the message after a few seconds unless a newer one replaced it.
	if h.app == nil {
		return
	}

	time.AfterFunc(noticeTimeout, func() {
		h.app.QueueUpdateDraw(func() {
			h.mu.Lock()
			current, title := h.generation, h.title
			h.mu.Unlock()

			if current == gen && !h.IsLoading() {
				h.SetText(title)
			}
		})
	})
}

// animateLoading displays an animated loading indicator
func (h *Header) animateLoading(stop <-chan struct{}) {
	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	index := 0

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			spinnerChar := spinner[index]
			h.app.QueueUpdateDraw(func() {
				h.mu.Lock()
				loading, text := h.isLoading, h.loadingText
				h.mu.Unlock()

				if loading {
					h.SetText(fmt.Sprintf("[%s]%s %s[-]", theme.ColorToTag(theme.Colors.Warning), spinnerChar, tview.Escape(text)))
				}
			})
			index = (index + 1) % len(spinner)
		}
	}
}
