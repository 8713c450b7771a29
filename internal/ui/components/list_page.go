package components

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/devnullvoid/shoptui/internal/bulk"
	"github.com/devnullvoid/shoptui/internal/export"
	"github.com/devnullvoid/shoptui/internal/pages"
	"github.com/devnullvoid/shoptui/internal/ui/models"
	"github.com/devnullvoid/shoptui/internal/ui/theme"
	"github.com/devnullvoid/shoptui/pkg/api"
	"github.com/devnullvoid/shoptui/pkg/listview"
)

// pageView is the type-erased surface the App drives. listPage implements
// it once per item type.
type pageView interface {
	tview.Primitive

	Resource() api.Resource
	Title() string
	Render()
	Status() PageStatus

	Refresh(ctx context.Context) error
	Stop()
	Busy() bool
	FetchedAt() time.Time

	SearchText() string
	SetSearch(text string)
	Dimensions() []string
	FilterChoices(dimension string) []string
	ActiveValues(dimension string) []string
	ToggleFilter(dimension, value string)
	SetDateRange(start, end time.Time)
	ClearDateRange()
	SortKeys() []listview.SortKey
	SetSort(key listview.SortKey)
	ClearFilters()

	ToggleCurrent()
	SelectVisible()
	NextPage()
	PrevPage()
	SetPageSize(n int)
	CurrentID() string
	SelectionCount() int

	Bulk(ctx context.Context, action bulk.Action) (bulk.Result, error)
	Apply(ctx context.Context, id string, action bulk.Action) error
	Export(w io.Writer, format export.Format, filtered bool) (int, error)

	SaveCursor()
	RestoreCursor()
}

// listPage renders one pages.Controller as a table.
type listPage[T any] struct {
	*tview.Table

	ctrl    *pages.Controller[T]
	title   string
	columns []column[T]
	export  []export.Column[T]
	busy    atomic.Bool

	visible  []T
	pendingG bool
}

var (
	_ pageView = (*listPage[api.Order])(nil)
	_ pageView = (*listPage[api.Product])(nil)
)

func newListPage[T any](title string, ctrl *pages.Controller[T], columns []column[T], exportColumns []export.Column[T]) *listPage[T] {
	table := tview.NewTable()
	table.SetBorder(true)
	table.SetTitle(" " + title + " ")
	table.SetTitleColor(theme.Colors.Title)
	table.SetBorderColor(theme.Colors.Border)
	table.SetBackgroundColor(theme.Colors.Background)
	table.SetSelectable(true, false)
	table.SetFixed(1, 0)
	table.SetSelectedStyle(tcell.StyleDefault.Background(theme.Colors.Selection).Foreground(theme.Colors.Primary))

	p := &listPage[T]{
		Table:   table,
		ctrl:    ctrl,
		title:   title,
		columns: columns,
		export:  exportColumns,
	}
	table.SetInputCapture(p.vimKeys)
	p.Render()

	return p
}

func (p *listPage[T]) Resource() api.Resource { return p.ctrl.Resource() }
func (p *listPage[T]) Title() string          { return p.title }

func (p *listPage[T]) model() *listview.Model[T] { return p.ctrl.Model() }

// Render rebuilds the table from the visible slice. It must run on the UI
// goroutine.
func (p *listPage[T]) Render() {
	row, _ := p.GetSelection()

	p.Clear()

	p.SetCell(0, 0, tview.NewTableCell(" ").SetSelectable(false))
	for i, c := range p.columns {
		p.SetCell(0, i+1, tview.NewTableCell(c.title).
			SetTextColor(theme.Colors.Tertiary).
			SetAttributes(tcell.AttrBold).
			SetAlign(c.align).
			SetExpansion(1).
			SetSelectable(false))
	}

	m := p.model()
	id := m.Schema().ID
	p.visible = m.ComputeVisibleSlice()

	if len(p.visible) == 0 {
		text := "No items"
		if len(m.Items()) > 0 {
			text = "No matches for the current filters"
		}
		p.SetCell(1, 1, tview.NewTableCell(text).SetTextColor(theme.Colors.Secondary).SetSelectable(false))

		return
	}

	for r, item := range p.visible {
		marker := tview.NewTableCell(" ")
		if m.IsSelected(id(item)) {
			marker = tview.NewTableCell("●").SetTextColor(theme.Colors.Marked)
		}
		p.SetCell(r+1, 0, marker)

		for i, c := range p.columns {
			p.SetCell(r+1, i+1, c.cell(item))
		}
	}

	row = min(max(row, 1), len(p.visible))
	p.Select(row, 0)
}

func (p *listPage[T]) Status() PageStatus {
	m := p.model()
	st := p.ctrl.State()

	return PageStatus{
		Summary:  m.Summary(),
		Selected: m.SelectionCount(),
		Sort:     m.SortKey(),
		Filtered: !m.Filters().IsEmpty(),
		Loading:  st.Loading,
		Stale:    st.Stale,
	}
}

func (p *listPage[T]) Refresh(ctx context.Context) error { return p.ctrl.Refresh(ctx) }
func (p *listPage[T]) Stop()                             { p.ctrl.Stop() }
func (p *listPage[T]) Busy() bool                        { return p.busy.Load() }
func (p *listPage[T]) FetchedAt() time.Time              { return p.ctrl.State().FetchedAt }

func (p *listPage[T]) SearchText() string { return p.model().Filters().Search }

func (p *listPage[T]) SetSearch(text string) {
	p.model().SetSearchText(text)
	p.Render()
}

func (p *listPage[T]) Dimensions() []string { return pages.Dimensions(p.Resource()) }

func (p *listPage[T]) FilterChoices(dimension string) []string {
	return p.ctrl.FilterChoices(dimension)
}

func (p *listPage[T]) ActiveValues(dimension string) []string {
	return p.model().Filters().Values(dimension)
}

func (p *listPage[T]) ToggleFilter(dimension, value string) {
	p.model().ToggleFilterValue(dimension, value)
	p.Render()
}

func (p *listPage[T]) SetDateRange(start, end time.Time) {
	p.model().SetDateRange(start, end)
	p.Render()
}

func (p *listPage[T]) ClearDateRange() {
	p.model().ClearDateRange()
	p.Render()
}

func (p *listPage[T]) SortKeys() []listview.SortKey { return pages.SortKeys(p.Resource()) }

func (p *listPage[T]) SetSort(key listview.SortKey) {
	p.model().SetSortKey(key)
	p.Render()
}

func (p *listPage[T]) SetPageSize(n int) {
	p.model().SetPageSize(n)
	p.Render()
}

func (p *listPage[T]) ClearFilters() {
	p.model().ClearAll()
	p.Render()
}

func (p *listPage[T]) ToggleCurrent() {
	if id := p.CurrentID(); id != "" {
		p.model().ToggleSelected(id)
		p.Render()
	}
}

// SelectVisible selects the whole page, or clears the selection when every
// visible row is already selected.
func (p *listPage[T]) SelectVisible() {
	m := p.model()
	id := m.Schema().ID

	all := len(p.visible) > 0
	for _, item := range p.visible {
		if !m.IsSelected(id(item)) {
			all = false
			break
		}
	}

	if all {
		m.ClearSelection()
	} else {
		m.SelectVisible()
	}

	p.Render()
}

func (p *listPage[T]) NextPage() {
	p.model().NextPage()
	p.Select(1, 0)
	p.Render()
}

func (p *listPage[T]) PrevPage() {
	p.model().PrevPage()
	p.Select(1, 0)
	p.Render()
}

// CurrentID returns the id of the row under the cursor, or "".
func (p *listPage[T]) CurrentID() string {
	row, _ := p.GetSelection()
	if row < 1 || row > len(p.visible) {
		return ""
	}

	return p.model().Schema().ID(p.visible[row-1])
}

func (p *listPage[T]) SelectionCount() int { return p.model().SelectionCount() }

func (p *listPage[T]) Bulk(ctx context.Context, action bulk.Action) (bulk.Result, error) {
	p.busy.Store(true)
	defer p.busy.Store(false)

	return p.ctrl.Bulk(ctx, action)
}

func (p *listPage[T]) Apply(ctx context.Context, id string, action bulk.Action) error {
	p.busy.Store(true)
	defer p.busy.Store(false)

	return p.ctrl.Apply(ctx, id, action)
}

// Export writes the whole collection, or only the rows matching the active
// filters in display order, and returns how many items were written.
func (p *listPage[T]) Export(w io.Writer, format export.Format, filtered bool) (int, error) {
	items := p.model().Items()
	if filtered {
		items = p.model().Filtered()
	}

	return len(items), export.Write(w, format, p.export, items)
}

func (p *listPage[T]) SaveCursor() {
	row, _ := p.GetSelection()
	models.GlobalState.SaveCursor(string(p.Resource()), models.CursorState{Row: row, ItemID: p.CurrentID()})
}

// RestoreCursor moves back to the saved item if it is still visible, else to
// the saved row.
func (p *listPage[T]) RestoreCursor() {
	c, ok := models.GlobalState.Cursor(string(p.Resource()))
	if !ok {
		return
	}

	id := p.model().Schema().ID
	for i, item := range p.visible {
		if id(item) == c.ItemID {
			p.Select(i+1, 0)
			return
		}
	}

	if c.Row >= 1 && c.Row <= len(p.visible) {
		p.Select(c.Row, 0)
	}
}
