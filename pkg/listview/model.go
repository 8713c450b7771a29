package listview

import (
	"slices"
	"sync"
	"time"
)

// Model is the list view model of one page. It is safe for concurrent use:
// the UI goroutine mutates inputs while fetch completions replace the
// collection.
type Model[T any] struct {
	mu sync.RWMutex

	schema Schema[T]

	items         []T
	reportedTotal int

	filters  FilterState
	sortKey  SortKey
	current  int
	pageSize int

	selected map[string]struct{}
}

// New creates an empty model in its freshly mounted state.
func New[T any](schema Schema[T]) *Model[T] {
	m := &Model[T]{
		schema:   schema,
		selected: make(map[string]struct{}),
	}
	m.resetLocked()

	return m
}

// Schema returns the schema the model was built with.
func (m *Model[T]) Schema() Schema[T] {
	return m.schema
}

func (m *Model[T]) resetLocked() {
	m.filters = FilterState{Accepted: make(map[string]map[string]struct{})}
	m.sortKey = m.schema.DefaultSort
	m.pageSize = m.schema.pageSize()
	m.current = 1
}

// SetItems replaces the raw collection wholesale, as after a fetch. total is
// the backend-reported total; values below len(items) are raised to it.
// Selected ids missing from the new collection are dropped and the page
// cursor is clamped to the new page count.
func (m *Model[T]) SetItems(items []T, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = slices.Clone(items)
	if total < len(items) {
		total = len(items)
	}
	m.reportedTotal = total

	m.reconcileSelectionLocked()
	m.clampLocked()
}

// Items returns a copy of the raw collection.
func (m *Model[T]) Items() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.items)
}

// SetSearchText replaces the free-text filter and returns to page 1.
func (m *Model[T]) SetSearchText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.filters.Search = text
	m.current = 1
}

// ToggleFilterValue adds value to the accepted set of dimension if absent,
// otherwise removes it, and returns to page 1. It reports whether the value
// is accepted afterwards. Unknown dimensions are ignored.
func (m *Model[T]) ToggleFilterValue(dimension, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.schema.HasDimension(dimension) {
		return false
	}

	set, ok := m.filters.Accepted[dimension]
	if !ok {
		set = make(map[string]struct{})
		m.filters.Accepted[dimension] = set
	}

	m.current = 1

	if _, exists := set[value]; exists {
		delete(set, value)
		return false
	}

	set[value] = struct{}{}

	return true
}

// SetFilterValues replaces the accepted set of dimension. No values leaves
// the dimension unconstrained. Unknown dimensions are ignored.
func (m *Model[T]) SetFilterValues(dimension string, values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.schema.HasDimension(dimension) {
		return
	}

	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	m.filters.Accepted[dimension] = set
	m.current = 1
}

// SetSortKey switches the active comparator. Keys the page did not declare
// are ignored and false is returned.
func (m *Model[T]) SetSortKey(key SortKey) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.schema.HasSort(key) {
		return false
	}

	m.sortKey = key

	return true
}

// SortKey returns the active sort key.
func (m *Model[T]) SortKey() SortKey {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sortKey
}

// SetDateRange constrains items to the inclusive range [start, end] and
// returns to page 1. A start after end matches nothing.
func (m *Model[T]) SetDateRange(start, end time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.filters.DateRange = &DateRange{Start: start, End: end}
	m.current = 1
}

// ClearDateRange removes the date constraint.
func (m *Model[T]) ClearDateRange() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.filters.DateRange = nil
	m.clampLocked()
}

// SetPage moves to page n, clamped into [1, totalPages].
func (m *Model[T]) SetPage(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = ClampPage(n, TotalPages(len(m.filteredLocked()), m.pageSize))
}

// NextPage advances one page, stopping at the last page.
func (m *Model[T]) NextPage() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = ClampPage(m.current+1, TotalPages(len(m.filteredLocked()), m.pageSize))
}

// PrevPage goes back one page, stopping at page 1.
func (m *Model[T]) PrevPage() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = ClampPage(m.current-1, TotalPages(len(m.filteredLocked()), m.pageSize))
}

// SetPageSize replaces the page size and returns to page 1. Non-positive
// sizes are ignored.
func (m *Model[T]) SetPageSize(n int) {
	if n < 1 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pageSize = n
	m.current = 1
}

// ClearAll resets filters, search, date range, sort key and page size and
// returns to page 1 in a single update.
func (m *Model[T]) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetLocked()
}

// Filters returns a snapshot of the active constraints.
func (m *Model[T]) Filters() FilterState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.filters.clone()
}

// Filtered returns every item matching the active constraints, sorted.
func (m *Model[T]) Filtered() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.filteredLocked()
}

// ComputeVisibleSlice returns the filtered, sorted items of the current
// page. It is a pure function of the model state: calling it twice without
// an intervening mutation yields equal slices.
func (m *Model[T]) ComputeVisibleSlice() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filtered := m.filteredLocked()
	start, end := PageBounds(m.current, m.pageSize, len(filtered))

	return slices.Clone(filtered[start:end])
}

// Summary returns the counts behind "showing X–Y of Z".
func (m *Model[T]) Summary() Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := newSummary(m.current, m.pageSize, len(m.filteredLocked()))
	s.RawCount = len(m.items)
	s.ReportedTotal = m.reportedTotal

	return s
}

func (m *Model[T]) filteredLocked() []T {
	out := newMatcher(m.schema, m.filters).apply(m.items)
	sortStable(out, m.schema.Sorts[m.sortKey])

	return out
}

func (m *Model[T]) clampLocked() {
	m.current = ClampPage(m.current, TotalPages(len(m.filteredLocked()), m.pageSize))
}
