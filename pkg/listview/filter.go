package listview

import (
	"maps"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// DateRange is an inclusive [Start, End] interval. A range whose Start is
// after its End matches nothing.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the inclusive range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// FilterState is the full set of active search, filter and date constraints.
type FilterState struct {
	Search string
	// Accepted maps a dimension to its accepted values. A missing or empty
	// set leaves the dimension unconstrained.
	Accepted  map[string]map[string]struct{}
	DateRange *DateRange
}

// IsEmpty reports whether no constraint is active.
func (f FilterState) IsEmpty() bool {
	if f.Search != "" || f.DateRange != nil {
		return false
	}

	for _, set := range f.Accepted {
		if len(set) > 0 {
			return false
		}
	}

	return true
}

// Values returns the accepted values of a dimension in sorted order.
func (f FilterState) Values(dimension string) []string {
	return slices.Sorted(maps.Keys(f.Accepted[dimension]))
}

func (f FilterState) clone() FilterState {
	out := FilterState{
		Search:   f.Search,
		Accepted: make(map[string]map[string]struct{}, len(f.Accepted)),
	}

	for dim, set := range f.Accepted {
		out.Accepted[dim] = maps.Clone(set)
	}

	if f.DateRange != nil {
		dr := *f.DateRange
		out.DateRange = &dr
	}

	return out
}

// matcher holds per-computation state; case folding transformers are not
// safe to share between goroutines.
type matcher[T any] struct {
	schema  Schema[T]
	filters FilterState
	folder  cases.Caser
	needle  string
}

func newMatcher[T any](schema Schema[T], filters FilterState) *matcher[T] {
	folder := cases.Fold()

	return &matcher[T]{
		schema:  schema,
		filters: filters,
		folder:  folder,
		needle:  folder.String(filters.Search),
	}
}

// apply runs search, structured filters and date range in that order, each
// stage narrowing the previous result. Order of the input is preserved.
func (m *matcher[T]) apply(items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if m.matchSearch(item) && m.matchDimensions(item) && m.matchDate(item) {
			out = append(out, item)
		}
	}

	return out
}

func (m *matcher[T]) matchSearch(item T) bool {
	if m.needle == "" {
		return true
	}

	for _, field := range m.schema.SearchFields {
		if strings.Contains(m.folder.String(field(item)), m.needle) {
			return true
		}
	}

	return false
}

func (m *matcher[T]) matchDimensions(item T) bool {
	for dim, accepted := range m.filters.Accepted {
		if len(accepted) == 0 {
			continue
		}

		extract, ok := m.schema.Dimensions[dim]
		if !ok {
			continue
		}

		found := false
		for _, v := range extract(item) {
			if _, ok := accepted[v]; ok {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}

func (m *matcher[T]) matchDate(item T) bool {
	if m.filters.DateRange == nil || m.schema.DateField == nil {
		return true
	}

	return m.filters.DateRange.Contains(m.schema.DateField(item))
}

// sortStable orders items by less; ties keep their fetch order.
func sortStable[T any](items []T, less Less[T]) {
	if less == nil {
		return
	}

	slices.SortStableFunc(items, func(a, b T) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		default:
			return 0
		}
	})
}
