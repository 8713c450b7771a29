// Package listview implements the client-side list view model shared by every
// admin and catalog page: a fetched collection plus search text, structured
// filters, a date range, a sort key and a page cursor produce the slice that
// is shown to the user.
//
// A Model never performs I/O and never fails. Out-of-range input is clamped
// or yields an empty result. The displayed slice is always recomputed from
// the current inputs, so no derived state can drift from them.
package listview

import (
	"cmp"
	"time"
)

// SortKey names the active comparator of a page.
type SortKey string

// Less reports whether a sorts before b.
type Less[T any] func(a, b T) bool

// Extractor returns the values an item holds for one filter dimension.
// Single-valued dimensions return a one-element slice, see One.
type Extractor[T any] func(item T) []string

// Schema describes how a Model reads one item type.
type Schema[T any] struct {
	// ID returns the unique identifier of an item. Required.
	ID func(T) string

	// SearchFields are matched case-insensitively by the free-text search.
	SearchFields []func(T) string

	// Dimensions are the structured filters the page offers.
	Dimensions map[string]Extractor[T]

	// DateField is compared against the date range. Optional.
	DateField func(T) time.Time

	// Sorts maps each declared sort key to its comparator.
	Sorts map[SortKey]Less[T]

	// DefaultSort is active on mount and after ClearAll. Must be in Sorts,
	// or empty to keep fetch order.
	DefaultSort SortKey

	// DefaultPageSize is used on mount. Values below 1 fall back to 10.
	DefaultPageSize int
}

// DefaultPageSize applies when a schema does not declare one.
const DefaultPageSize = 10

func (s Schema[T]) pageSize() int {
	if s.DefaultPageSize < 1 {
		return DefaultPageSize
	}

	return s.DefaultPageSize
}

// HasDimension reports whether the schema declares the named dimension.
func (s Schema[T]) HasDimension(name string) bool {
	_, ok := s.Dimensions[name]
	return ok
}

// HasSort reports whether key is one of the declared sort keys.
func (s Schema[T]) HasSort(key SortKey) bool {
	_, ok := s.Sorts[key]
	return ok
}

// One adapts a single-valued field to an Extractor.
func One[T any](field func(T) string) Extractor[T] {
	return func(item T) []string {
		return []string{field(item)}
	}
}

// By builds an ascending comparator from an ordered key.
func By[T any, K cmp.Ordered](key func(T) K) Less[T] {
	return func(a, b T) bool {
		return key(a) < key(b)
	}
}

// ByTime builds an ascending comparator from a timestamp.
func ByTime[T any](key func(T) time.Time) Less[T] {
	return func(a, b T) bool {
		return key(a).Before(key(b))
	}
}

// Desc reverses a comparator while keeping ties as ties.
func Desc[T any](less Less[T]) Less[T] {
	return func(a, b T) bool {
		return less(b, a)
	}
}
