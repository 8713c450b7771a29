package listview

// TotalPages returns max(1, ceil(count/pageSize)).
// A non-positive pageSize is treated as 1.
func TotalPages(count, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}

	if count <= 0 {
		return 1
	}

	return (count + pageSize - 1) / pageSize
}

// ClampPage clamps page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}

	switch {
	case page < 1:
		return 1
	case page > totalPages:
		return totalPages
	default:
		return page
	}
}

// PageBounds returns the half-open index range [start, end) of page
// current within a list of count items.
func PageBounds(current, pageSize, count int) (start, end int) {
	if count <= 0 || pageSize < 1 || current < 1 {
		return 0, 0
	}

	start = (current - 1) * pageSize
	if start > count {
		start = count
	}

	end = start + pageSize
	if end > count {
		end = count
	}

	return start, end
}

// Summary describes the current page for "showing X–Y of Z" displays.
type Summary struct {
	// RawCount is the size of the fetched collection.
	RawCount int
	// ReportedTotal is the backend's total, which may exceed RawCount when
	// the backend paginates.
	ReportedTotal int
	// FilteredCount is the number of items matching all filters.
	FilteredCount int
	TotalPages    int
	Current       int
	PageSize      int
	// From and To are 1-based display bounds, both 0 when nothing matches.
	From int
	To   int
}

func newSummary(current, pageSize, filtered int) Summary {
	s := Summary{
		FilteredCount: filtered,
		TotalPages:    TotalPages(filtered, pageSize),
		Current:       current,
		PageSize:      pageSize,
	}

	if filtered == 0 {
		return s
	}

	start, end := PageBounds(current, pageSize, filtered)
	s.From = start + 1
	s.To = end

	return s
}
