package forms

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the day format accepted by date range inputs.
const DateLayout = "2006-01-02"

// ParseDateRange reads an inclusive day range in loc. Either bound may be
// empty: a missing start is the zero time, a missing end is the last day of
// year 9999. The end bound covers its whole day.
func ParseDateRange(from, to string, loc *time.Location) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Date(9999, 12, 31, 23, 59, 59, 0, loc)

	if s := strings.TrimSpace(from); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			return start, end, errors.New("from: expected YYYY-MM-DD")
		}
		start = t
	}

	if s := strings.TrimSpace(to); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			return start, end, errors.New("to: expected YYYY-MM-DD")
		}
		end = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return start, end, nil
}
