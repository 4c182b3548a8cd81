package aggregate

import (
	"time"

	"clarifi/internal/models"
)

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// dayIn truncates the transaction date to midnight in loc.
// ok is false for records without a usable date; callers skip them.
func dayIn(tx models.Transaction, loc *time.Location) (time.Time, bool) {
	if tx.Date.IsZero() {
		return time.Time{}, false
	}
	return startOfDay(tx.Date.In(loc)), true
}

// within reports start <= t <= end.
func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
