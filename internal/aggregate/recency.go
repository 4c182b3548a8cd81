// Package aggregate derives the dashboard view models from a flat list of
// transactions. Every function is pure: the same transactions, reference
// time and parameters always give the same result.
//
// Calendar comparisons happen in the location of the supplied now, with the
// time of day truncated to midnight. Records with a zero date are excluded
// from any date-based placement instead of failing the whole computation.
package aggregate

import (
	"slices"
	"time"

	"clarifi/internal/models"
)

// Recency bucket keys.
const (
	BucketToday     = "today"
	BucketYesterday = "yesterday"
	BucketThisWeek  = "thisWeek"
	BucketThisMonth = "thisMonth"
	BucketOlder     = "older"
)

// RecencyGroups holds the list widget buckets. Slices are never nil so all
// five keys are always present in the JSON.
type RecencyGroups struct {
	Today     []models.Transaction `json:"today"`
	Yesterday []models.Transaction `json:"yesterday"`
	ThisWeek  []models.Transaction `json:"thisWeek"`
	ThisMonth []models.Transaction `json:"thisMonth"`
	Older     []models.Transaction `json:"older"`
}

func newRecencyGroups() RecencyGroups {
	return RecencyGroups{
		Today:     []models.Transaction{},
		Yesterday: []models.Transaction{},
		ThisWeek:  []models.Transaction{},
		ThisMonth: []models.Transaction{},
		Older:     []models.Transaction{},
	}
}

// Count returns the number of grouped transactions.
func (g RecencyGroups) Count() int {
	return len(g.Today) + len(g.Yesterday) + len(g.ThisWeek) + len(g.ThisMonth) + len(g.Older)
}

// Bucket returns the slice for a bucket key.
func (g RecencyGroups) Bucket(key string) []models.Transaction {
	switch key {
	case BucketToday:
		return g.Today
	case BucketYesterday:
		return g.Yesterday
	case BucketThisWeek:
		return g.ThisWeek
	case BucketThisMonth:
		return g.ThisMonth
	case BucketOlder:
		return g.Older
	}
	return nil
}

// GroupByRecency places each transaction in exactly one bucket. Rules are
// checked in order: today, yesterday, this week (from the most recent
// Sunday), this month (from the 1st), older. Input order is preserved
// inside each bucket.
func GroupByRecency(txs []models.Transaction, now time.Time) RecencyGroups {
	loc := now.Location()
	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)

	g := newRecencyGroups()
	for _, tx := range txs {
		day, ok := dayIn(tx, loc)
		if !ok {
			continue
		}
		switch {
		case day.Equal(today):
			g.Today = append(g.Today, tx)
		case day.Equal(yesterday):
			g.Yesterday = append(g.Yesterday, tx)
		case !day.Before(weekStart):
			g.ThisWeek = append(g.ThisWeek, tx)
		case !day.Before(monthStart):
			g.ThisMonth = append(g.ThisMonth, tx)
		default:
			g.Older = append(g.Older, tx)
		}
	}
	return g
}

// FilterByRange keeps transactions whose calendar day lies in [start, end],
// both ends inclusive, evaluated in start's location.
func FilterByRange(txs []models.Transaction, start, end time.Time) []models.Transaction {
	loc := start.Location()
	from := startOfDay(start)
	to := startOfDay(end.In(loc))

	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		day, ok := dayIn(tx, loc)
		if !ok {
			continue
		}
		if within(day, from, to) {
			out = append(out, tx)
		}
	}
	return out
}

// SortByDateDesc returns a copy ordered newest first; ties fall back to
// CreatedAt, newest first.
func SortByDateDesc(txs []models.Transaction) []models.Transaction {
	out := slices.Clone(txs)
	slices.SortStableFunc(out, func(a, b models.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

// RecentView filters to the last days calendar days up to now, sorts newest
// first and groups by recency.
func RecentView(txs []models.Transaction, now time.Time, days int) RecencyGroups {
	filtered := FilterByRange(txs, now.AddDate(0, 0, -days), now)
	return GroupByRecency(SortByDateDesc(filtered), now)
}
