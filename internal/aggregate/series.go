package aggregate

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"clarifi/internal/models"
)

// Mode selects the bucket width of the spending series.
type Mode string

const (
	ModeMonth Mode = "month"
	ModeYear  Mode = "year"
)

// SeriesLength is the number of buckets in every series.
const SeriesLength = 6

// ParseMode accepts "month" (also the default for "") and "year".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeMonth:
		return ModeMonth, nil
	case ModeYear:
		return ModeYear, nil
	}
	return "", fmt.Errorf("unknown series mode %q", s)
}

// Bucket is one period of the spending series. Values has an entry for every
// taxonomy group, zero when nothing matched.
type Bucket struct {
	Label  string                     `json:"label"`
	Start  time.Time                  `json:"start"`
	End    time.Time                  `json:"end"`
	Values map[string]decimal.Decimal `json:"values"`
}

// SeriesResult is the stacked spending-by-category-group chart model.
type SeriesResult struct {
	Mode           Mode     `json:"mode"`
	CategoryGroups []string `json:"categoryGroups"`
	Buckets        []Bucket `json:"buckets"`
	// ExcludedCategories lists expense categories outside the taxonomy; their
	// amounts are not part of any group sum.
	ExcludedCategories []string `json:"excludedCategories"`
}

// CategoryGroups returns the groups that have at least one expense in txs,
// in order of first encounter.
func CategoryGroups(txs []models.Transaction) []string {
	seen := make(map[string]bool)
	groups := []string{}
	for _, tx := range txs {
		if tx.Type != models.TypeExpense {
			continue
		}
		g, ok := GroupOf(tx.Category)
		if !ok || seen[g] {
			continue
		}
		seen[g] = true
		groups = append(groups, g)
	}
	return groups
}

// SpendingSeries sums expense amounts per category group over six calendar
// months or years ending at now, oldest bucket first.
func SpendingSeries(txs []models.Transaction, now time.Time, mode Mode) SeriesResult {
	if mode != ModeYear {
		mode = ModeMonth
	}

	res := SeriesResult{
		Mode:               mode,
		CategoryGroups:     CategoryGroups(txs),
		Buckets:            seriesBuckets(now, mode),
		ExcludedCategories: []string{},
	}

	loc := now.Location()
	excluded := make(map[string]bool)
	for _, tx := range txs {
		if tx.Type != models.TypeExpense {
			continue
		}
		group, ok := GroupOf(tx.Category)
		if !ok {
			if !excluded[tx.Category] {
				excluded[tx.Category] = true
				res.ExcludedCategories = append(res.ExcludedCategories, tx.Category)
			}
			continue
		}
		if tx.Date.IsZero() {
			continue
		}
		at := tx.Date.In(loc)
		for i := range res.Buckets {
			b := &res.Buckets[i]
			if within(at, b.Start, b.End) {
				b.Values[group] = b.Values[group].Add(tx.Amount)
				break
			}
		}
	}
	return res
}

func seriesBuckets(now time.Time, mode Mode) []Bucket {
	loc := now.Location()
	buckets := make([]Bucket, 0, SeriesLength)
	for i := SeriesLength - 1; i >= 0; i-- {
		var start, last time.Time
		var label string
		if mode == ModeYear {
			year := now.Year() - i
			start = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
			last = time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
			label = start.Format("2006")
		} else {
			start = time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, loc)
			last = start.AddDate(0, 1, -1)
			label = start.Format("Jan 2006")
		}
		buckets = append(buckets, Bucket{
			Label:  label,
			Start:  start,
			End:    endOfDay(last),
			Values: zeroValues(),
		})
	}
	return buckets
}

func zeroValues() map[string]decimal.Decimal {
	v := make(map[string]decimal.Decimal, len(ExpenseGroups))
	for _, g := range ExpenseGroups {
		v[g.Name] = decimal.Zero
	}
	return v
}
