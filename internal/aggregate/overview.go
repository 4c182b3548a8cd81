package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"clarifi/internal/models"
)

// OverviewWindowDays is the length of the current and previous comparison periods.
const OverviewWindowDays = 30

var hundred = decimal.NewFromInt(100)

// OverviewResult is the income/expense comparison of the last 30 days
// against the 30 days before.
type OverviewResult struct {
	PeriodStart         time.Time            `json:"periodStart"`
	PeriodEnd           time.Time            `json:"periodEnd"`
	CurrentIncome       decimal.Decimal      `json:"currentIncome"`
	CurrentExpenses     decimal.Decimal      `json:"currentExpenses"`
	NetIncome           decimal.Decimal      `json:"netIncome"`
	PreviousNetIncome   decimal.Decimal      `json:"previousNetIncome"`
	PercentageChange    decimal.Decimal      `json:"percentageChange"`
	IncomeTransactions  []models.Transaction `json:"incomeTransactions"`
	ExpenseTransactions []models.Transaction `json:"expenseTransactions"`
}

// Overview compares the current window [now-30d, now] (inclusive at both
// calendar-day ends) with the previous window [now-60d, now-30d), which
// stops before the first day of the current one so no day is counted twice.
func Overview(txs []models.Transaction, now time.Time) OverviewResult {
	loc := now.Location()
	currentStart := startOfDay(now.AddDate(0, 0, -OverviewWindowDays))
	currentEnd := endOfDay(now)
	previousStart := startOfDay(now.AddDate(0, 0, -2*OverviewWindowDays))

	res := OverviewResult{
		PeriodStart:         currentStart,
		PeriodEnd:           currentEnd,
		CurrentIncome:       decimal.Zero,
		CurrentExpenses:     decimal.Zero,
		IncomeTransactions:  []models.Transaction{},
		ExpenseTransactions: []models.Transaction{},
	}
	previousIncome, previousExpenses := decimal.Zero, decimal.Zero

	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		at := tx.Date.In(loc)
		switch {
		case within(at, currentStart, currentEnd):
			if tx.Type == models.TypeIncome {
				res.CurrentIncome = res.CurrentIncome.Add(tx.Amount)
				res.IncomeTransactions = append(res.IncomeTransactions, tx)
			} else if tx.Type == models.TypeExpense {
				res.CurrentExpenses = res.CurrentExpenses.Add(tx.Amount)
				res.ExpenseTransactions = append(res.ExpenseTransactions, tx)
			}
		case !at.Before(previousStart) && at.Before(currentStart):
			if tx.Type == models.TypeIncome {
				previousIncome = previousIncome.Add(tx.Amount)
			} else if tx.Type == models.TypeExpense {
				previousExpenses = previousExpenses.Add(tx.Amount)
			}
		}
	}

	res.NetIncome = res.CurrentIncome.Sub(res.CurrentExpenses)
	res.PreviousNetIncome = previousIncome.Sub(previousExpenses)
	res.PercentageChange = PercentageChange(res.NetIncome, res.PreviousNetIncome)
	return res
}

// PercentageChange is ((current - previous) / |previous|) * 100. A zero
// baseline is reported as exactly 100 whatever the sign of current.
func PercentageChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return hundred
	}
	return current.Sub(previous).Div(previous.Abs()).Mul(hundred)
}
