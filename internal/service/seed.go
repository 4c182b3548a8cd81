package service

import (
	"time"

	"github.com/shopspring/decimal"

	"clarifi/internal/models"
)

// SampleTransactions returns the five demo transactions, dated relative to now.
func SampleTransactions(now time.Time) []models.Transaction {
	day := func(offset int) time.Time {
		return now.AddDate(0, 0, offset).UTC()
	}
	return []models.Transaction{
		{Type: models.TypeIncome, Amount: decimal.RequireFromString("3200.00"), Description: "Monthly salary", Category: "Salary", Date: day(-2)},
		{Type: models.TypeExpense, Amount: decimal.RequireFromString("1450.00"), Description: "Apartment rent", Category: "Rent", Date: day(-2)},
		{Type: models.TypeExpense, Amount: decimal.RequireFromString("86.40"), Description: "Weekly groceries", Category: "Groceries", Date: day(-1)},
		{Type: models.TypeExpense, Amount: decimal.RequireFromString("54.20"), Description: "Fuel top-up", Category: "Fuel", Date: day(0)},
		{Type: models.TypeExpense, Amount: decimal.RequireFromString("38.75"), Description: "Dinner with friends", Category: "Dining Out", Date: day(-5)},
	}
}
