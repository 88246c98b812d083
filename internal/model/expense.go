package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Title        string          `json:"title"`
	Currency     string          `json:"currency"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Category     string          `json:"category"`
	Description  string          `json:"description"`
	LastModified time.Time       `json:"last_modified"`
}

// RecurringExpense is a template that materializes an Expense each time its
// next_run date comes due. NextRun carries only a date; any time-of-day from
// an upstream writer is dropped at the storage boundary.
type RecurringExpense struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Name        string          `json:"name"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Frequency   string          `json:"frequency"`
	NextRun     time.Time       `json:"next_run"`
}
