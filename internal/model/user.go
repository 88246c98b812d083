package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Number        string          `json:"number"`
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	Currency      string          `json:"currency"`
	Theme         string          `json:"theme"`
	CreatedAt     time.Time       `json:"created_at"`
}
