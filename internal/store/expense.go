package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jthorne/penny/internal/model"
)

type ExpenseStore struct {
	db *sql.DB
}

func NewExpenseStore(db *sql.DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

func (s *ExpenseStore) Insert(e *model.Expense) error {
	result, err := s.db.Exec(
		`INSERT INTO expenses (user_id, title, currency, amount, date, category, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Title, e.Currency, e.Amount.String(), e.Date.UTC(), e.Category, e.Description,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	e.ID, _ = result.LastInsertId()
	return nil
}

// ExistsInWindow reports whether the user logged any expense with a date in
// [start, end]. Both bounds are inclusive; an expense at either boundary
// counts as activity.
func (s *ExpenseStore) ExistsInWindow(userID int64, start, end time.Time) (bool, error) {
	var id int64
	err := s.db.QueryRow(
		`SELECT id FROM expenses WHERE user_id = ? AND date >= ? AND date <= ? LIMIT 1`,
		userID, start.UTC(), end.UTC(),
	).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check expenses in window: %w", err)
	}
	return true, nil
}

func (s *ExpenseStore) ListForUser(userID int64) ([]model.Expense, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, title, currency, amount, date, category, description, last_modified
		 FROM expenses WHERE user_id = ? ORDER BY date DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		var e model.Expense
		var amount string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Currency, &amount, &e.Date, &e.Category, &e.Description, &e.LastModified); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse expense amount: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
