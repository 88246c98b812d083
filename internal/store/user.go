package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jthorne/penny/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(name, email, number string) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (name, email, number) VALUES (?, ?, ?)`,
		name, email, number,
	)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	id, _ := result.LastInsertId()
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	var u model.User
	var budget string
	err := s.db.QueryRow(
		`SELECT id, name, email, number, monthly_budget, currency, theme, created_at
		 FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Number, &budget, &u.Currency, &u.Theme, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.MonthlyBudget, err = decimal.NewFromString(budget)
	if err != nil {
		return nil, fmt.Errorf("parse monthly budget: %w", err)
	}
	return &u, nil
}

// GetEmail returns the user's email address, or "" if the user no longer
// exists. A vanished user is an expected no-op for in-flight reminder cycles.
func (s *UserStore) GetEmail(userID int64) (string, error) {
	var email string
	err := s.db.QueryRow(`SELECT email FROM users WHERE id = ?`, userID).Scan(&email)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get user email: %w", err)
	}
	return email, nil
}
