package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jthorne/penny/internal/model"
)

const dateLayout = "2006-01-02"

type RecurringStore struct {
	db *sql.DB
}

func NewRecurringStore(db *sql.DB) *RecurringStore {
	return &RecurringStore{db: db}
}

func (s *RecurringStore) Create(rec *model.RecurringExpense) error {
	result, err := s.db.Exec(
		`INSERT INTO recurring_expenses (user_id, name, currency, amount, category, description, frequency, next_run)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.Name, rec.Currency, rec.Amount.String(), rec.Category,
		rec.Description, rec.Frequency, rec.NextRun.Format(dateLayout),
	)
	if err != nil {
		return fmt.Errorf("create recurring expense: %w", err)
	}
	rec.ID, _ = result.LastInsertId()
	return nil
}

func (s *RecurringStore) ListForUser(userID int64) ([]model.RecurringExpense, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, name, currency, amount, category, description, frequency, next_run
		 FROM recurring_expenses WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}
	defer rows.Close()

	var recs []model.RecurringExpense
	for rows.Next() {
		var rec model.RecurringExpense
		var amount, nextRun string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Currency, &amount, &rec.Category, &rec.Description, &rec.Frequency, &nextRun); err != nil {
			return nil, fmt.Errorf("scan recurring expense: %w", err)
		}
		rec.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse recurring amount: %w", err)
		}
		rec.NextRun, err = parseDate(nextRun)
		if err != nil {
			return nil, fmt.Errorf("parse next_run: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Apply commits one advancement pass as a single transaction: all created
// expenses and all next_run updates land together or not at all.
func (s *RecurringStore) Apply(entries []model.Expense, advances map[int64]time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin recurring apply: %w", err)
	}
	defer tx.Rollback()

	for i := range entries {
		e := &entries[i]
		result, err := tx.Exec(
			`INSERT INTO expenses (user_id, title, currency, amount, date, category, description)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.UserID, e.Title, e.Currency, e.Amount.String(), e.Date.UTC(), e.Category, e.Description,
		)
		if err != nil {
			return fmt.Errorf("insert recurring entry: %w", err)
		}
		e.ID, _ = result.LastInsertId()
	}

	for id, nextRun := range advances {
		if _, err := tx.Exec(
			`UPDATE recurring_expenses SET next_run = ? WHERE id = ?`,
			nextRun.Format(dateLayout), id,
		); err != nil {
			return fmt.Errorf("advance recurring expense %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit recurring apply: %w", err)
	}
	return nil
}

// ListUserIDs returns distinct user IDs owning at least one template.
func (s *RecurringStore) ListUserIDs() ([]int64, error) {
	rows, err := s.db.Query(`SELECT DISTINCT user_id FROM recurring_expenses`)
	if err != nil {
		return nil, fmt.Errorf("list recurring user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan recurring user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// parseDate normalizes a stored next_run to a plain UTC date. Upstream
// writers have historically stored either a bare date or a full timestamp;
// any time-of-day and zone offset are dropped rather than rejected.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{dateLayout, time.RFC3339, "2006-01-02 15:04:05Z07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
