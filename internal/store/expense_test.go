package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jthorne/penny/internal/model"
)

func insertTestExpense(t *testing.T, es *ExpenseStore, userID int64, date time.Time) {
	t.Helper()
	err := es.Insert(&model.Expense{
		UserID:   userID,
		Title:    "Lunch",
		Currency: "USD",
		Amount:   decimal.NewFromFloat(12.50),
		Date:     date,
		Category: "Food",
	})
	if err != nil {
		t.Fatalf("insert expense: %v", err)
	}
}

func TestExpenseInsertAndList(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	es := NewExpenseStore(db)

	insertTestExpense(t, es, alice.ID, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	expenses, err := es.ListForUser(alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(expenses) != 1 {
		t.Fatalf("len = %d, want 1", len(expenses))
	}
	if expenses[0].Title != "Lunch" {
		t.Errorf("title = %q, want Lunch", expenses[0].Title)
	}
	if !expenses[0].Amount.Equal(decimal.NewFromFloat(12.50)) {
		t.Errorf("amount = %s, want 12.5", expenses[0].Amount)
	}
}

func TestExistsInWindowInclusiveBounds(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	es := NewExpenseStore(db)

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"before window", start.Add(-time.Minute), false},
		{"at start", start, true},
		{"inside", start.Add(30 * time.Minute), true},
		{"at end", end, true},
		{"after window", end.Add(time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := createTestUser(t, db, "u-"+tt.name)
			insertTestExpense(t, es, user.ID, tt.date)

			got, err := es.ExistsInWindow(user.ID, start, end)
			if err != nil {
				t.Fatalf("exists in window: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExistsInWindow = %v, want %v", got, tt.want)
			}
		})
	}

	// No expenses at all.
	got, err := es.ExistsInWindow(alice.ID, start, end)
	if err != nil {
		t.Fatalf("exists in window: %v", err)
	}
	if got {
		t.Error("expected false for user with no expenses")
	}
}

func TestExistsInWindowOtherUser(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	es := NewExpenseStore(db)

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	insertTestExpense(t, es, bob.ID, start.Add(10*time.Minute))

	got, err := es.ExistsInWindow(alice.ID, start, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("exists in window: %v", err)
	}
	if got {
		t.Error("bob's expense must not count as alice's activity")
	}
}
