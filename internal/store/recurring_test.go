package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jthorne/penny/internal/model"
)

func TestRecurringCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	rs := NewRecurringStore(db)

	rec := &model.RecurringExpense{
		UserID:    alice.ID,
		Name:      "Rent",
		Currency:  "USD",
		Amount:    decimal.NewFromInt(1200),
		Category:  "Bills",
		Frequency: "monthly",
		NextRun:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := rs.Create(rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	recs, err := rs.ListForUser(alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len = %d, want 1", len(recs))
	}
	got := recs[0]
	if got.Name != "Rent" || got.Frequency != "monthly" {
		t.Errorf("got %+v", got)
	}
	if !got.NextRun.Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("next_run = %v, want 2024-07-01", got.NextRun)
	}
	if !got.Amount.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("amount = %s, want 1200", got.Amount)
	}
}

// A next_run written by an older client as a full timestamp is read back as
// a plain date; time-of-day and offset are dropped.
func TestRecurringNextRunTimestampNormalized(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	rs := NewRecurringStore(db)

	_, err := db.Exec(
		`INSERT INTO recurring_expenses (user_id, name, currency, amount, category, description, frequency, next_run)
		 VALUES (?, 'Gym', 'USD', '30', 'Health', '', 'monthly', '2024-06-15T18:30:00+02:00')`,
		alice.ID,
	)
	if err != nil {
		t.Fatalf("raw insert: %v", err)
	}

	recs, err := rs.ListForUser(alice.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len = %d, want 1", len(recs))
	}
	want := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	if !recs[0].NextRun.Equal(want) {
		t.Errorf("next_run = %v, want %v", recs[0].NextRun, want)
	}
}

func TestRecurringApply(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	rs := NewRecurringStore(db)
	es := NewExpenseStore(db)

	rec := &model.RecurringExpense{
		UserID:    alice.ID,
		Name:      "Netflix",
		Currency:  "USD",
		Amount:    decimal.NewFromFloat(15.99),
		Category:  "Subscriptions",
		Frequency: "monthly",
		NextRun:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := rs.Create(rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	entry := model.Expense{
		UserID:   alice.ID,
		Title:    rec.Name,
		Currency: rec.Currency,
		Amount:   rec.Amount,
		Date:     time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Category: rec.Category,
	}
	advanced := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	if err := rs.Apply([]model.Expense{entry}, map[int64]time.Time{rec.ID: advanced}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	expenses, err := es.ListForUser(alice.ID)
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(expenses) != 1 || expenses[0].Title != "Netflix" {
		t.Fatalf("expenses = %+v, want single Netflix entry", expenses)
	}

	recs, err := rs.ListForUser(alice.ID)
	if err != nil {
		t.Fatalf("list recurring: %v", err)
	}
	if !recs[0].NextRun.Equal(advanced) {
		t.Errorf("next_run = %v, want %v", recs[0].NextRun, advanced)
	}
}

func TestRecurringApplyEmpty(t *testing.T) {
	db := setupTestDB(t)
	rs := NewRecurringStore(db)

	if err := rs.Apply(nil, nil); err != nil {
		t.Fatalf("empty apply: %v", err)
	}
}

func TestRecurringListUserIDs(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	rs := NewRecurringStore(db)

	for _, uid := range []int64{alice.ID, alice.ID, bob.ID} {
		err := rs.Create(&model.RecurringExpense{
			UserID: uid, Name: "x", Currency: "USD",
			Amount: decimal.NewFromInt(1), Category: "Others",
			Frequency: "daily", NextRun: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	ids, err := rs.ListUserIDs()
	if err != nil {
		t.Fatalf("list user ids: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("len = %d, want 2", len(ids))
	}
}
