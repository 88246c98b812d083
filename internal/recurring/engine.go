package recurring

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jthorne/penny/internal/model"
	"github.com/jthorne/penny/internal/recurrence"
)

// Store is the persistence the engine needs. Apply must commit the whole
// batch in one transaction.
type Store interface {
	ListForUser(userID int64) ([]model.RecurringExpense, error)
	Apply(entries []model.Expense, advances map[int64]time.Time) error
}

// Engine advances due recurring templates into concrete expenses.
type Engine struct {
	store  Store
	logger *slog.Logger

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

func NewEngine(store Store, logger *slog.Logger) *Engine {
	return &Engine{
		store:     store,
		logger:    logger,
		userLocks: make(map[int64]*sync.Mutex),
	}
}

// ProcessDue materializes an expense dated today for every template of the
// user whose next_run is on or before today, and advances each fired
// template's next_run from its OLD due date. A template several periods
// behind fires once per call, not once per missed period; the guarantee is
// at-least-once, with at-most-once-per-day left to the caller's cadence.
// Returns the number of expenses created.
//
// Calls for the same user are serialized so concurrent invocations cannot
// double-advance a template.
func (e *Engine) ProcessDue(userID int64, today time.Time) (int, error) {
	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	today = dateOf(today)

	templates, err := e.store.ListForUser(userID)
	if err != nil {
		return 0, fmt.Errorf("list templates: %w", err)
	}

	var entries []model.Expense
	advances := make(map[int64]time.Time)

	for _, tpl := range templates {
		if tpl.NextRun.IsZero() {
			continue
		}
		nextRun := dateOf(tpl.NextRun)
		if nextRun.After(today) {
			continue
		}

		// A template with a broken frequency can never advance; creating an
		// entry for it would duplicate on every call. Skip it whole.
		freq, err := recurrence.Parse(tpl.Frequency)
		if err != nil {
			e.logger.Warn("skipping recurring template",
				"template_id", tpl.ID, "frequency", tpl.Frequency, "error", err)
			continue
		}

		advanced, err := recurrence.Advance(freq, nextRun)
		if err != nil {
			e.logger.Warn("skipping recurring template",
				"template_id", tpl.ID, "frequency", tpl.Frequency, "error", err)
			continue
		}

		entries = append(entries, model.Expense{
			UserID:      userID,
			Title:       tpl.Name,
			Currency:    tpl.Currency,
			Amount:      tpl.Amount,
			Category:    tpl.Category,
			Description: tpl.Description,
			Date:        today,
		})
		advances[tpl.ID] = advanced
	}

	if len(entries) == 0 {
		return 0, nil
	}

	if err := e.store.Apply(entries, advances); err != nil {
		return 0, fmt.Errorf("apply recurring batch: %w", err)
	}

	e.logger.Info("processed recurring expenses",
		"user_id", userID, "created", len(entries))
	return len(entries), nil
}

func (e *Engine) userLock(userID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.userLocks[userID] = lock
	}
	return lock
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
