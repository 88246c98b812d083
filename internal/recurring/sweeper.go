package recurring

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// UserLister enumerates users owning recurring templates.
type UserLister interface {
	ListUserIDs() ([]int64, error)
}

// Sweeper periodically runs the engine for every user with templates, so
// templates advance without waiting for a client request. Each user is
// processed at most once per UTC day; a missed day is not caught up.
type Sweeper struct {
	mu       sync.RWMutex
	engine   *Engine
	users    UserLister
	logger   *slog.Logger
	interval time.Duration
	lastDay  string
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewSweeper(engine *Engine, users UserLister, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		engine:   engine,
		users:    users,
		logger:   logger,
		interval: interval,
	}
}

// Start begins the sweep loop. The first sweep runs immediately.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.sweep()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

// Stop gracefully stops the sweeper.
func (s *Sweeper) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Sweeper) sweep() {
	now := time.Now().UTC()
	day := now.Format("2006-01-02")

	s.mu.Lock()
	if s.lastDay == day {
		s.mu.Unlock()
		return
	}
	s.lastDay = day
	s.mu.Unlock()

	userIDs, err := s.users.ListUserIDs()
	if err != nil {
		s.logger.Error("recurring sweep: list users", "error", err)
		return
	}

	for _, uid := range userIDs {
		if _, err := s.engine.ProcessDue(uid, now); err != nil {
			s.logger.Error("recurring sweep: process user", "user_id", uid, "error", err)
		}
	}
}
