package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jthorne/penny/internal/model"
)

// ErrInvalidTimezone is returned when a setting names an unknown IANA zone.
// The save is rejected; the scheduler never falls back to a default zone.
var ErrInvalidTimezone = errors.New("invalid timezone")

// SettingSource lists the enabled reminder settings the trigger set is
// rebuilt from at startup.
type SettingSource interface {
	ListEnabled() ([]model.NotificationSetting, error)
}

// Scheduler owns the per-user daily triggers and the one-shot follow-ups.
// Each enabled user has exactly one trigger; registering again replaces it.
type Scheduler struct {
	mu       sync.Mutex
	handler  Handler
	settings SettingSource
	logger   *slog.Logger
	baseCtx  context.Context
	cancel   context.CancelFunc
	triggers map[int64]*trigger
	oneShots map[string]*time.Timer
}

type trigger struct {
	cancel context.CancelFunc
}

func NewScheduler(settings SettingSource, logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		settings: settings,
		logger:   logger,
		baseCtx:  ctx,
		cancel:   cancel,
		triggers: make(map[int64]*trigger),
		oneShots: make(map[string]*time.Timer),
	}
}

// SetHandler wires the job handler. Must be called before any trigger fires.
func (s *Scheduler) SetHandler(h Handler) {
	s.mu.Lock()
	s.handler = h
	s.mu.Unlock()
}

// Register installs or replaces the daily trigger for the setting's user.
// A disabled setting unregisters instead. The replacement is atomic: at no
// point do two triggers exist for the same user.
func (s *Scheduler) Register(setting *model.NotificationSetting) error {
	if !setting.Enabled {
		s.Unregister(setting.UserID)
		return nil
	}

	loc, err := time.LoadLocation(setting.Timezone)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, setting.Timezone)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.triggers[setting.UserID]; ok {
		old.cancel()
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	s.triggers[setting.UserID] = &trigger{cancel: cancel}

	go s.runTrigger(ctx, setting.UserID, setting.ReminderHour, setting.ReminderMinute, loc)

	s.logger.Info("reminder trigger registered",
		"user_id", setting.UserID,
		"time", fmt.Sprintf("%02d:%02d", setting.ReminderHour, setting.ReminderMinute),
		"timezone", setting.Timezone)
	return nil
}

// Unregister removes the user's daily trigger. Follow-up checks already
// scheduled for an in-flight cycle are left to run.
func (s *Scheduler) Unregister(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.triggers[userID]; ok {
		old.cancel()
		delete(s.triggers, userID)
		s.logger.Info("reminder trigger unregistered", "user_id", userID)
	}
}

// LoadAll rebuilds the trigger set from every enabled setting. Called once
// at process start; the trigger set itself is never persisted.
func (s *Scheduler) LoadAll() error {
	settings, err := s.settings.ListEnabled()
	if err != nil {
		return fmt.Errorf("list enabled settings: %w", err)
	}

	for i := range settings {
		if err := s.Register(&settings[i]); err != nil {
			// One bad stored zone must not keep everyone else's
			// reminders from loading.
			s.logger.Error("skipping reminder setting",
				"user_id", settings[i].UserID, "error", err)
		}
	}

	s.logger.Info("reminder triggers loaded", "count", len(settings))
	return nil
}

// ScheduleOnce runs job at the given time. Scheduling again under the same
// id replaces the earlier timer, so a duplicate submission fires once.
func (s *Scheduler) ScheduleOnce(id string, at time.Time, job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.oneShots[id]; ok {
		old.Stop()
	}

	s.oneShots[id] = time.AfterFunc(time.Until(at), func() {
		s.mu.Lock()
		delete(s.oneShots, id)
		s.mu.Unlock()
		s.dispatch(job)
	})
}

// TriggerCount reports the number of active per-user triggers.
func (s *Scheduler) TriggerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.triggers)
}

// Stop cancels every trigger and pending one-shot.
func (s *Scheduler) Stop() {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	for uid, tr := range s.triggers {
		tr.cancel()
		delete(s.triggers, uid)
	}
	for id, timer := range s.oneShots {
		timer.Stop()
		delete(s.oneShots, id)
	}
}

func (s *Scheduler) runTrigger(ctx context.Context, userID int64, hour, minute int, loc *time.Location) {
	for {
		next := nextFireTime(time.Now(), hour, minute, loc)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if ctx.Err() != nil {
				return
			}
			s.dispatch(Job{Kind: JobDailyPush, UserID: userID})
		}
	}
}

func (s *Scheduler) dispatch(job Job) {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()

	if h == nil {
		s.logger.Error("no job handler wired", "kind", job.Kind)
		return
	}
	h.HandleJob(job)
}

// nextFireTime returns the next instant the wall clock in loc reads
// hour:minute, strictly after now. Around DST transitions time.Date
// normalizes a skipped wall-clock time onto the adjusted offset, so the
// trigger still fires exactly once that day.
func nextFireTime(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(now) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return next
}
