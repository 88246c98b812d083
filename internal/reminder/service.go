package reminder

import (
	"fmt"
	"time"

	"github.com/jthorne/penny/internal/model"
)

// SettingSaver persists reminder settings.
type SettingSaver interface {
	Upsert(setting *model.NotificationSetting) (*model.NotificationSetting, error)
}

// Service is the entry point surrounding code uses when a user saves their
// reminder preference: validate, persist, then swap the live trigger.
type Service struct {
	store     SettingSaver
	scheduler *Scheduler
}

func NewService(store SettingSaver, scheduler *Scheduler) *Service {
	return &Service{store: store, scheduler: scheduler}
}

// SaveSetting validates and stores the setting, then registers (or removes)
// the user's trigger. An unknown timezone rejects the save outright; nothing
// is persisted and the previous trigger stays in place.
func (s *Service) SaveSetting(setting *model.NotificationSetting) (*model.NotificationSetting, error) {
	if err := ValidateTimezone(setting.Timezone); err != nil {
		return nil, err
	}

	saved, err := s.store.Upsert(setting)
	if err != nil {
		return nil, fmt.Errorf("save notification setting: %w", err)
	}

	if err := s.scheduler.Register(saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// ValidateTimezone checks that tz names a loadable IANA zone.
func ValidateTimezone(tz string) error {
	if _, err := time.LoadLocation(tz); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	return nil
}
