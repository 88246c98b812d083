package store

import (
	"database/sql"
	"fmt"

	"github.com/jthorne/penny/internal/model"
)

type SettingStore struct {
	db *sql.DB
}

func NewSettingStore(db *sql.DB) *SettingStore {
	return &SettingStore{db: db}
}

// Upsert saves a user's reminder setting. At most one row exists per user;
// saving again overwrites time, timezone and enabled flag in place.
func (s *SettingStore) Upsert(setting *model.NotificationSetting) (*model.NotificationSetting, error) {
	enabled := 0
	if setting.Enabled {
		enabled = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO notification_settings (user_id, reminder_hour, reminder_minute, timezone, enabled)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   reminder_hour = excluded.reminder_hour,
		   reminder_minute = excluded.reminder_minute,
		   timezone = excluded.timezone,
		   enabled = excluded.enabled`,
		setting.UserID, setting.ReminderHour, setting.ReminderMinute, setting.Timezone, enabled,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert notification setting: %w", err)
	}
	return s.GetByUser(setting.UserID)
}

func (s *SettingStore) GetByUser(userID int64) (*model.NotificationSetting, error) {
	var ns model.NotificationSetting
	var enabled int
	err := s.db.QueryRow(
		`SELECT id, user_id, reminder_hour, reminder_minute, timezone, enabled
		 FROM notification_settings WHERE user_id = ?`, userID,
	).Scan(&ns.ID, &ns.UserID, &ns.ReminderHour, &ns.ReminderMinute, &ns.Timezone, &enabled)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get notification setting: %w", err)
	}
	ns.Enabled = enabled != 0
	return &ns, nil
}

// ListEnabled returns every setting with reminders switched on. The scheduler
// rebuilds its whole trigger set from this at startup.
func (s *SettingStore) ListEnabled() ([]model.NotificationSetting, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, reminder_hour, reminder_minute, timezone, enabled
		 FROM notification_settings WHERE enabled = 1 ORDER BY user_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list enabled notification settings: %w", err)
	}
	defer rows.Close()

	var settings []model.NotificationSetting
	for rows.Next() {
		var ns model.NotificationSetting
		var enabled int
		if err := rows.Scan(&ns.ID, &ns.UserID, &ns.ReminderHour, &ns.ReminderMinute, &ns.Timezone, &enabled); err != nil {
			return nil, fmt.Errorf("scan notification setting: %w", err)
		}
		ns.Enabled = enabled != 0
		settings = append(settings, ns)
	}
	return settings, rows.Err()
}
