package model

import "time"

// NotificationSetting holds a user's daily reminder preference. At most one
// row exists per user; it is the single source of truth the scheduler
// rebuilds its triggers from after a restart.
type NotificationSetting struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	ReminderHour   int    `json:"reminder_hour"`
	ReminderMinute int    `json:"reminder_minute"`
	Timezone       string `json:"timezone"`
	Enabled        bool   `json:"enabled"`
}

// ReminderLog records one fired reminder cycle. EmailSent only ever moves
// from false to true, and only when the fallback email was delivered.
type ReminderLog struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	PushSentAt time.Time `json:"push_sent_at"`
	EmailSent  bool      `json:"email_sent"`
}

// DeviceToken is an opaque push delivery address. A token belongs to exactly
// one user at a time; re-registering it under another user moves it.
type DeviceToken struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}
