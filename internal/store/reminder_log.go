package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jthorne/penny/internal/model"
)

type ReminderLogStore struct {
	db *sql.DB
}

func NewReminderLogStore(db *sql.DB) *ReminderLogStore {
	return &ReminderLogStore{db: db}
}

// Insert records a fired reminder cycle and fills in the row ID.
func (s *ReminderLogStore) Insert(userID int64, pushSentAt time.Time) (*model.ReminderLog, error) {
	result, err := s.db.Exec(
		`INSERT INTO reminder_logs (user_id, push_sent_at) VALUES (?, ?)`,
		userID, pushSentAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert reminder log: %w", err)
	}
	id, _ := result.LastInsertId()
	return s.Get(id)
}

func (s *ReminderLogStore) Get(id int64) (*model.ReminderLog, error) {
	var rl model.ReminderLog
	var emailSent int
	err := s.db.QueryRow(
		`SELECT id, user_id, push_sent_at, email_sent FROM reminder_logs WHERE id = ?`, id,
	).Scan(&rl.ID, &rl.UserID, &rl.PushSentAt, &emailSent)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reminder log: %w", err)
	}
	rl.EmailSent = emailSent != 0
	rl.PushSentAt = rl.PushSentAt.UTC()
	return &rl, nil
}

// MarkEmailSent flips email_sent to true. The flag only moves forward;
// marking an already-marked or missing row changes nothing.
func (s *ReminderLogStore) MarkEmailSent(id int64) error {
	_, err := s.db.Exec(
		`UPDATE reminder_logs SET email_sent = 1 WHERE id = ? AND email_sent = 0`, id,
	)
	if err != nil {
		return fmt.Errorf("mark email sent: %w", err)
	}
	return nil
}
