package store

import (
	"database/sql"
	"fmt"

	"github.com/jthorne/penny/internal/model"
)

type TokenStore struct {
	db *sql.DB
}

func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

// UpsertUnique registers a device token for a user. A token belongs to
// exactly one user: if another user previously owned it, ownership moves
// (last install wins).
func (s *TokenStore) UpsertUnique(userID int64, token string) error {
	_, err := s.db.Exec(
		`INSERT INTO device_tokens (user_id, token) VALUES (?, ?)
		 ON CONFLICT(token) DO UPDATE SET user_id = excluded.user_id`,
		userID, token,
	)
	if err != nil {
		return fmt.Errorf("upsert device token: %w", err)
	}
	return nil
}

func (s *TokenStore) ListForUser(userID int64) ([]model.DeviceToken, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, token, created_at
		 FROM device_tokens WHERE user_id = ? ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []model.DeviceToken
	for rows.Next() {
		var dt model.DeviceToken
		if err := rows.Scan(&dt.ID, &dt.UserID, &dt.Token, &dt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan device token: %w", err)
		}
		tokens = append(tokens, dt)
	}
	return tokens, rows.Err()
}

// RemoveByToken deletes a token regardless of owner. Called when the push
// gateway reports the token as no longer valid.
func (s *TokenStore) RemoveByToken(token string) error {
	_, err := s.db.Exec(`DELETE FROM device_tokens WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("remove device token: %w", err)
	}
	return nil
}
