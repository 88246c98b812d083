package store

import (
	"database/sql"
	"testing"

	"github.com/jthorne/penny/internal/database"
	"github.com/jthorne/penny/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, name string) *model.User {
	t.Helper()
	u, err := NewUserStore(db).Create(name, name+"@example.com", "555-"+name)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}
