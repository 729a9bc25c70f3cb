package database

import (
	"context"
	"testing"
	"time"

	"github.com/Nikhil170404/Tradee/internal/config"
)

// SetupTestDB creates a test database connection and verifies it.
// Tests calling this are skipped when the test database is unreachable.
func SetupTestDB(t *testing.T) *DB {
	cfg, err := config.Load("../../config/config.test.yaml")
	if err != nil {
		t.Skipf("no test config available: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}
