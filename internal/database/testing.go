package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB connects to the database named by TEST_DATABASE_URL, skipping
// the test when the variable is unset so the integration suite is opt-in.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &DB{pool: pool}
	if err := db.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return db
}

// TeardownTestDB truncates the mutable table and closes the connection.
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.pool.Exec(ctx, "TRUNCATE TABLE strategy_universe"); err != nil {
		t.Logf("Warning: failed to truncate strategy_universe: %v", err)
	}

	db.Close()
}
